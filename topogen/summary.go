// Copyright 2026 ETH Zurich
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package topogen

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v2"

	"github.com/netsec-ethz/topogen/pkg/private/serrors"
	"github.com/netsec-ethz/topogen/private/topology"
)

// Format is an output format of the summary.
type Format string

// The supported formats.
const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses an output format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatHuman, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", serrors.New("unknown output format", "format", s)
	}
}

// ASSummary describes one AS.
type ASSummary struct {
	AS      string `json:"as" yaml:"as"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Routers int    `json:"routers" yaml:"routers"`
	Links   int    `json:"links" yaml:"links"`
}

// FamilySummary describes the address space of one family.
type FamilySummary struct {
	Family      string  `json:"family" yaml:"family"`
	Network     string  `json:"network" yaml:"network"`
	Subnets     int     `json:"subnets" yaml:"subnets"`
	Addresses   int     `json:"addresses" yaml:"addresses"`
	Utilization float64 `json:"utilization" yaml:"utilization"`
}

// Summary describes an addressed topology.
type Summary struct {
	Source      string          `json:"source" yaml:"source"`
	ASes        []ASSummary     `json:"ases" yaml:"ases"`
	Links       int             `json:"links" yaml:"links"`
	Routers     int             `json:"routers" yaml:"routers"`
	IntraGroups int             `json:"intra_as_subnets" yaml:"intra_as_subnets"`
	Families    []FamilySummary `json:"families" yaml:"families"`
}

// NewSummary summarizes res.
func NewSummary(res *topology.Result) Summary {
	topo := res.Topology
	s := Summary{
		Source:  topo.Source,
		Links:   len(topo.Links),
		Routers: len(res.Routers()),
	}
	links := make(map[string]int)
	for _, l := range topo.Links {
		links[l.Record.From.String()]++
		links[l.Record.To.String()]++
	}
	for _, as := range topo.ASes {
		id := as.Record.ID.String()
		s.ASes = append(s.ASes, ASSummary{
			AS:      id,
			Name:    as.Record.Name,
			Routers: len(as.Routers),
			Links:   links[id],
		})
	}
	for _, g := range topo.Groups() {
		if g.Intra {
			s.IntraGroups++
		}
	}
	for _, f := range res.Families() {
		space := res.Spaces[f]
		s.Families = append(s.Families, FamilySummary{
			Family:      f.String(),
			Network:     space.Network().String(),
			Subnets:     space.Len(),
			Addresses:   space.Addresses(),
			Utilization: space.Utilization(),
		})
	}
	return s
}

// Write writes the summary in the given format.
func (s Summary) Write(w io.Writer, format Format, colored bool) error {
	switch format {
	case FormatJSON:
		return s.JSON(w)
	case FormatYAML:
		return s.YAML(w)
	default:
		s.Human(w, colored)
		return nil
	}
}

// Human writes human readable output to the writer.
func (s Summary) Human(w io.Writer, colored bool) {
	keys := fmt.Sprint
	header := fmt.Sprint
	if colored {
		keys = color.New(color.FgHiCyan).Sprint
		header = color.New(color.FgHiBlack).Sprint
	}
	fmt.Fprintf(w, "%s: %s\n", keys("Source"), s.Source)
	fmt.Fprintf(w, "%s: %d  %s: %d  %s: %d  %s: %d\n",
		keys("ASes"), len(s.ASes),
		keys("Links"), s.Links,
		keys("Routers"), s.Routers,
		keys("Intra-AS subnets"), s.IntraGroups,
	)

	fmt.Fprintln(w, "\n"+header("ASes:"))
	ases := make([][]string, 0, len(s.ASes))
	for _, as := range s.ASes {
		ases = append(ases, []string{
			as.AS, as.Name, strconv.Itoa(as.Routers), strconv.Itoa(as.Links),
		})
	}
	renderTable(w, []string{"AS", "NAME", "ROUTERS", "LINKS"}, ases)

	fmt.Fprintln(w, "\n"+header("Address spaces:"))
	families := make([][]string, 0, len(s.Families))
	for _, f := range s.Families {
		families = append(families, []string{
			f.Family, f.Network, strconv.Itoa(f.Subnets), strconv.Itoa(f.Addresses),
			fmt.Sprintf("%.4f%%", f.Utilization*100),
		})
	}
	renderTable(w, []string{"FAMILY", "NETWORK", "SUBNETS", "ADDRESSES", "UTILIZATION"},
		families)
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.Render()
}

// JSON writes the summary as a json object to the writer.
func (s Summary) JSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(s)
}

// YAML writes the summary as a yaml document to the writer.
func (s Summary) YAML(w io.Writer) error {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return serrors.Wrap("encoding yaml", err)
	}
	_, err = w.Write(raw)
	return err
}
