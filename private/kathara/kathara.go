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

// Package kathara renders an addressed topology as a Kathará lab.
//
// Every subnet becomes a collision domain and every router a device. The
// device startup files assign the interface addresses and, on intra-AS
// interfaces, emulate the propagation delay between the router locations with
// netem.
package kathara

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/netsec-ethz/topogen/pkg/addr"
	"github.com/netsec-ethz/topogen/pkg/private/serrors"
	"github.com/netsec-ethz/topogen/pkg/private/util"
	"github.com/netsec-ethz/topogen/pkg/subnet"
	"github.com/netsec-ethz/topogen/private/topology"
)

const (
	// LabConf is the name of the lab description file.
	LabConf = "lab.conf"
	// DefaultImage is the default device image name.
	DefaultImage = "base"
	// DefaultTag is the default device image tag.
	DefaultTag = "latest"
)

// Options configures the rendering.
type Options struct {
	// Megalos selects the interface naming of Megalos (net0) instead of the
	// Kathará default (eth0).
	Megalos bool
	// Registry is the optional docker registry of the image.
	Registry string
	// Image is the device image name.
	Image string
	// Tag is the device image tag.
	Tag string
}

// ImageRef returns the image reference of the devices.
func (o Options) ImageRef() string {
	image, tag := o.Image, o.Tag
	if image == "" {
		image = DefaultImage
	}
	if tag == "" {
		tag = DefaultTag
	}
	ref := image + ":" + tag
	if o.Registry != "" {
		ref = o.Registry + "/" + ref
	}
	return ref
}

func (o Options) ifName(i int) string {
	if o.Megalos {
		return "net" + strconv.Itoa(i)
	}
	return "eth" + strconv.Itoa(i)
}

// File is a rendered lab file.
type File struct {
	Name    string
	Content []byte
}

// Lab is a rendered lab.
type Lab struct {
	Conf    []byte
	Startup map[addr.Router][]byte
}

// Files returns lab.conf followed by the startup files sorted by name.
func (l *Lab) Files() []File {
	files := []File{{Name: LabConf, Content: l.Conf}}
	var startup []File
	for r, content := range l.Startup {
		startup = append(startup, File{Name: r.String() + ".startup", Content: content})
	}
	sort.Slice(startup, func(i, j int) bool {
		return startup[i].Name < startup[j].Name
	})
	return append(files, startup...)
}

// Write writes all files of the lab into dir.
func (l *Lab) Write(dir string) error {
	for _, f := range l.Files() {
		if err := util.WriteFile(filepath.Join(dir, f.Name), f.Content, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// CollisionDomain returns the name of the i-th collision domain: i in base 36.
func CollisionDomain(i int) string {
	return strconv.FormatInt(int64(i), 36)
}

// Render renders the lab.
func Render(res *topology.Result, opts Options) (*Lab, error) {
	domains := make(map[addr.RouterPair]string)
	for i, g := range res.Topology.Groups() {
		domains[g.Key] = CollisionDomain(i)
	}
	families := res.Families()
	if len(families) == 0 {
		return nil, serrors.New("no address family allocated")
	}

	var domainLines, imageLines []string
	lab := &Lab{Startup: make(map[addr.Router][]byte)}
	image := opts.ImageRef()
	for _, r := range res.Routers() {
		var addrs, delays bytes.Buffer
		for i, iface := range res.Interfaces(r.Name) {
			dev := opts.ifName(i)
			domainLines = append(domainLines,
				fmt.Sprintf("%s[%d]=%q\n", r.Name, i, domains[iface.Group]))
			for _, f := range families {
				cmd := "ip addr add"
				if f == subnet.IPv6 {
					cmd = "ip -6 addr add"
				}
				fmt.Fprintf(&addrs, "%s %s dev %s\n", cmd, iface.Addrs[f], dev)
			}
			if iface.Intra {
				fmt.Fprintf(&delays, "tc qdisc add dev %s root netem delay %.3fms\n",
					dev, iface.Latency)
			}
		}
		imageLines = append(imageLines, fmt.Sprintf("%s[image]=%q\n", r.Name, image))
		addrs.Write(delays.Bytes())
		lab.Startup[r.Name] = addrs.Bytes()
	}
	sort.Strings(domainLines)
	sort.Strings(imageLines)

	var conf bytes.Buffer
	fmt.Fprintf(&conf, "LAB_DESCRIPTION=\"Caida to Kathará: %s\"\n", res.Topology.Source)
	conf.WriteString("LAB_AUTHOR=\"ETH Zurich\"\n")
	conf.WriteString("LAB_VERSION=1.0\n")
	conf.WriteString("LAB_WEB=\"http://example.com\"\n")
	conf.WriteString("\n# Collision domains\n")
	for _, l := range domainLines {
		conf.WriteString(l)
	}
	conf.WriteString("\n# Container images\n")
	for _, l := range imageLines {
		conf.WriteString(l)
	}
	conf.WriteString("\n")
	lab.Conf = conf.Bytes()
	return lab, nil
}
