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

package caida

import (
	"encoding/xml"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/netsec-ethz/topogen/pkg/addr"
	"github.com/netsec-ethz/topogen/pkg/geo"
	"github.com/netsec-ethz/topogen/pkg/private/serrors"
)

type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []element  `xml:",any"`
}

func (e *element) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// value reads the typed text of the element.
func (e *element) value() (Value, error) {
	typ, _ := e.attr("type")
	return ParseValue(typ, strings.TrimSpace(e.Text))
}

// LoadFile reads the topology document at path.
func LoadFile(path string) (*Records, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, serrors.Wrap("opening topology", err, "file", path)
	}
	defer f.Close()
	recs, err := Decode(f)
	if err != nil {
		return nil, serrors.Wrap("decoding topology", err, "file", path)
	}
	recs.Source = filepath.Base(path)
	return recs, nil
}

// Decode reads a topology document. Structural problems, such as a link
// without endpoints, are reported here; referential problems, such as a link
// to an undeclared AS, are left to the consumer.
func Decode(r io.Reader) (*Records, error) {
	var root element
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, serrors.Wrap("parsing XML", err)
	}
	recs := &Records{Props: Props{}}
	for i := range root.Children {
		elem := &root.Children[i]
		switch elem.XMLName.Local {
		case "property":
			name, v, err := property(elem)
			if err != nil {
				return nil, serrors.Wrap("reading topology property", err, "index", i)
			}
			recs.Props[name] = v
		case "node":
			as, err := decodeNode(elem)
			if err != nil {
				return nil, serrors.Wrap("reading node", err, "index", len(recs.ASes))
			}
			recs.ASes = append(recs.ASes, as)
		case "link":
			link, err := decodeLink(elem)
			if err != nil {
				return nil, serrors.Wrap("reading link", err, "index", len(recs.Links))
			}
			recs.Links = append(recs.Links, link)
		}
	}
	return recs, nil
}

func property(e *element) (string, Value, error) {
	name, ok := e.attr("name")
	if !ok || name == "" {
		return "", Value{}, serrors.JoinNoStack(ErrMissingProperty, nil, "attribute", "name")
	}
	v, err := e.value()
	if err != nil {
		return "", Value{}, serrors.Wrap("casting property", err, "name", name)
	}
	return PropName(name), v, nil
}

// properties collects the property children and, if plain is set, the other
// element children keyed by their tag.
func properties(e *element, plain bool) (Props, error) {
	props := Props{}
	for i := range e.Children {
		child := &e.Children[i]
		if child.XMLName.Local == "property" {
			name, v, err := property(child)
			if err != nil {
				return nil, err
			}
			props[name] = v
			continue
		}
		if !plain {
			continue
		}
		v, err := child.value()
		if err != nil {
			return nil, serrors.Wrap("casting element", err, "tag", child.XMLName.Local)
		}
		props[PropName(child.XMLName.Local)] = v
	}
	return props, nil
}

func decodeNode(e *element) (ASRecord, error) {
	raw, ok := e.attr(attrID)
	if !ok {
		return ASRecord{}, serrors.JoinNoStack(ErrMissingProperty, nil, "attribute", attrID)
	}
	typ, _ := e.attr(attrIDType)
	idVal, err := ParseValue(typ, strings.TrimSpace(raw))
	if err != nil {
		return ASRecord{}, err
	}
	id, err := asFromValue(idVal)
	if err != nil {
		return ASRecord{}, err
	}
	props, err := properties(e, false)
	if err != nil {
		return ASRecord{}, serrors.Wrap("reading properties", err, "as", id)
	}
	as := ASRecord{ID: id, Props: props}
	if v, ok := take(props, PropASName); ok {
		as.Name = v.Raw
	}
	loc, err := location(props, false)
	if err != nil {
		return ASRecord{}, serrors.Wrap("reading location", err, "as", id)
	}
	as.Location = loc
	return as, nil
}

func decodeLink(e *element) (LinkRecord, error) {
	props, err := properties(e, true)
	if err != nil {
		return LinkRecord{}, err
	}
	var link LinkRecord
	for _, end := range []struct {
		name string
		dst  *addr.AS
	}{{PropFrom, &link.From}, {PropTo, &link.To}} {
		v, ok := take(props, end.name)
		if !ok {
			return LinkRecord{}, serrors.JoinNoStack(ErrMissingProperty, nil, "property", end.name)
		}
		as, err := asFromValue(v)
		if err != nil {
			return LinkRecord{}, serrors.Wrap("reading endpoint", err, "property", end.name)
		}
		*end.dst = as
	}
	rel, ok := take(props, PropRel)
	if !ok {
		return LinkRecord{}, serrors.JoinNoStack(ErrMissingProperty, nil, "property", PropRel)
	}
	if link.Rel, err = ParseRel(rel.Raw); err != nil {
		return LinkRecord{}, serrors.Wrap("reading relationship", err,
			"from", link.From, "to", link.To)
	}
	loc, err := location(props, true)
	if err != nil {
		return LinkRecord{}, serrors.Wrap("reading location", err,
			"from", link.From, "to", link.To)
	}
	link.Location = *loc
	if v, ok := take(props, PropCapacity); ok {
		c, err := v.Int()
		if err != nil {
			return LinkRecord{}, serrors.Wrap("reading capacity", err,
				"from", link.From, "to", link.To)
		}
		link.Capacity = &c
	}
	link.Props = props
	return link, nil
}

// location removes latitude and longitude from props. A partial location is
// an error; an absent one is an error only if required.
func location(props Props, required bool) (*geo.Coord, error) {
	lat, hasLat := take(props, PropLatitude)
	lon, hasLon := take(props, PropLongitude)
	switch {
	case !hasLat && !hasLon && !required:
		return nil, nil
	case !hasLat:
		return nil, serrors.JoinNoStack(ErrMissingProperty, nil, "property", PropLatitude)
	case !hasLon:
		return nil, serrors.JoinNoStack(ErrMissingProperty, nil, "property", PropLongitude)
	}
	latF, err := lat.Float()
	if err != nil {
		return nil, serrors.Wrap("reading latitude", err)
	}
	lonF, err := lon.Float()
	if err != nil {
		return nil, serrors.Wrap("reading longitude", err)
	}
	if !finite(latF) || !finite(lonF) {
		return nil, serrors.JoinNoStack(ErrInvalidValue, nil,
			"latitude", lat.Raw, "longitude", lon.Raw, "reason", "not finite")
	}
	if latF < -90 || latF > 90 || lonF < -180 || lonF > 180 {
		return nil, serrors.JoinNoStack(ErrInvalidValue, nil,
			"latitude", latF, "longitude", lonF, "reason", "out of range")
	}
	return &geo.Coord{Lat: latF, Lon: lonF}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func asFromValue(v Value) (addr.AS, error) {
	if v.Kind == Float {
		return 0, serrors.JoinNoStack(ErrInvalidValue, nil, "value", v.Raw, "reason", "AS id")
	}
	as, err := addr.ParseAS(v.Raw)
	if err != nil {
		return 0, serrors.JoinNoStack(ErrInvalidValue, err, "value", v.Raw)
	}
	return as, nil
}

func take(props Props, name string) (Value, bool) {
	v, ok := props[name]
	if ok {
		delete(props, name)
	}
	return v, ok
}
