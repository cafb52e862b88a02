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

package caida_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/topogen/pkg/addr"
	"github.com/netsec-ethz/topogen/pkg/caida"
	"github.com/netsec-ethz/topogen/pkg/geo"
)

func int64p(v int64) *int64 {
	return &v
}

func TestLoadFile(t *testing.T) {
	recs, err := caida.LoadFile("testdata/topology.xml")
	require.NoError(t, err)

	assert.Equal(t, "topology.xml", recs.Source)
	assert.Equal(t, caida.Props{
		"source":   caida.StringValue("caida-as-rel"),
		"snapshot": caida.IntValue(20240101),
	}, recs.Props)

	expectedASes := []caida.ASRecord{
		{
			ID:       1,
			Name:     "Zurich Transit",
			Location: &geo.Coord{Lat: 47.3769, Lon: 8.5417},
			Props:    caida.Props{"customer_cone": caida.IntValue(12)},
		},
		{ID: 2, Name: "Geneva Access", Props: caida.Props{}},
		{ID: 3, Props: caida.Props{}},
	}
	assert.Equal(t, expectedASes, recs.ASes)

	expectedLinks := []caida.LinkRecord{
		{
			From:     1,
			To:       2,
			Rel:      caida.Customer,
			Location: geo.Coord{Lat: 47.3769, Lon: 8.5417},
			Capacity: int64p(100),
			Props:    caida.Props{},
		},
		{
			From:     2,
			To:       3,
			Rel:      caida.Peer,
			Location: geo.Coord{Lat: 46.2044, Lon: 6.1432},
			Props:    caida.Props{"link_type": caida.StringValue("fiber")},
		},
	}
	assert.Equal(t, expectedLinks, recs.Links)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := caida.LoadFile("testdata/missing.xml")
	assert.Error(t, err)
}

func link(body string) string {
	return "<topology><link>" + body + "</link></topology>"
}

const validLoc = `<property name="latitude" type="float">1</property>` +
	`<property name="longitude" type="float">2</property>`

func TestDecodeErrors(t *testing.T) {
	testCases := map[string]struct {
		input string
		isErr error
	}{
		"unknown rel": {
			input: link(`<from>1</from><to>2</to><rel>friend</rel>` + validLoc),
			isErr: caida.ErrUnknownRel,
		},
		"missing from": {
			input: link(`<to>2</to><rel>peer</rel>` + validLoc),
			isErr: caida.ErrMissingProperty,
		},
		"missing rel": {
			input: link(`<from>1</from><to>2</to>` + validLoc),
			isErr: caida.ErrMissingProperty,
		},
		"missing longitude": {
			input: link(`<from>1</from><to>2</to><rel>peer</rel>` +
				`<property name="latitude" type="float">1</property>`),
			isErr: caida.ErrMissingProperty,
		},
		"missing location": {
			input: link(`<from>1</from><to>2</to><rel>peer</rel>`),
			isErr: caida.ErrMissingProperty,
		},
		"bad float": {
			input: link(`<from>1</from><to>2</to><rel>peer</rel>` +
				`<property name="latitude" type="float">north</property>` +
				`<property name="longitude" type="float">2</property>`),
			isErr: caida.ErrInvalidValue,
		},
		"latitude out of range": {
			input: link(`<from>1</from><to>2</to><rel>peer</rel>` +
				`<property name="latitude" type="float">91</property>` +
				`<property name="longitude" type="float">2</property>`),
			isErr: caida.ErrInvalidValue,
		},
		"latitude not a number": {
			input: link(`<from>1</from><to>2</to><rel>peer</rel>` +
				`<property name="latitude" type="float">NaN</property>` +
				`<property name="longitude" type="float">2</property>`),
			isErr: caida.ErrInvalidValue,
		},
		"untyped longitude not a number": {
			input: link(`<from>1</from><to>2</to><rel>peer</rel>` +
				`<property name="latitude">1</property>` +
				`<property name="longitude">nan</property>`),
			isErr: caida.ErrInvalidValue,
		},
		"infinite longitude": {
			input: link(`<from>1</from><to>2</to><rel>peer</rel>` +
				`<property name="latitude" type="float">1</property>` +
				`<property name="longitude" type="float">-Inf</property>`),
			isErr: caida.ErrInvalidValue,
		},
		"node latitude not a number": {
			input: `<topology><node id="1">` +
				`<property name="latitude" type="float">NaN</property>` +
				`<property name="longitude" type="float">2</property>` +
				`</node></topology>`,
			isErr: caida.ErrInvalidValue,
		},
		"bad capacity": {
			input: link(`<from>1</from><to>2</to><rel>peer</rel>` + validLoc +
				`<property name="capacity">lots</property>`),
			isErr: caida.ErrInvalidValue,
		},
		"non numeric as": {
			input: link(`<from>AS1</from><to>2</to><rel>peer</rel>` + validLoc),
			isErr: caida.ErrInvalidValue,
		},
		"node without id": {
			input: `<topology><node></node></topology>`,
			isErr: caida.ErrMissingProperty,
		},
		"node with bad id": {
			input: `<topology><node id="x" id.type="int"></node></topology>`,
			isErr: caida.ErrInvalidValue,
		},
		"property without name": {
			input: `<topology><property>1</property></topology>`,
			isErr: caida.ErrMissingProperty,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := caida.Decode(strings.NewReader(tc.input))
			assert.ErrorIs(t, err, tc.isErr)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := caida.Decode(strings.NewReader("<topology><node>"))
	assert.Error(t, err)
}

func TestDecodeCapacityFloat(t *testing.T) {
	recs, err := caida.Decode(strings.NewReader(link(
		`<from>1</from><to>2</to><rel>SIBLING</rel>` + validLoc +
			`<property name="capacity" type="float">10.7</property>`)))
	require.NoError(t, err)
	require.Len(t, recs.Links, 1)
	assert.Equal(t, caida.Sibling, recs.Links[0].Rel)
	assert.Equal(t, int64p(10), recs.Links[0].Capacity)
	assert.Equal(t, addr.AS(1), recs.Links[0].From)
}

func TestRel(t *testing.T) {
	testCases := map[string]struct {
		input    string
		expected caida.Rel
		reverse  caida.Rel
	}{
		"customer": {input: "customer", expected: caida.Customer, reverse: caida.Provider},
		"provider": {input: "Provider", expected: caida.Provider, reverse: caida.Customer},
		"peer":     {input: "PEER", expected: caida.Peer, reverse: caida.Peer},
		"sibling":  {input: " sibling ", expected: caida.Sibling, reverse: caida.Sibling},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			r, err := caida.ParseRel(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, r)
			assert.Equal(t, tc.reverse, r.Reverse())
			var u caida.Rel
			require.NoError(t, u.UnmarshalText([]byte(r.String())))
			assert.Equal(t, r, u)
		})
	}
	_, err := caida.ParseRel("transit")
	assert.ErrorIs(t, err, caida.ErrUnknownRel)
}

func TestValue(t *testing.T) {
	v, err := caida.ParseValue("int", "42")
	require.NoError(t, err)
	i, err := v.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(42), i)
	f, err := v.Float()
	require.NoError(t, err)
	assert.Equal(t, 42.0, f)

	s, err := caida.ParseValue("", "3.5")
	require.NoError(t, err)
	assert.Equal(t, caida.String, s.Kind)
	f, err = s.Float()
	require.NoError(t, err)
	assert.Equal(t, 3.5, f)
	_, err = s.Int()
	assert.ErrorIs(t, err, caida.ErrInvalidValue)

	_, err = caida.ParseValue("int", "4.2")
	assert.ErrorIs(t, err, caida.ErrInvalidValue)

	assert.Equal(t, []string{"a", "b"}, caida.Props{"b": s, "a": v}.Keys())
	assert.Equal(t, "link_type", caida.PropName("linkType"))
	assert.Equal(t, "latitude", caida.PropName("Latitude"))
}
