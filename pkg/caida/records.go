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

// Package caida reads the CAIDA AS-relationship topology in its XML form.
//
// The document root contains property, node and link elements in any order:
//
//	<topology>
//	  <property name="source" type="string">caida</property>
//	  <node id="1" id.type="int">
//	    <property name="name">AS one</property>
//	  </node>
//	  <link>
//	    <from type="int">1</from>
//	    <to type="int">2</to>
//	    <rel>customer</rel>
//	    <property name="latitude" type="float">47.37</property>
//	    <property name="longitude" type="float">8.54</property>
//	    <property name="capacity" type="int">100</property>
//	  </link>
//	</topology>
//
// The type attributes are optional. Links carry their endpoints either as
// child elements or as properties.
package caida

import (
	"errors"

	"github.com/netsec-ethz/topogen/pkg/addr"
	"github.com/netsec-ethz/topogen/pkg/geo"
)

var (
	// ErrMissingProperty is returned when a required attribute is absent.
	ErrMissingProperty = errors.New("missing property")
	// ErrInvalidValue is returned when a value cannot be cast to its
	// declared or required type.
	ErrInvalidValue = errors.New("invalid value")
)

// Property names with dedicated fields.
const (
	PropASName    = "name"
	PropLatitude  = "latitude"
	PropLongitude = "longitude"
	PropCapacity  = "capacity"
	PropFrom      = "from"
	PropTo        = "to"
	PropRel       = "rel"
	attrID        = "id"
	attrIDType    = "id.type"
)

// Records is the content of a topology document.
type Records struct {
	// Source names the document, typically the base name of the file.
	Source string
	// Props are the topology-wide properties.
	Props Props
	// ASes in document order.
	ASes []ASRecord
	// Links in document order.
	Links []LinkRecord
}

// ASRecord is one node of the topology.
type ASRecord struct {
	ID       addr.AS
	Name     string
	Location *geo.Coord
	Props    Props
}

// LinkRecord is one AS-level link. The link location is where the border
// routers of both ends are placed.
type LinkRecord struct {
	From     addr.AS
	To       addr.AS
	Rel      Rel
	Location geo.Coord
	Capacity *int64
	Props    Props
}
