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
	"sort"
	"strconv"

	"github.com/iancoleman/strcase"

	"github.com/netsec-ethz/topogen/pkg/private/serrors"
)

// Kind is the declared type of a property value.
type Kind uint8

// The value kinds of the type attribute. Values without a type attribute are
// strings.
const (
	String Kind = iota
	Int
	Float
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return "string"
	}
}

// Value is a typed property value.
type Value struct {
	Kind  Kind
	Raw   string
	int   int64
	float float64
}

// ParseValue casts raw according to the type attribute. Unknown type names
// keep the raw string.
func ParseValue(typ, raw string) (Value, error) {
	switch typ {
	case "int":
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, serrors.JoinNoStack(ErrInvalidValue, err, "type", typ, "value", raw)
		}
		return Value{Kind: Int, Raw: raw, int: v, float: float64(v)}, nil
	case "float":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, serrors.JoinNoStack(ErrInvalidValue, err, "type", typ, "value", raw)
		}
		return Value{Kind: Float, Raw: raw, int: int64(v), float: v}, nil
	default:
		return StringValue(raw), nil
	}
}

// StringValue returns an untyped value.
func StringValue(raw string) Value {
	return Value{Kind: String, Raw: raw}
}

// IntValue returns an int value.
func IntValue(v int64) Value {
	return Value{Kind: Int, Raw: strconv.FormatInt(v, 10), int: v, float: float64(v)}
}

// FloatValue returns a float value.
func FloatValue(v float64) Value {
	return Value{Kind: Float, Raw: strconv.FormatFloat(v, 'g', -1, 64), int: int64(v), float: v}
}

func (v Value) String() string {
	return v.Raw
}

// Float returns the value as float. Strings are parsed.
func (v Value) Float() (float64, error) {
	if v.Kind != String {
		return v.float, nil
	}
	f, err := strconv.ParseFloat(v.Raw, 64)
	if err != nil {
		return 0, serrors.JoinNoStack(ErrInvalidValue, err, "value", v.Raw)
	}
	return f, nil
}

// Int returns the value as integer. Floats are truncated and strings are
// parsed.
func (v Value) Int() (int64, error) {
	if v.Kind != String {
		return v.int, nil
	}
	i, err := strconv.ParseInt(v.Raw, 10, 64)
	if err != nil {
		return 0, serrors.JoinNoStack(ErrInvalidValue, err, "value", v.Raw)
	}
	return i, nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.Raw), nil
}

// Props holds the properties that have no dedicated field. Keys are in
// snake case.
type Props map[string]Value

// Keys returns the sorted property names.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PropName canonicalizes a property name to snake case, so that "Latitude",
// "latitude" and "LATITUDE" address the same property.
func PropName(name string) string {
	return strcase.ToSnake(name)
}
