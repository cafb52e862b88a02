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

// Package flag contains the pflag values of the topogen command line.
package flag

import (
	"net/netip"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/netsec-ethz/topogen/pkg/private/serrors"
	"github.com/netsec-ethz/topogen/pkg/subnet"
)

type prefixVal netip.Prefix

func (v *prefixVal) Set(val string) error {
	p, err := netip.ParsePrefix(val)
	if err != nil {
		return err
	}
	*v = prefixVal(p)
	return nil
}

func (v *prefixVal) Type() string { return "prefix" }

func (v *prefixVal) String() string {
	p := netip.Prefix(*v)
	if !p.IsValid() {
		return ""
	}
	return p.String()
}

// PrefixVarP defines a network prefix flag. An unset flag has the empty string
// as its value.
func PrefixVarP(fs *pflag.FlagSet, p *netip.Prefix, name, shorthand, usage string) *pflag.Flag {
	return fs.VarPF((*prefixVal)(p), name, shorthand, usage)
}

// familiesVal has the stringSlice type, so that viper splits its value.
type familiesVal []subnet.Family

func (v *familiesVal) Set(val string) error {
	var fs []subnet.Family
	for _, s := range strings.Split(val, ",") {
		f, err := subnet.ParseFamily(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		if slices.Contains(fs, f) {
			return serrors.New("duplicate address family", "family", f)
		}
		fs = append(fs, f)
	}
	*v = fs
	return nil
}

func (v *familiesVal) Type() string { return "stringSlice" }

func (v *familiesVal) String() string {
	s := make([]string, 0, len(*v))
	for _, f := range *v {
		s = append(s, f.String())
	}
	return "[" + strings.Join(s, ",") + "]"
}

// FamiliesVar defines a comma separated address family list flag.
func FamiliesVar(fs *pflag.FlagSet, p *[]subnet.Family, name, usage string) *pflag.Flag {
	return fs.VarPF((*familiesVal)(p), name, "", usage)
}

type enumVal struct {
	value   *string
	allowed []string
}

func (v enumVal) Set(val string) error {
	if !slices.Contains(v.allowed, val) {
		return serrors.New("invalid value", "value", val,
			"allowed", strings.Join(v.allowed, "|"))
	}
	*v.value = val
	return nil
}

func (v enumVal) Type() string { return "string" }

func (v enumVal) String() string {
	if v.value == nil {
		return ""
	}
	return *v.value
}

// EnumVarP defines a string flag that only accepts the allowed values.
func EnumVarP(fs *pflag.FlagSet, p *string, name, shorthand, value string,
	allowed []string, usage string) *pflag.Flag {

	*p = value
	return fs.VarPF(enumVal{value: p, allowed: allowed}, name, shorthand,
		usage+" ("+strings.Join(allowed, "|")+")")
}
