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

// Package util contains small helpers shared across topogen packages.
package util

import (
	"regexp"
	"strconv"
	"time"

	"github.com/netsec-ethz/topogen/pkg/private/serrors"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

var durationUnits = []struct {
	suffix string
	unit   time.Duration
}{
	{"w", week},
	{"d", day},
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
	{"ms", time.Millisecond},
	{"us", time.Microsecond},
	{"ns", time.Nanosecond},
}

var durationRegexp = regexp.MustCompile(`^([0-9]+)(w|d|h|m|s|ms|us|µs|ns)$`)

// ParseDuration parses a duration of the form <integer><unit>, where unit is
// one of w, d, h, m, s, ms, us (or µs) and ns. Inputs accepted by
// time.ParseDuration, such as "1.5ms", are accepted as well.
func ParseDuration(s string) (time.Duration, error) {
	m := durationRegexp.FindStringSubmatch(s)
	if m == nil {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, serrors.Wrap("invalid duration", err, "input", s)
		}
		return d, nil
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, serrors.Wrap("invalid duration", err, "input", s)
	}
	suffix := m[2]
	if suffix == "µs" {
		suffix = "us"
	}
	for _, u := range durationUnits {
		if u.suffix == suffix {
			return time.Duration(n) * u.unit, nil
		}
	}
	return 0, serrors.New("invalid duration unit", "input", s)
}

// FmtDuration formats d with the largest unit that represents it exactly.
func FmtDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	for _, u := range durationUnits {
		if d%u.unit == 0 {
			return strconv.FormatInt(int64(d/u.unit), 10) + u.suffix
		}
	}
	return d.String()
}
