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

package geo_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/netsec-ethz/topogen/pkg/geo"
)

var (
	zurich  = geo.Coord{Lat: 47.3769, Lon: 8.5417}
	geneva  = geo.Coord{Lat: 46.2044, Lon: 6.1432}
	newYork = geo.Coord{Lat: 40.7128, Lon: -74.0060}
)

func TestDistance(t *testing.T) {
	testCases := map[string]struct {
		a, b     geo.Coord
		expected float64
		delta    float64
	}{
		"identical": {
			a: zurich, b: zurich, expected: 0, delta: 1e-9,
		},
		"zurich geneva": {
			a: zurich, b: geneva, expected: 224, delta: 2,
		},
		"zurich new york": {
			a: zurich, b: newYork, expected: 6320, delta: 15,
		},
		"quarter equator": {
			a: geo.Coord{}, b: geo.Coord{Lon: 90},
			expected: math.Pi / 2 * geo.EarthRadius, delta: 1e-6,
		},
		"antipodal": {
			a: geo.Coord{Lat: 0, Lon: 0}, b: geo.Coord{Lat: 0, Lon: 180},
			expected: math.Pi * geo.EarthRadius, delta: 1e-6,
		},
		"poles": {
			a: geo.Coord{Lat: 90}, b: geo.Coord{Lat: -90},
			expected: math.Pi * geo.EarthRadius, delta: 1e-6,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			d := geo.Distance(tc.a, tc.b)
			assert.False(t, math.IsNaN(d))
			assert.InDelta(t, tc.expected, d, tc.delta)
			assert.InDelta(t, d, geo.Distance(tc.b, tc.a), 1e-9, "symmetry")
		})
	}
}

func TestLatency(t *testing.T) {
	assert.Zero(t, geo.Latency(zurich, zurich))
	d := geo.Distance(zurich, newYork)
	assert.InDelta(t, d*0.005, geo.Latency(zurich, newYork), 1e-12)
	// 40 km are 0.2 ms.
	a := geo.Coord{}
	b := geo.Coord{Lon: 40 / (math.Pi / 180 * geo.EarthRadius)}
	assert.InDelta(t, 0.2, geo.Latency(a, b), 1e-9)
	assert.InDelta(t, float64(200*time.Microsecond), float64(geo.LatencyDuration(a, b)), 1e3)
}
