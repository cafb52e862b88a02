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

// Package geo computes great-circle distances and the propagation latency
// derived from them.
package geo

import (
	"fmt"
	"math"
	"time"
)

const (
	// EarthRadius is the mean earth radius in kilometres.
	EarthRadius = 6371.0
	// MsPerKm is the propagation latency per kilometre of distance.
	MsPerKm = 0.005
)

// Coord is a point on the earth in degrees.
type Coord struct {
	Lat float64 `json:"latitude" yaml:"latitude"`
	Lon float64 `json:"longitude" yaml:"longitude"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%g, %g)", c.Lat, c.Lon)
}

// Distance returns the haversine distance between a and b in kilometres.
// Rounding noise that would push the asin argument out of [-1, 1] is clamped,
// so antipodal points yield a finite result.
func Distance(a, b Coord) float64 {
	lat1, lon1 := radians(a.Lat), radians(a.Lon)
	lat2, lon2 := radians(b.Lat), radians(b.Lon)
	dlat := lat2 - lat1
	dlon := lon2 - lon1
	h := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	s := math.Sqrt(h)
	s = math.Max(-1, math.Min(1, s))
	return 2 * EarthRadius * math.Asin(s)
}

// Latency returns the propagation latency between a and b in milliseconds.
func Latency(a, b Coord) float64 {
	return Distance(a, b) * MsPerKm
}

// LatencyDuration is Latency as a time.Duration.
func LatencyDuration(a, b Coord) time.Duration {
	return time.Duration(Latency(a, b) * float64(time.Millisecond))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
