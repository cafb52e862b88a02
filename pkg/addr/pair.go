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

package addr

import (
	"fmt"
	"strings"

	"github.com/netsec-ethz/topogen/pkg/private/serrors"
)

// Comparable is implemented by identifiers with a total order.
type Comparable[T any] interface {
	comparable
	Compare(T) int
}

// Pair is an unordered pair of identifiers. The zero value is not a valid
// pair; use MakePair, which stores the smaller element first so that both
// argument orders yield the same map key.
type Pair[T Comparable[T]] struct {
	A, B T
}

// MakePair returns the canonical pair of a and b.
func MakePair[T Comparable[T]](a, b T) Pair[T] {
	if b.Compare(a) < 0 {
		return Pair[T]{A: b, B: a}
	}
	return Pair[T]{A: a, B: b}
}

// Contains reports whether v is one of the elements.
func (p Pair[T]) Contains(v T) bool {
	return p.A == v || p.B == v
}

// Compare orders pairs lexicographically.
func (p Pair[T]) Compare(o Pair[T]) int {
	if c := p.A.Compare(o.A); c != 0 {
		return c
	}
	return p.B.Compare(o.B)
}

func (p Pair[T]) String() string {
	return fmt.Sprintf("%v-%v", p.A, p.B)
}

// RouterPair is the key of a subnet between two routers.
type RouterPair = Pair[Router]

// ParseRouterPair parses the string form of a router pair, "brA_x-brB_y".
func ParseRouterPair(s string) (RouterPair, error) {
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		return RouterPair{}, serrors.New("invalid router pair", "value", s)
	}
	ra, err := ParseRouter(a)
	if err != nil {
		return RouterPair{}, err
	}
	rb, err := ParseRouter(b)
	if err != nil {
		return RouterPair{}, err
	}
	return MakePair(ra, rb), nil
}
