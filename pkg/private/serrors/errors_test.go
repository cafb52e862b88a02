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

package serrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/netsec-ethz/topogen/pkg/private/serrors"
)

type testErrType struct {
	msg string
}

func (e *testErrType) Error() string {
	return e.msg
}

func TestWrap(t *testing.T) {
	t.Run("Is", func(t *testing.T) {
		err := serrors.New("simple err")
		wrapped := serrors.Wrap("msg", err, "someCtx", "someValue")
		assert.ErrorIs(t, wrapped, err)
		assert.ErrorIs(t, wrapped, wrapped)
	})
	t.Run("As", func(t *testing.T) {
		err := &testErrType{msg: "test err"}
		wrapped := serrors.WrapNoStack("msg", err, "someCtx", "someValue")
		var errAs *testErrType
		require.True(t, errors.As(wrapped, &errAs))
		assert.Equal(t, err, errAs)
	})
}

func TestJoin(t *testing.T) {
	t.Run("Is", func(t *testing.T) {
		base := errors.New("sentinel")
		cause := serrors.New("cause")
		joined := serrors.Join(base, cause, "k", 1)
		assert.ErrorIs(t, joined, base)
		assert.ErrorIs(t, joined, cause)
	})
	t.Run("nil cause", func(t *testing.T) {
		base := errors.New("sentinel")
		joined := serrors.JoinNoStack(base, nil, "k", 1)
		assert.ErrorIs(t, joined, base)
		assert.EqualError(t, joined, "sentinel {k=1}")
	})
	t.Run("both nil", func(t *testing.T) {
		assert.NoError(t, serrors.Join(nil, nil))
	})
}

func TestErrorString(t *testing.T) {
	testCases := map[string]struct {
		err      error
		expected string
	}{
		"plain": {
			err:      serrors.New("plain"),
			expected: "plain",
		},
		"sorted context": {
			err:      serrors.New("ctx", "b", 2, "a", "x"),
			expected: "ctx {a=x; b=2}",
		},
		"wrapped": {
			err:      serrors.Wrap("outer", serrors.New("inner", "k", "v")),
			expected: "outer: inner {k=v}",
		},
		"joined": {
			err:      serrors.Join(errors.New("base"), errors.New("cause"), "as", 7),
			expected: "base {as=7}: cause",
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.EqualError(t, tc.err, tc.expected)
		})
	}
}

func TestList(t *testing.T) {
	var l serrors.List
	assert.NoError(t, l.ToError())
	sentinel := errors.New("one")
	l = append(l, sentinel, errors.New("two"))
	err := l.ToError()
	assert.EqualError(t, err, "[ one; two ]")
	assert.ErrorIs(t, err, sentinel)
}

func TestMarshalLogObject(t *testing.T) {
	err := serrors.Wrap("outer", errors.New("inner"), "key", "value")
	m, ok := err.(zapcore.ObjectMarshaler)
	require.True(t, ok)
	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, m.MarshalLogObject(enc))
	assert.Equal(t, "outer", enc.Fields["msg"])
	assert.Equal(t, "inner", enc.Fields["cause"])
	assert.Equal(t, "value", enc.Fields["key"])
}
