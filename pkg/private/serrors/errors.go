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

// Package serrors provides errors with structured context. Errors created
// with serrors carry key value pairs that are rendered in the error string
// and exposed to zap as object fields. All returned errors support errors.Is
// and errors.As on their cause and, for joined errors, on the base error.
package serrors

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxPair struct {
	Key   string
	Value any
}

// context is shared by the error implementations of this package.
type context struct {
	pairs []ctxPair
	cause error
}

func mkContext(cause error, errCtx ...any) context {
	np := len(errCtx) / 2
	pairs := make([]ctxPair, np)
	for i := 0; i < np; i++ {
		pairs[i] = ctxPair{Key: fmt.Sprint(errCtx[2*i]), Value: errCtx[2*i+1]}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		return pairs[a].Key < pairs[b].Key
	})
	return context{pairs: pairs, cause: cause}
}

func (c context) suffix() string {
	var b strings.Builder
	if len(c.pairs) != 0 {
		b.WriteString(" {")
		for i, p := range c.pairs {
			if i != 0 {
				b.WriteString("; ")
			}
			fmt.Fprintf(&b, "%s=%v", p.Key, p.Value)
		}
		b.WriteString("}")
	}
	if c.cause != nil {
		fmt.Fprintf(&b, ": %s", c.cause)
	}
	return b.String()
}

func (c context) marshalLogObject(enc zapcore.ObjectEncoder) error {
	if c.cause != nil {
		if m, ok := c.cause.(zapcore.ObjectMarshaler); ok {
			if err := enc.AddObject("cause", m); err != nil {
				return err
			}
		} else {
			enc.AddString("cause", c.cause.Error())
		}
	}
	for _, p := range c.pairs {
		zap.Any(p.Key, p.Value).AddTo(enc)
	}
	return nil
}

// basicError is a message with optional cause and context.
type basicError struct {
	context
	msg string
}

func (e *basicError) Error() string {
	return e.msg + e.context.suffix()
}

func (e *basicError) Unwrap() error {
	return e.cause
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (e *basicError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("msg", e.msg)
	return e.context.marshalLogObject(enc)
}

// New creates a new error with the given message and context.
func New(msg string, errCtx ...any) error {
	return &basicError{context: mkContext(nil, errCtx...), msg: msg}
}

// Wrap returns an error that associates msg with the given cause and context.
// errors.Is(Wrap(msg, cause), cause) is true.
func Wrap(msg string, cause error, errCtx ...any) error {
	return &basicError{context: mkContext(cause, errCtx...), msg: msg}
}

// WrapNoStack is identical to Wrap. It exists for callers that annotate errors
// on hot paths and want to make that explicit.
func WrapNoStack(msg string, cause error, errCtx ...any) error {
	return Wrap(msg, cause, errCtx...)
}

// joinedError decorates a base error, typically a sentinel, with a cause and
// context.
type joinedError struct {
	context
	base error
}

func (e *joinedError) Error() string {
	return e.base.Error() + e.context.suffix()
}

func (e *joinedError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.base}
	}
	return []error{e.base, e.cause}
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (e *joinedError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("msg", e.base.Error())
	return e.context.marshalLogObject(enc)
}

// Join returns an error that associates err with the given cause, unless nil,
// and the given context. errors.Is holds for both err and cause. If both err
// and cause are nil, nil is returned.
func Join(err, cause error, errCtx ...any) error {
	if err == nil && cause == nil {
		return nil
	}
	if err == nil {
		return Wrap("error", cause, errCtx...)
	}
	return &joinedError{context: mkContext(cause, errCtx...), base: err}
}

// JoinNoStack is identical to Join.
func JoinNoStack(err, cause error, errCtx ...any) error {
	return Join(err, cause, errCtx...)
}

// List is a slice of errors.
type List []error

// Error implements the error interface.
func (e List) Error() string {
	s := make([]string, 0, len(e))
	for _, err := range e {
		s = append(s, err.Error())
	}
	return fmt.Sprintf("[ %s ]", strings.Join(s, "; "))
}

// Unwrap exposes the list members to errors.Is and errors.As.
func (e List) Unwrap() []error {
	return e
}

// ToError returns the object as error interface implementation.
func (e List) ToError() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// MarshalLogArray implements zapcore.ArrayMarshaler.
func (e List) MarshalLogArray(ae zapcore.ArrayEncoder) error {
	for _, err := range e {
		if m, ok := err.(zapcore.ObjectMarshaler); ok {
			if err := ae.AppendObject(m); err != nil {
				return err
			}
		} else {
			ae.AppendString(err.Error())
		}
	}
	return nil
}
