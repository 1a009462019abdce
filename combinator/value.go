// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package combinator

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.microglot.org/combinator.go/internal/exc"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindSingle
	KindMultiple
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindSingle:
		return "Single"
	case KindMultiple:
		return "Multiple"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is what a successful parser produces. It is exactly one of:
//
//   - Empty: no payload, as produced by EndOfInput.
//   - Single: one payload of type T.
//   - Multiple: an ordered list of Values, as produced by Sequence, Many and
//     SepBy. Items keep their own variant so nested sequences keep their
//     shape.
//
// The engine never looks inside T. The zero Value is Empty. Values are
// immutable once built.
type Value[T any] struct {
	kind    Kind
	payload T
	items   []Value[T]
}

func Empty[T any]() Value[T] {
	return Value[T]{kind: KindEmpty}
}

func Single[T any](payload T) Value[T] {
	return Value[T]{kind: KindSingle, payload: payload}
}

// Multiple copies items into a new Multiple value.
func Multiple[T any](items ...Value[T]) Value[T] {
	if len(items) == 0 {
		return Value[T]{kind: KindMultiple}
	}
	return Value[T]{kind: KindMultiple, items: slices.Clone(items)}
}

func (v Value[T]) Kind() Kind {
	return v.kind
}

func (v Value[T]) IsEmpty() bool {
	return v.kind == KindEmpty
}

func (v Value[T]) IsSingle() bool {
	return v.kind == KindSingle
}

func (v Value[T]) IsMultiple() bool {
	return v.kind == KindMultiple
}

// Payload returns the content of a Single value. It panics for any other
// variant.
func (v Value[T]) Payload() T {
	if v.kind != KindSingle {
		panic(wrongVariant("Payload", KindSingle, v.kind))
	}
	return v.payload
}

// Items returns the content of a Multiple value. It panics for any other
// variant. The returned slice must not be modified.
func (v Value[T]) Items() []Value[T] {
	if v.kind != KindMultiple {
		panic(wrongVariant("Items", KindMultiple, v.kind))
	}
	return v.items
}

// Wrapped views any variant as a list: nothing for Empty, the value itself
// for Single and the items for Multiple.
func (v Value[T]) Wrapped() []Value[T] {
	switch v.kind {
	case KindSingle:
		return []Value[T]{v}
	case KindMultiple:
		return v.items
	default:
		return nil
	}
}

// Flatten collects every Single payload in the tree, depth first and left to
// right.
func (v Value[T]) Flatten() []T {
	out := []T{}
	var walk func(Value[T])
	walk = func(n Value[T]) {
		switch n.kind {
		case KindSingle:
			out = append(out, n.payload)
		case KindMultiple:
			for _, item := range n.items {
				walk(item)
			}
		}
	}
	walk(v)
	return out
}

func (v Value[T]) String() string {
	switch v.kind {
	case KindSingle:
		return fmt.Sprint(v.payload)
	case KindMultiple:
		parts := make([]string, 0, len(v.items))
		for _, item := range v.items {
			parts = append(parts, item.String())
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return "<empty>"
	}
}

func wrongVariant(method string, want Kind, got Kind) exc.Exception {
	return exc.New(exc.Location{}, exc.CodeWrongVariant, fmt.Sprintf("%s called on %s value (requires %s)", method, got, want))
}
