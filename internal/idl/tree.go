// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

import (
	"math"

	"github.com/shopspring/decimal"
)

type NodeKind uint8

const (
	NodeKindNull NodeKind = iota
	NodeKindBool
	NodeKindNumber
	NodeKindString
	NodeKindList
	NodeKindObject
)

// Node is a closed semantic tree produced by a grammar. The variants are
// Null, Bool, Number, String, List and Object.
type Node interface {
	Kind() NodeKind
	// Interface converts the tree into the plain Go values produced by
	// encoding/json: nil, bool, float64, string, []any and map[string]any.
	Interface() any
	node()
}

type Null struct{}

func (Null) Kind() NodeKind { return NodeKindNull }
func (Null) Interface() any { return nil }
func (Null) node()          {}

type Bool bool

func (Bool) Kind() NodeKind   { return NodeKindBool }
func (b Bool) Interface() any { return bool(b) }
func (Bool) node()            {}

// MaxExponent bounds the decimal exponent of a Number. Expanding a value
// beyond it costs time and memory in proportion to the exponent.
const MaxExponent = 10000

// Number keeps the exact decimal value written in the source.
type Number struct {
	Value decimal.Decimal
}

// InRange reports whether the exponent of n is within MaxExponent.
func (n Number) InRange() bool {
	e := n.Value.Exponent()
	return e >= -MaxExponent && e <= MaxExponent
}

func (Number) Kind() NodeKind { return NodeKindNumber }

// Interface approximates n as a float64. Numbers out of range become zero or
// an infinity without being expanded.
func (n Number) Interface() any {
	if !n.InRange() {
		if n.Value.Sign() == 0 || n.Value.Exponent() < 0 {
			return float64(0)
		}
		return math.Inf(n.Value.Sign())
	}
	f, _ := n.Value.Float64()
	return f
}
func (Number) node() {}

type String string

func (String) Kind() NodeKind   { return NodeKindString }
func (s String) Interface() any { return string(s) }
func (String) node()            {}

type List []Node

func (List) Kind() NodeKind { return NodeKindList }
func (l List) Interface() any {
	out := make([]any, 0, len(l))
	for _, n := range l {
		out = append(out, n.Interface())
	}
	return out
}
func (List) node() {}

type Member struct {
	Key   string
	Value Node
}

// Object keeps members in source order. Duplicate keys are retained; Get and
// Interface resolve them to the last occurrence.
type Object []Member

func (Object) Kind() NodeKind { return NodeKindObject }
func (o Object) Interface() any {
	out := make(map[string]any, len(o))
	for _, m := range o {
		out[m.Key] = m.Value.Interface()
	}
	return out
}
func (Object) node() {}

func (o Object) Get(key string) (Node, bool) {
	for x := len(o) - 1; x >= 0; x = x - 1 {
		if o[x].Key == key {
			return o[x].Value, true
		}
	}
	return nil, false
}
