// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package jsonsubset reads a subset of JSON: objects, arrays, strings,
// numbers, booleans and null, separated by optional whitespace.
package jsonsubset

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	pc "gopkg.microglot.org/combinator.go/combinator"
	"gopkg.microglot.org/combinator.go/internal/idl"
	"gopkg.microglot.org/combinator.go/optional"
)

const (
	patternWhitespace = `\s*`
	patternString     = `"((?:\\["\\/bfnrt]|\\u[0-9a-fA-F]{4}|[^"\\\x00-\x1f])*)"`
	patternNumber     = `-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?`
)

type Option func(*Grammar)

// WithRuleWrapper installs a function that every named rule passes through
// when the grammar is built, such as trace.Rules.
func WithRuleWrapper(wrap func(name string, parser pc.Parser[idl.Node]) pc.Parser[idl.Node]) Option {
	return func(g *Grammar) {
		g.wrap = wrap
	}
}

// Grammar holds the rules of the language. Value is the entry point; the
// other rules are exposed for reuse and testing.
type Grammar struct {
	Value  pc.Parser[idl.Node]
	Object pc.Parser[idl.Node]
	Array  pc.Parser[idl.Node]
	String pc.Parser[idl.Node]
	Number pc.Parser[idl.Node]
	True   pc.Parser[idl.Node]
	False  pc.Parser[idl.Node]
	Null   pc.Parser[idl.Node]

	wrap func(name string, parser pc.Parser[idl.Node]) pc.Parser[idl.Node]
}

func New(options ...Option) *Grammar {
	g := &Grammar{
		wrap: func(name string, parser pc.Parser[idl.Node]) pc.Parser[idl.Node] {
			return parser
		},
	}
	for _, option := range options {
		option(g)
	}

	whitespace := pc.Regex(patternWhitespace)
	word := func(literal string) pc.Parser[string] {
		return pc.Skip(pc.String(literal), whitespace)
	}
	leftBrace := word("{")
	rightBrace := word("}")
	leftBracket := word("[")
	rightBracket := word("]")
	comma := word(",")
	colon := word(":")

	// Value refers to Object and Array, which refer back to Value.
	g.Value = g.wrap("value", pc.Lazy(func() pc.Parser[idl.Node] {
		return pc.Then(whitespace, pc.Choice(
			g.Object,
			g.Array,
			g.String,
			g.Number,
			g.True,
			g.False,
			g.Null,
		))
	}))

	g.True = g.wrap("true", pc.Result(word("true"), idl.Node(idl.Bool(true))))
	g.False = g.wrap("false", pc.Result(word("false"), idl.Node(idl.Bool(false))))
	g.Null = g.wrap("null", pc.Result(word("null"), idl.Node(idl.Null{})))

	g.String = g.wrap("string", pc.Desc(pc.Chain(
		pc.Skip(pc.Regex(patternString, pc.Group(1)), whitespace),
		func(v pc.Value[string]) pc.Parser[idl.Node] {
			s, err := unescape(v.Payload())
			if err != nil {
				return pc.Fail[idl.Node]("string")
			}
			return pc.Succeed(pc.Single[idl.Node](idl.String(s)))
		},
	), "string"))

	g.Number = g.wrap("number", pc.Desc(number(
		pc.Skip(pc.Regex(patternNumber), whitespace),
	), "number"))

	g.Array = g.wrap("array", pc.Map(
		pc.Skip(pc.Then(leftBracket, pc.SepBy(g.Value, comma)), rightBracket),
		func(v pc.Value[idl.Node]) pc.Value[idl.Node] {
			items := v.Wrapped()
			list := make(idl.List, 0, len(items))
			for _, item := range items {
				list = append(list, item.Payload())
			}
			return pc.Single[idl.Node](list)
		},
	))

	pair := pc.Sequence(pc.Skip(g.String, colon), g.Value)
	g.Object = g.wrap("object", pc.Map(
		pc.Skip(pc.Then(leftBrace, pc.SepBy(pair, comma)), rightBrace),
		func(v pc.Value[idl.Node]) pc.Value[idl.Node] {
			pairs := v.Wrapped()
			object := make(idl.Object, 0, len(pairs))
			for _, p := range pairs {
				kv := p.Items()
				object = append(object, idl.Member{
					Key:   string(kv[0].Payload().(idl.String)),
					Value: kv[1].Payload(),
				})
			}
			return pc.Single[idl.Node](object)
		},
	))

	return g
}

// Parse reads one complete document.
func (g *Grammar) Parse(source string) pc.Reply[idl.Node] {
	return g.Value.Parse(source)
}

// number converts the text matched by text into a Number. Text that does not
// convert, or whose exponent exceeds idl.MaxExponent, is rejected at its first
// character.
func number(text pc.Parser[string]) pc.Parser[idl.Node] {
	return func(source string, position int) pc.Reply[idl.Node] {
		reply := text(source, position)
		if !reply.OK() {
			return pc.Failure[idl.Node](reply.Position(), reply.Expected()...)
		}
		d, err := decimal.NewFromString(reply.Value().Payload())
		n := idl.Number{Value: d}
		if err != nil || !n.InRange() {
			return pc.Failure[idl.Node](position, "number")
		}
		return pc.Merge(pc.Success(reply.Position(), pc.Single[idl.Node](n)), optional.Some(reply))
	}
}

// unescape decodes the body of a string literal matched by patternString.
func unescape(body string) (string, error) {
	var out string
	if err := json.Unmarshal([]byte(`"`+body+`"`), &out); err != nil {
		return "", err
	}
	return out, nil
}
