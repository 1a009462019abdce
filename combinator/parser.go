// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package combinator

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"gopkg.microglot.org/combinator.go/internal/exc"
)

// Parser applies a grammar rule to source starting at position. position is
// a byte offset and must lie within [0, len(source)]. A Parser must not
// retain state between calls; Lazy is the only exception.
type Parser[T any] func(source string, position int) Reply[T]

// LabelEndOfInput is the expectation reported by EndOfInput.
const LabelEndOfInput = "end of input"

// LabelZeroAlternates is the expectation reported by a Choice built without
// any alternatives.
const LabelZeroAlternates = "zero alternates"

// String matches literal exactly.
func String(literal string) Parser[string] {
	return func(source string, position int) Reply[string] {
		if strings.HasPrefix(source[position:], literal) {
			return Success(position+len(literal), Single(literal))
		}
		return Failure[string](position, literal)
	}
}

type regexConfig struct {
	caseInsensitive bool
	group           int
}

type RegexOption func(*regexConfig)

// CaseInsensitive makes the pattern ignore letter case.
func CaseInsensitive() RegexOption {
	return func(c *regexConfig) {
		c.caseInsensitive = true
	}
}

// Group selects the capture group whose text becomes the produced value. The
// default, 0, is the whole match.
func Group(n int) RegexOption {
	return func(c *regexConfig) {
		c.group = n
	}
}

// CompileRegex builds a parser that matches pattern at the current position
// only. On a match the parser advances past the whole match and produces the
// text of the selected group, or "" when that group did not participate. On
// a mismatch it fails with the pattern itself as the expectation.
//
// An invalid pattern or a group index the pattern does not have is rejected
// here rather than when parsing.
func CompileRegex(pattern string, options ...RegexOption) (Parser[string], error) {
	cfg := regexConfig{}
	for _, option := range options {
		option(&cfg)
	}
	flags := ""
	if cfg.caseInsensitive {
		flags = "(?i)"
	}
	re, err := regexp.Compile(flags + `^(?:` + pattern + `)`)
	if err != nil {
		return nil, exc.Wrap(exc.Location{}, exc.CodeInvalidPattern, err)
	}
	if cfg.group < 0 || cfg.group > re.NumSubexp() {
		return nil, exc.New(exc.Location{}, exc.CodeInvalidCaptureGroup, fmt.Sprintf("pattern %q has no capture group %d", pattern, cfg.group))
	}
	group := cfg.group
	return func(source string, position int) Reply[string] {
		match := re.FindStringSubmatchIndex(source[position:])
		if match == nil {
			return Failure[string](position, pattern)
		}
		text := ""
		if start := match[2*group]; start >= 0 {
			text = source[position+start : position+match[2*group+1]]
		}
		return Success(position+match[1], Single(text))
	}, nil
}

// Regex is like CompileRegex but panics if the pattern or group is invalid.
func Regex(pattern string, options ...RegexOption) Parser[string] {
	p, err := CompileRegex(pattern, options...)
	if err != nil {
		panic(err)
	}
	return p
}

// EndOfInput succeeds with an Empty value only when no input is left.
func EndOfInput[T any]() Parser[T] {
	return func(source string, position int) Reply[T] {
		if position < len(source) {
			return Failure[T](position, LabelEndOfInput)
		}
		return Success(position, Empty[T]())
	}
}

// Remainder consumes and produces everything left in the source.
func Remainder() Parser[string] {
	return func(source string, position int) Reply[string] {
		return Success(len(source), Single(source[position:]))
	}
}

// All is an alias of Remainder.
func All() Parser[string] {
	return Remainder()
}

// Succeed produces value without consuming input.
func Succeed[T any](value Value[T]) Parser[T] {
	return func(source string, position int) Reply[T] {
		return Success(position, value)
	}
}

// Fail always fails at the current position with the given expectations.
func Fail[T any](expected ...string) Parser[T] {
	expected = slices.Clone(expected)
	return func(source string, position int) Reply[T] {
		return Failure[T](position, expected...)
	}
}
