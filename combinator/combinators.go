// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package combinator

import (
	"slices"
	"sync"

	"gopkg.microglot.org/combinator.go/internal/exc"
	"gopkg.microglot.org/combinator.go/optional"
)

// Sequence applies each parser where the previous one stopped and produces a
// Multiple of their values. It stops at the first failure.
func Sequence[T any](parsers ...Parser[T]) Parser[T] {
	parsers = slices.Clone(parsers)
	return func(source string, position int) Reply[T] {
		var last optional.Optional[Reply[T]]
		pos := position
		items := make([]Value[T], 0, len(parsers))
		for _, parser := range parsers {
			reply := Merge(parser(source, pos), last)
			if !reply.ok {
				return reply
			}
			last = optional.Some(reply)
			pos = reply.position
			items = append(items, reply.value)
		}
		return Merge(Success(pos, Multiple(items...)), last)
	}
}

// Seq is shorthand for Sequence.
func Seq[T any](parsers ...Parser[T]) Parser[T] {
	return Sequence(parsers...)
}

// Choice tries each parser at the same position and returns the first
// success. If all of them fail, the failure that reached farthest is
// returned, with the labels of equally deep failures pooled.
func Choice[T any](parsers ...Parser[T]) Parser[T] {
	if len(parsers) == 0 {
		return Fail[T](LabelZeroAlternates)
	}
	parsers = slices.Clone(parsers)
	return func(source string, position int) Reply[T] {
		var last optional.Optional[Reply[T]]
		for _, parser := range parsers {
			reply := Merge(parser(source, position), last)
			if reply.ok {
				return reply
			}
			last = optional.Some(reply)
		}
		return Merge(Failure[T](position), last)
	}
}

// Alt is shorthand for Choice.
func Alt[T any](parsers ...Parser[T]) Parser[T] {
	return Choice(parsers...)
}

// Many applies parser greedily until it fails and produces a Multiple of
// everything collected. Many itself never fails; the final failed attempt is
// kept in the trail of the reply.
//
// A parser that succeeds without consuming input would repeat forever, so
// Many panics when that happens.
func Many[T any](parser Parser[T]) Parser[T] {
	return func(source string, position int) Reply[T] {
		var items []Value[T]
		pos := position
		reply := parser(source, pos)
		for reply.ok {
			if reply.position == pos {
				panic(exc.New(exc.LocationIn("", source, pos), exc.CodeNonConsumingRepetition, "repeated parser succeeded without consuming input"))
			}
			items = append(items, reply.value)
			pos = reply.position
			reply = Merge(parser(source, pos), optional.Some(reply))
		}
		return Merge(Success(pos, Multiple(items...)), optional.Some(reply))
	}
}

// Many1 is Many but requires at least one match.
func Many1[T any](parser Parser[T]) Parser[T] {
	rest := Many(parser)
	return Chain(parser, func(first Value[T]) Parser[T] {
		return Map(rest, func(more Value[T]) Value[T] {
			return Multiple(append([]Value[T]{first}, more.Items()...)...)
		})
	})
}

// Chain runs parser and, on success, asks f for the parser to run next. The
// next parser starts where the first one stopped.
func Chain[T any, U any](parser Parser[T], f func(Value[T]) Parser[U]) Parser[U] {
	return func(source string, position int) Reply[U] {
		reply := parser(source, position)
		if !reply.ok {
			return retype[U](reply)
		}
		next := f(reply.value)
		return Merge(next(source, reply.position), optional.Some(reply))
	}
}

// Map replaces the value of a successful reply with f(value).
func Map[T any, U any](parser Parser[T], f func(Value[T]) Value[U]) Parser[U] {
	return func(source string, position int) Reply[U] {
		reply := parser(source, position)
		if !reply.ok {
			return retype[U](reply)
		}
		return Merge(Success(reply.position, f(reply.value)), optional.Some(reply))
	}
}

// Result replaces the value of a successful reply with a constant.
func Result[T any, U any](parser Parser[T], constant U) Parser[U] {
	return Map(parser, func(Value[T]) Value[U] {
		return Single(constant)
	})
}

// Then runs parser followed by next and keeps the value of next.
func Then[T any, U any](parser Parser[T], next Parser[U]) Parser[U] {
	return Chain(parser, func(Value[T]) Parser[U] {
		return next
	})
}

// Skip runs parser followed by next and keeps the value of parser.
func Skip[T any, U any](parser Parser[T], next Parser[U]) Parser[T] {
	return Chain(parser, func(kept Value[T]) Parser[T] {
		return Map(next, func(Value[U]) Value[T] {
			return kept
		})
	})
}

// SepBy1 parses one or more items separated by separator and produces a
// Multiple of the item values.
func SepBy1[T any, S any](parser Parser[T], separator Parser[S]) Parser[T] {
	pairs := Many(Then(separator, parser))
	return Chain(parser, func(first Value[T]) Parser[T] {
		return Map(pairs, func(rest Value[T]) Value[T] {
			return Multiple(append([]Value[T]{first}, rest.Items()...)...)
		})
	})
}

// SepBy is SepBy1 that also accepts no items at all, producing Empty.
func SepBy[T any, S any](parser Parser[T], separator Parser[S]) Parser[T] {
	return Choice(SepBy1(parser, separator), Succeed(Empty[T]()))
}

// Lazy defers building a parser until it is first applied, so that rules can
// refer to themselves or to rules defined later. supplier is called exactly
// once, even under concurrent first use.
func Lazy[T any](supplier func() Parser[T]) Parser[T] {
	var once sync.Once
	var resolved Parser[T]
	return func(source string, position int) Reply[T] {
		once.Do(func() {
			resolved = supplier()
		})
		if resolved == nil {
			panic(exc.New(exc.LocationIn("", source, position), exc.CodeUnresolvedLazy, "lazy parser supplier returned nil"))
		}
		return resolved(source, position)
	}
}

// Pipe applies a parser-to-parser transform.
func Pipe[T any, U any](parser Parser[T], transform func(Parser[T]) Parser[U]) Parser[U] {
	return transform(parser)
}

// Desc replaces the expectations of a failure that happened where parser
// started with labels. Failures deeper in the input are left alone.
func Desc[T any](parser Parser[T], labels ...string) Parser[T] {
	labels = slices.Clone(labels)
	return func(source string, position int) Reply[T] {
		reply := parser(source, position)
		if reply.ok || reply.position != position {
			return reply
		}
		return Failure[T](position, labels...)
	}
}

// Parse applies parser to the whole of source, starting at offset 0, and
// fails if any input is left over.
func Parse[T any](parser Parser[T], source string) Reply[T] {
	return Skip(parser, EndOfInput[T]())(source, 0)
}

func (p Parser[T]) Parse(source string) Reply[T] {
	return Parse(p, source)
}

func (p Parser[T]) Or(alternative Parser[T]) Parser[T] {
	return Choice(p, alternative)
}

func (p Parser[T]) Many() Parser[T] {
	return Many(p)
}

func (p Parser[T]) Many1() Parser[T] {
	return Many1(p)
}

func (p Parser[T]) Chain(f func(Value[T]) Parser[T]) Parser[T] {
	return Chain(p, f)
}

func (p Parser[T]) Map(f func(Value[T]) Value[T]) Parser[T] {
	return Map(p, f)
}

func (p Parser[T]) Result(constant T) Parser[T] {
	return Result(p, constant)
}

// Then sequences p and next and keeps the second value.
func (p Parser[T]) Then(next Parser[T]) Parser[T] {
	return Map(Sequence(p, next), func(v Value[T]) Value[T] {
		return v.Items()[1]
	})
}

// Skip sequences p and next and keeps the first value.
func (p Parser[T]) Skip(next Parser[T]) Parser[T] {
	return Map(Sequence(p, next), func(v Value[T]) Value[T] {
		return v.Items()[0]
	})
}

func (p Parser[T]) SepBy(separator Parser[T]) Parser[T] {
	return SepBy(p, separator)
}

func (p Parser[T]) SepBy1(separator Parser[T]) Parser[T] {
	return SepBy1(p, separator)
}

func (p Parser[T]) Thru(wrapper func(Parser[T]) Parser[T]) Parser[T] {
	return Pipe(p, wrapper)
}

func (p Parser[T]) Desc(labels ...string) Parser[T] {
	return Desc(p, labels...)
}
