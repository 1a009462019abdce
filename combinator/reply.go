// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package combinator

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gopkg.microglot.org/combinator.go/internal/exc"
	"gopkg.microglot.org/combinator.go/optional"
)

// Reply is the outcome of applying a parser at a position. A successful
// Reply carries the position just after the match and the produced Value. A
// failed Reply carries the position where matching diverged and the set of
// labels that would have been accepted there.
//
// Every Reply also carries a failure trail: the farthest failure seen while
// producing it. For a failure the trail is the failure itself. For a success
// it records the deepest alternative that was rejected along the way, which
// is what lets a later failure report what else could have come next.
type Reply[T any] struct {
	ok       bool
	position int
	value    Value[T]
	farthest int
	expected []string
}

// Success builds a successful Reply with an empty failure trail.
func Success[T any](position int, value Value[T]) Reply[T] {
	return Reply[T]{
		ok:       true,
		position: position,
		value:    value,
		farthest: -1,
	}
}

// Failure builds a failed Reply. The expectation labels are deduplicated.
func Failure[T any](position int, expected ...string) Reply[T] {
	return Reply[T]{
		position: position,
		farthest: position,
		expected: labelSet(expected),
	}
}

func (r Reply[T]) OK() bool {
	return r.ok
}

// Position is the offset after the match for a success, and the offset of
// the mismatch for a failure.
func (r Reply[T]) Position() int {
	return r.position
}

// Value returns the produced value. It panics on a failed Reply.
func (r Reply[T]) Value() Value[T] {
	if !r.ok {
		panic(exc.New(exc.Location{}, exc.CodeWrongVariant, "Value called on a failed reply"))
	}
	return r.value
}

// Farthest is the offset used to compare failures: the failure position, or
// the trail of a success which is -1 when nothing was rejected.
func (r Reply[T]) Farthest() int {
	return r.farthest
}

// Expected returns the sorted expectation labels at Farthest.
func (r Reply[T]) Expected() []string {
	return slices.Clone(r.expected)
}

// Err returns nil for a success and a *ParseError for a failure.
func (r Reply[T]) Err() error {
	if r.ok {
		return nil
	}
	return &ParseError{
		Position: r.position,
		Expected: slices.Clone(r.expected),
	}
}

func (r Reply[T]) String() string {
	if r.ok {
		return fmt.Sprintf("Success(%d, %s)", r.position, r.value)
	}
	return fmt.Sprintf("Failure(%d, %v)", r.position, r.expected)
}

// Merge combines a new reply with the one previously recorded by a
// combinator that makes more than one attempt.
//
// With no previous reply the current one is kept. A current reply that
// reached farther than the previous one replaces it. Otherwise the current
// status, position and value are kept but the trail comes from the previous
// reply, with both label sets pooled when the two trails end at the same
// offset. A success therefore always stays a success, and a failure that did
// not reach as far as an earlier one reports the earlier one.
func Merge[T any, P any](current Reply[T], previous optional.Optional[Reply[P]]) Reply[T] {
	last, ok := previous.Get()
	if !ok {
		return current
	}
	if current.farthest > last.farthest {
		return current
	}
	expected := last.expected
	if current.farthest == last.farthest {
		expected = unionLabels(current.expected, last.expected)
	}
	if current.ok {
		return Reply[T]{
			ok:       true,
			position: current.position,
			value:    current.value,
			farthest: last.farthest,
			expected: expected,
		}
	}
	return Reply[T]{
		position: last.farthest,
		farthest: last.farthest,
		expected: expected,
	}
}

// retype carries a failed reply, and its trail, across a change of value
// type.
func retype[U any, T any](r Reply[T]) Reply[U] {
	return Reply[U]{
		position: r.position,
		farthest: r.farthest,
		expected: r.expected,
	}
}

func labelSet(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	out := slices.Clone(labels)
	slices.Sort(out)
	return slices.Compact(out)
}

func unionLabels(a []string, b []string) []string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	return labelSet(append(slices.Clone(a), b...))
}

// ParseError adapts a failed Reply to the error interface.
type ParseError struct {
	Position int
	Expected []string
}

func (e *ParseError) Error() string {
	quoted := make([]string, 0, len(e.Expected))
	for _, label := range e.Expected {
		quoted = append(quoted, strconv.Quote(label))
	}
	switch len(quoted) {
	case 0:
		return fmt.Sprintf("unexpected input at offset %d", e.Position)
	case 1:
		return fmt.Sprintf("expected %s at offset %d", quoted[0], e.Position)
	default:
		return fmt.Sprintf("expected one of %s at offset %d", strings.Join(quoted, ", "), e.Position)
	}
}
