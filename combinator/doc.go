// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

/*
Package combinator builds recursive-descent parsers out of small pieces.

Primitive parsers match a literal (String), a regular expression anchored at
the current position (Regex) or the end of the input (EndOfInput).
Combinators put them together: Sequence, Choice, Many, SepBy, Chain, Map,
Then, Skip and Lazy for rules that refer to themselves.

	number := combinator.Regex(`[0-9]+`)
	list := combinator.Then(combinator.String("["),
		combinator.Skip(combinator.SepBy(number, combinator.String(",")), combinator.String("]")))
	reply := list.Parse("[1,2,3]")

Parsers backtrack without limit. To keep diagnostics useful every reply
carries the farthest failure seen while it was produced, and combinators
that make several attempts keep the deepest one, pooling the expectations
of failures that end at the same offset. A failed Parse therefore reports
the offset where the input stopped making sense and everything that would
have been accepted there, rather than the error of whichever alternative
happened to be tried first.

Parsers are plain functions and hold no state, so one grammar may be used
from many goroutines at once. Lazy resolves its rule exactly once.
*/
package combinator
