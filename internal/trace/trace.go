// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package trace logs grammar rules as they are attempted.
package trace

import (
	"github.com/tliron/commonlog"

	pc "gopkg.microglot.org/combinator.go/combinator"
)

// LoggerName is the commonlog name used by NewLogger.
const LoggerName = "combinator.trace"

// Logger is the part of commonlog.Logger used here.
type Logger interface {
	Debugf(format string, values ...any)
}

// NewLogger returns the commonlog logger that traces are written to.
func NewLogger() Logger {
	return commonlog.GetLogger(LoggerName)
}

// Wrap returns a transform, for use with Parser.Thru, that logs every attempt
// of a parser along with its outcome.
func Wrap[T any](logger Logger, name string) func(pc.Parser[T]) pc.Parser[T] {
	return func(parser pc.Parser[T]) pc.Parser[T] {
		return func(source string, position int) pc.Reply[T] {
			logger.Debugf("%s: try at %d", name, position)
			reply := parser(source, position)
			if reply.OK() {
				logger.Debugf("%s: matched %d-%d", name, position, reply.Position())
			} else {
				logger.Debugf("%s: failed at %d expecting %q", name, reply.Position(), reply.Expected())
			}
			return reply
		}
	}
}

// Rules adapts Wrap for grammars that hand each named rule to a wrapper.
func Rules[T any](logger Logger) func(name string, parser pc.Parser[T]) pc.Parser[T] {
	return func(name string, parser pc.Parser[T]) pc.Parser[T] {
		return parser.Thru(Wrap[T](logger, name))
	}
}
