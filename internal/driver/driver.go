// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package driver parses batches of documents concurrently and collects the
// failures as exceptions.
package driver

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tliron/commonlog"

	pc "gopkg.microglot.org/combinator.go/combinator"
	"gopkg.microglot.org/combinator.go/internal/exc"
	"gopkg.microglot.org/combinator.go/internal/fs"
	"gopkg.microglot.org/combinator.go/internal/idl"
	"gopkg.microglot.org/combinator.go/internal/jsonsubset"
	"gopkg.microglot.org/combinator.go/internal/target"
	"gopkg.microglot.org/combinator.go/internal/trace"
)

// LoggerName is the commonlog name the driver logs under.
const LoggerName = "combinator.driver"

// NonFatal lists the codes the default reporter records without stopping the
// batch. A document that fails to parse does not prevent the others from
// being parsed.
var NonFatal = []string{
	exc.CodeUnexpectedInput,
	exc.CodeUnsupportedFileFormat,
}

// RuleWrapper is applied to every named rule of a grammar.
type RuleWrapper func(name string, parser pc.Parser[idl.Node]) pc.Parser[idl.Node]

// Grammar builds the root parser for one kind of file. The wrap argument is
// nil unless tracing was requested.
type Grammar func(wrap RuleWrapper) pc.Parser[idl.Node]

// JSONSubset is the default Grammar for FileKindJSON.
func JSONSubset(wrap RuleWrapper) pc.Parser[idl.Node] {
	if wrap == nil {
		return jsonsubset.New().Value
	}
	return jsonsubset.New(jsonsubset.WithRuleWrapper(wrap)).Value
}

func DefaultGrammars() map[idl.FileKind]Grammar {
	return map[idl.FileKind]Grammar{
		idl.FileKindJSON: JSONSubset,
	}
}

type Option func(d *driver) error

func OptionWithFS(fs idl.FileSystem) Option {
	return func(d *driver) error {
		d.FS = fs
		return nil
	}
}

func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(d *driver) error {
		d.LookupENV = lookupEnv
		return nil
	}
}

// OptionWithExcReporter sets how the Reporter for each Parse call is made.
// Every call starts with an empty Reporter.
func OptionWithExcReporter(factory func() exc.Reporter) Option {
	return func(d *driver) error {
		d.NewReporter = factory
		return nil
	}
}

func OptionWithMaxConcurrency(max int) Option {
	return func(d *driver) error {
		if max < 1 {
			return fmt.Errorf("max concurrency must be positive, got %d", max)
		}
		d.MaxConcurrency = max
		return nil
	}
}

// OptionWithGrammar installs or replaces the grammar used for a file kind.
func OptionWithGrammar(kind idl.FileKind, grammar Grammar) Option {
	return func(d *driver) error {
		if kind == idl.FileKindNone {
			return fmt.Errorf("cannot install a grammar for %s files", kind)
		}
		if d.Grammars == nil {
			d.Grammars = DefaultGrammars()
		}
		d.Grammars[kind] = grammar
		return nil
	}
}

// OptionWithTrace sets where rule traces are written when a request asks for
// them.
func OptionWithTrace(logger trace.Logger) Option {
	return func(d *driver) error {
		d.Tracer = logger
		return nil
	}
}

func New(opts ...Option) (idl.Driver, error) {
	d := &driver{}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	if d.LookupENV == nil {
		d.LookupENV = os.LookupEnv
	}
	if d.FS == nil {
		dfs, err := NewDefaultFS(d.LookupENV)
		if err != nil {
			return nil, err
		}
		d.FS = dfs
	}
	if d.MaxConcurrency == 0 {
		max := runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if max > cpus {
			max = cpus
		}
		d.MaxConcurrency = max
	}
	if d.Semaphore == nil {
		d.Semaphore = newSemaphore(d.MaxConcurrency)
	}
	if d.NewReporter == nil {
		d.NewReporter = func() exc.Reporter {
			return exc.NewReporter(NonFatal)
		}
	}
	if d.Grammars == nil {
		d.Grammars = DefaultGrammars()
	}
	if d.Tracer == nil {
		d.Tracer = trace.NewLogger()
	}
	if d.Log == nil {
		d.Log = commonlog.GetLogger(LoggerName)
	}
	d.plain = make(map[idl.FileKind]pc.Parser[idl.Node], len(d.Grammars))
	d.traced = make(map[idl.FileKind]pc.Parser[idl.Node], len(d.Grammars))
	for kind, grammar := range d.Grammars {
		d.plain[kind] = grammar(nil)
		d.traced[kind] = grammar(trace.Rules[idl.Node](d.Tracer))
	}
	return d, nil
}

type driver struct {
	LookupENV      func(string) (string, bool)
	FS             idl.FileSystem
	MaxConcurrency int
	Semaphore      *semaphore
	NewReporter    func() exc.Reporter
	Grammars       map[idl.FileKind]Grammar
	Tracer         trace.Logger
	Log            commonlog.Logger

	plain  map[idl.FileKind]pc.Parser[idl.Node]
	traced map[idl.FileKind]pc.Parser[idl.Node]
}

func (self *driver) Parse(ctx context.Context, req *idl.ParseRequest) (*idl.ParseResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reporter := self.NewReporter()
	files := make([]idl.File, 0, len(req.Files))
	for _, t := range req.Files {
		uri := target.Normalize(t)
		in, err := self.FS.Open(ctx, uri)
		if err != nil {
			if fatal := self.report(reporter, asException(uri, err)); fatal != nil {
				return nil, fatal
			}
			continue
		}
		files = append(files, in...)
	}

	loaded := &sync.Map{}
	results := make(chan fileResult, len(files))
	for offset, file := range files {
		go func(offset int, file idl.File) {
			doc, err := self.parseFile(ctx, reporter, file, loaded, req.Trace)
			results <- fileResult{offset: offset, document: doc, err: err}
		}(offset, file)
	}

	ordered := make([]*idl.Document, len(files))
	for x := 0; x < len(files); x = x + 1 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result := <-results:
			if result.err != nil {
				return nil, result.err
			}
			ordered[result.offset] = result.document
		}
	}

	documents := make([]*idl.Document, 0, len(ordered))
	for _, doc := range ordered {
		if doc != nil {
			documents = append(documents, doc)
		}
	}
	resp := &idl.ParseResponse{
		Documents: documents,
	}
	caught := reporter.Reported()
	if len(caught) > 0 {
		return resp, MultiException(caught)
	}
	return resp, nil
}

// parseFile returns a nil document, and no error, for files already handled
// by this request and for non-fatal failures.
func (self *driver) parseFile(ctx context.Context, reporter exc.Reporter, file idl.File, loaded *sync.Map, traced bool) (*idl.Document, error) {
	if err := self.Semaphore.Acquire(ctx); err != nil {
		return nil, err
	}
	defer self.Semaphore.Release()
	uri := file.Path(ctx)
	if _, ok := loaded.LoadOrStore(uri, true); ok {
		return nil, nil
	}
	kind := file.Kind(ctx)
	parser := self.plain[kind]
	if traced {
		parser = self.traced[kind]
	}
	if parser == nil {
		e := exc.New(exc.Location{URI: uri}, exc.CodeUnsupportedFileFormat, fmt.Sprintf("unsupported file format %s", kind))
		return nil, self.report(reporter, e)
	}
	source, err := fs.ReadAll(ctx, file)
	if err != nil {
		return nil, self.report(reporter, asException(uri, err))
	}
	reply := parser.Parse(source)
	if !reply.OK() {
		loc := exc.LocationIn(uri, source, reply.Position())
		e := exc.New(loc, exc.CodeUnexpectedInput, Describe(source, reply.Position(), reply.Expected()))
		return nil, self.report(reporter, e)
	}
	self.Log.Infof("parsed %s (%d bytes)", uri, len(source))
	return &idl.Document{
		URI:    uri,
		Kind:   kind,
		Source: source,
		Root:   reply.Value().Payload(),
	}, nil
}

func (self *driver) report(reporter exc.Reporter, e exc.Exception) error {
	self.Log.Errorf("%s", e.Error())
	if fatal := reporter.Report(e); fatal != nil {
		return fatal
	}
	return nil
}

// Describe renders a failure at offset as "unexpected <found> (expecting a, b)".
// The found text is the next code point quoted, or "end of input".
func Describe(source string, offset int, expected []string) string {
	found := pc.LabelEndOfInput
	if offset < len(source) {
		r, _ := utf8.DecodeRuneInString(source[offset:])
		found = strconv.QuoteRune(r)
	}
	if len(expected) < 1 {
		return "unexpected " + found
	}
	return fmt.Sprintf("unexpected %s (expecting %s)", found, strings.Join(expected, ", "))
}

func asException(uri string, err error) exc.Exception {
	if e, ok := err.(exc.Exception); ok {
		return e
	}
	return exc.WrapUnknown(exc.Location{URI: uri}, err)
}

type fileResult struct {
	offset   int
	document *idl.Document
	err      error
}

// MultiException is every exception reported during a Parse call.
type MultiException []exc.Exception

func (self MultiException) Error() string {
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}

func (self MultiException) Unwrap() []error {
	out := make([]error, 0, len(self))
	for _, e := range self {
		out = append(out, e)
	}
	return out
}
