// Package htmlcore implements a tokenize-then-build HTML parsing core:
// a regex-driven Tokenizer classifies raw markup into a flat token
// stream, and a stack-based TreeBuilder assembles that stream into an
// agility-style DOM, tolerant of malformed and partial markup.
package htmlcore

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
)

// Configuration holds the options that steer a parse: a small,
// exported, directly-mutable struct rather than functional options,
// with a Log field callers can redirect or silence.
type Configuration struct {
	// UseIDAttribute enables building Document.IDIndex after the parse
	// completes.
	UseIDAttribute bool

	// CheckSyntax enables raising ErrorKindTagNotOpened for closing
	// tags with no matching open tag. When false such tags are
	// silently dropped, matching lenient-HTML-tolerant behavior.
	CheckSyntax bool

	// AutoCloseOnEnd is always effectively true: every element still
	// open at end of input is implicitly closed. The field exists for
	// API parity with tools that make this behavior optional; htmlcore
	// does not support leaving elements unclosed, so setting it false
	// has no effect.
	AutoCloseOnEnd bool

	// PreserveWhitespace keeps whitespace-only text tokens as Text
	// nodes. When false, whitespace-only text is dropped.
	PreserveWhitespace bool

	// TreatCDATAAsComment stores CDATA sections as Comment nodes
	// instead of Text nodes.
	TreatCDATAAsComment bool

	// ExtractErrorSourceText attaches a bounded source snippet to
	// every ParseError.
	ExtractErrorSourceText bool

	// ExtractErrorSourceTextMaxLength bounds the snippet length when
	// ExtractErrorSourceText is set. Zero means the package default.
	ExtractErrorSourceTextMaxLength int

	// Log receives diagnostics raised during parsing, such as
	// matcher-timeout fallbacks. Defaults to stderr; set to a
	// log.New(io.Discard, "", 0) logger, or call Silent(), to suppress.
	Log *log.Logger
}

// NewConfiguration returns a Configuration with sane defaults:
// whitespace-only text preserved, syntax checking and the id index
// off, and logging to stderr.
func NewConfiguration() *Configuration {
	return &Configuration{
		UseIDAttribute:     false,
		CheckSyntax:        false,
		AutoCloseOnEnd:     true,
		PreserveWhitespace: true,
		Log:                log.New(os.Stderr, "htmlcore: ", 0),
	}
}

// Silent disables logging of diagnostics raised during parsing.
func (c *Configuration) Silent() *Configuration {
	c.Log = log.New(io.Discard, "", 0)
	return c
}

// ErrParseInputNil is returned by Parse when input has already been
// consumed by a prior call on the same Document: a Document is
// single-use.
var ErrParseInputNil = errors.New("htmlcore: document already parsed")

// Parse runs the full tokenize-then-build pipeline and writes the
// result into document. document must come from
// NewDocument and must not have been parsed before; input is the raw
// markup to parse. Parse never fails on malformed markup itself —
// recoverable problems are appended to document.Errors — but it
// returns an error if document has already been used.
func (c *Configuration) Parse(document *Document, input string) error {
	if document.parsed {
		return ErrParseInputNil
	}
	document.parsed = true
	document.Text = input
	document.SetPositions(document.RootNode(), 0, len(input), 0, len(input))

	tz := NewTokenizer(c, input)
	tokens := tz.Tokenize()
	document.Errors = append(document.Errors, tz.Errors()...)

	tb := NewTreeBuilder(document, input)
	tb.Build(tokens)

	if c.UseIDAttribute {
		rebuildIDIndex(document)
	}
	return nil
}

// Parse is a convenience wrapper that builds a fresh Document using
// cfg (or NewConfiguration() defaults if cfg is nil) and parses input
// into it.
func Parse(cfg *Configuration, input string) (*Document, error) {
	if cfg == nil {
		cfg = NewConfiguration()
	}
	doc := NewDocument(cfg)
	if err := cfg.Parse(doc, input); err != nil {
		return nil, fmt.Errorf("htmlcore: parse: %w", err)
	}
	return doc, nil
}
