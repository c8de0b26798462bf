// Package mavbin parses MAVLink Binary Log files (".BIN") emitted by
// ArduPilot-family autopilots: a sequence of length-delimited,
// self-describing binary records whose field layouts are declared inline
// by FMT records that precede any instance of the types they define.
//
// # Basic Usage
//
// Decoding a file sequentially:
//
//	p, err := mavbin.Parser("flight.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	msgs, err := p.DecodeAll("")
//
// Decoding a large file in parallel, preserving chronological order:
//
//	msgs, err := mavbin.ParallelParser("flight.bin", mavbin.ModeWorkers, 0).
//	    ProcessAll(context.Background(), "")
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the
// config/format/decode/parallel packages, covering the common case. For
// advanced usage — custom configuration documents, direct access to the
// format table, filtered or range-limited scans — use those packages
// directly.
package mavbin

import (
	"context"
	"fmt"

	"mavbin/config"
	"mavbin/decode"
	"mavbin/errs"
	"mavbin/format"
	"mavbin/internal/view"
	"mavbin/parallel"
)

// Message is a decoded record: a reserved message-type name plus an
// ordered list of named field values.
type Message = decode.Message

// Value is a tagged variant holding one decoded field.
type Value = decode.Value

// Field is one named, ordered entry of a decoded Message.
type Field = decode.Field

// Mode selects how ParallelParser distributes work across workers.
type Mode = parallel.Mode

const (
	ModeWorkers = parallel.ModeWorkers
	ModeThreads = parallel.ModeThreads
)

// ParserHandle wraps a scoped memory-mapped view of a single file with its
// own format table, bootstrapped from config.Default(). Acquired by Parser
// and released by Close; release is guaranteed once Close is called, even
// after a decode error.
type ParserHandle struct {
	v     *view.View
	table *format.Table
	cfg   *config.Config
}

// Parser opens path and returns a scoped handle for sequential decoding.
// The caller must call Close when done.
func Parser(path string) (*ParserHandle, error) {
	return ParserWithConfig(path, config.Default())
}

// ParserWithConfig is Parser with an explicitly supplied configuration,
// for callers whose magic constants differ from the pymavlink defaults.
func ParserWithConfig(path string, cfg *config.Config) (*ParserHandle, error) {
	v, err := view.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mavbin: %w: %w", errs.ErrIoError, err)
	}

	table, err := format.Bootstrap(cfg)
	if err != nil {
		v.Close()
		return nil, err
	}

	return &ParserHandle{v: v, table: table, cfg: cfg}, nil
}

// Close releases the handle's memory-mapped view. Safe to call once.
func (p *ParserHandle) Close() error {
	return p.v.Close()
}

// DecodeAll decodes the whole file, optionally restricted to records of a
// single message type when filter is non-empty.
func (p *ParserHandle) DecodeAll(filter string) ([]Message, error) {
	s, err := decode.NewScanner(p.v, 0, p.v.Size(), p.table, p.cfg)
	if err != nil {
		return nil, err
	}

	return s.DecodeAll(filter)
}

// Messages returns a lazy, single-pass sequence over [0, endOffset) of the
// file (the whole file when endOffset <= 0), optionally restricted to
// filter.
func (p *ParserHandle) Messages(filter string, endOffset int64) (func(func(Message) bool), error) {
	hi := p.v.Size()
	if endOffset > 0 && endOffset < hi {
		hi = endOffset
	}

	s, err := decode.NewScanner(p.v, 0, hi, p.table, p.cfg)
	if err != nil {
		return nil, err
	}

	return s.Messages(filter), nil
}

// ParallelHandle wraps the parameters of a parallel decode run.
type ParallelHandle struct {
	path    string
	mode    Mode
	workers int
}

// ParallelParser returns a handle for decoding path by splitting it into
// message-aligned chunks across workers (0 selects mode's documented
// default worker count).
func ParallelParser(path string, mode Mode, workers int) *ParallelHandle {
	return &ParallelHandle{path: path, mode: mode, workers: workers}
}

// ProcessAll decodes the whole file, merging per-chunk results in
// chronological order. A cancelled ctx returns errs.ErrCancellationRequested
// with no partial results. opts configures logging, caching, and a
// non-default configuration document; see the parallel package.
func (h *ParallelHandle) ProcessAll(ctx context.Context, filter string, opts ...parallel.Option) ([]Message, error) {
	return parallel.ProcessAll(ctx, h.path, h.mode, h.workers, filter, opts...)
}
