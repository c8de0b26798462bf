package decode

import (
	"bytes"
	"fmt"
	"iter"

	"mavbin/config"
	"mavbin/errs"
	"mavbin/format"
	"mavbin/internal/view"
)

// Stats accumulates diagnostics for a single Scanner pass. Localized
// per-record failures are absorbed by the resync loop and counted here
// rather than surfaced to the caller as errors.
type Stats struct {
	Resyncs          int
	MalformedRecords int
	UnknownTypes     int
	TruncatedTail    bool
}

// Scanner walks a byte range of a View in file order, decoding messages
// against a format.Table it mutates as FMT records are encountered.
type Scanner struct {
	v     *view.View
	lo    int64
	hi    int64
	table *format.Table
	cfg   *config.Config
	log   logger
	stats Stats
}

// NewScanner creates a Scanner over [lo, hi) of v, driven by table and cfg.
// table is mutated in place as FMT records are registered; callers that
// need an independent table (e.g. one parallel worker per range) should
// pass table.Clone().
func NewScanner(v *view.View, lo, hi int64, table *format.Table, cfg *config.Config, opts ...Option) (*Scanner, error) {
	if lo < 0 || hi > v.Size() || lo > hi {
		return nil, fmt.Errorf("decode: %w: range [%d, %d) invalid for view of size %d", errs.ErrInvalidRange, lo, hi, v.Size())
	}

	c, err := newScannerConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Scanner{v: v, lo: lo, hi: hi, table: table, cfg: cfg, log: c.logger}, nil
}

// Stats returns the diagnostics accumulated so far. Meaningful once the
// Messages/DecodeAll sequence has been fully drained.
func (s *Scanner) Stats() Stats {
	return s.stats
}

// Messages returns a lazy, single-pass sequence of decoded messages over
// the scanner's range, in strictly increasing start-offset order. When
// filter is non-empty, only messages whose descriptor name equals filter
// are yielded; FMT registration still happens as a side effect of
// advancing past every record, matching decoded or not.
func (s *Scanner) Messages(filter string) iter.Seq[Message] {
	return func(yield func(Message) bool) {
		pos := s.lo

		for {
			next, msg, ok, cont := s.step(pos, filter)
			pos = next
			if !cont {
				return
			}
			if ok {
				if !yield(msg) {
					return
				}
			}
		}
	}
}

// DecodeAll drains Messages(filter) into a slice.
func (s *Scanner) DecodeAll(filter string) ([]Message, error) {
	var out []Message
	for m := range s.Messages(filter) {
		out = append(out, m)
	}

	return out, nil
}

// step advances the scan by exactly one record (or one resync byte),
// implementing the scan loop steps 1-6. It returns the next position, the
// decoded message (if any and if it passed the filter), whether that
// message should be yielded, and whether scanning should continue.
func (s *Scanner) step(pos int64, filter string) (next int64, msg Message, yieldable bool, cont bool) {
	for {
		// Step 1: find the next sync marker at or after pos.
		found, ok := s.findHeader(pos)
		if !ok {
			return pos, Message{}, false, false
		}
		pos = found

		if pos+3 > s.hi {
			s.stats.TruncatedTail = true
			return pos, Message{}, false, false
		}

		// Step 2: type id lookup.
		typeIDByte, _ := s.v.At(pos + 2)
		d, known := s.table.Lookup(typeIDByte)
		if !known {
			s.log.Debugf("decode: unknown type id %d at offset %d, resyncing", typeIDByte, pos)
			s.stats.UnknownTypes++
			s.stats.Resyncs++
			pos++
			continue
		}

		// Step 3: truncation check.
		recEnd := pos + int64(d.Length)
		if recEnd > s.hi {
			s.stats.TruncatedTail = true
			return pos, Message{}, false, false
		}

		// Step 4: tail-sync validation.
		if recEnd < s.hi {
			b0, ok0 := s.v.At(recEnd)
			b1, ok1 := s.v.At(recEnd + 1)
			if !ok0 || !ok1 || b0 != s.cfg.MsgHeader[0] || b1 != s.cfg.MsgHeader[1] {
				s.log.Debugf("decode: tail-sync check failed at offset %d, resyncing", pos)
				s.stats.Resyncs++
				pos++
				continue
			}
		}

		body, err := s.v.Bytes(pos+3, recEnd)
		if err != nil {
			s.stats.TruncatedTail = true
			return pos, Message{}, false, false
		}

		// Step 5: FMT record registers and never emits.
		if typeIDByte == s.cfg.FormatMsgType {
			if err := s.table.Register(body); err != nil {
				s.log.Debugf("decode: malformed FMT record at offset %d: %v", pos, err)
				s.stats.MalformedRecords++
				s.stats.Resyncs++
				pos++
				continue
			}

			return recEnd, Message{}, false, true
		}

		// Step 6: decode and (maybe) emit.
		if filter != "" && filter != d.Name {
			return recEnd, Message{}, false, true
		}

		fields, err := decodeFields(d, body, s.table.Codecs(), s.cfg)
		if err != nil {
			s.log.Debugf("decode: decode error for type %q at offset %d: %v", d.Name, pos, err)
			s.stats.MalformedRecords++
			s.stats.Resyncs++
			pos++
			continue
		}

		return recEnd, Message{typeName: d.Name, fields: fields}, true, true
	}
}

// findHeader returns the offset of the next occurrence of cfg.MsgHeader at
// or after pos within [s.lo, s.hi), or false if none remains.
func (s *Scanner) findHeader(pos int64) (int64, bool) {
	if pos >= s.hi {
		return 0, false
	}

	haystack, err := s.v.Bytes(pos, s.hi)
	if err != nil {
		return 0, false
	}

	idx := bytes.Index(haystack, s.cfg.MsgHeader[:])
	if idx < 0 {
		return 0, false
	}

	return pos + int64(idx), true
}

// FindAlignedStart scans forward from nominal within [0, hi) of v for the
// first offset whose record passes the full header+type+tail-sync
// validation of the scan loop, using table (expected to already hold every
// descriptor referenced in range, e.g. from a prescan). It returns hi if no
// aligned record is found before hi, signalling an empty trailing slice.
func FindAlignedStart(v *view.View, nominal, hi int64, table *format.Table, cfg *config.Config) (int64, error) {
	if nominal < 0 || hi > v.Size() || nominal > hi {
		return 0, fmt.Errorf("decode: %w: range [%d, %d) invalid for view of size %d", errs.ErrInvalidRange, nominal, hi, v.Size())
	}

	pos := nominal
	for {
		haystack, err := v.Bytes(pos, hi)
		if err != nil {
			return hi, nil
		}
		idx := bytes.Index(haystack, cfg.MsgHeader[:])
		if idx < 0 {
			return hi, nil
		}
		found := pos + int64(idx)

		if found+3 > hi {
			return hi, nil
		}

		typeIDByte, _ := v.At(found + 2)
		d, known := table.Lookup(typeIDByte)
		if !known {
			pos = found + 1
			continue
		}

		recEnd := found + int64(d.Length)
		if recEnd > hi {
			pos = found + 1
			continue
		}

		if recEnd < hi {
			b0, ok0 := v.At(recEnd)
			b1, ok1 := v.At(recEnd + 1)
			if !ok0 || !ok1 || b0 != cfg.MsgHeader[0] || b1 != cfg.MsgHeader[1] {
				pos = found + 1
				continue
			}
		}

		return found, nil
	}
}
