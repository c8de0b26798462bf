package format

import (
	"fmt"

	"mavbin/config"
	"mavbin/errs"
)

// Table is the type-id-keyed collection of descriptors learned so far. It
// is owned by whoever drives the scan: the sequential decoder owns one
// directly, the parallel coordinator builds one during its prescan pass and
// hands each worker a Clone.
type Table struct {
	cfg    *config.Config
	codecs *CodecTable
	byType map[uint8]Descriptor
}

// Bootstrap returns a Table containing exactly the FMT descriptor itself,
// keyed at cfg.FormatMsgType, from which every other descriptor is learned
// by calling Register on subsequent FMT records.
func Bootstrap(cfg *config.Config) (*Table, error) {
	codecs, err := newCodecTable(cfg)
	if err != nil {
		return nil, err
	}

	fmtDescriptor := Descriptor{
		TypeID:       cfg.FormatMsgType,
		Length:       cfg.FormatMsgLength,
		Name:         "FMT",
		FormatString: "",
		FieldNames:   nil,
	}

	return &Table{
		cfg:    cfg,
		codecs: codecs,
		byType: map[uint8]Descriptor{cfg.FormatMsgType: fmtDescriptor},
	}, nil
}

// Codecs returns the format-character codec table backing this Table,
// shared read-only with the decoder that parses non-FMT records.
func (t *Table) Codecs() *CodecTable {
	return t.codecs
}

// Config returns the configuration Table was built from.
func (t *Table) Config() *config.Config {
	return t.cfg
}

// Register parses a candidate FMT record body (the bytes following the
// 3-byte preamble) and installs the resulting descriptor. An
// identical-duplicate of an already-registered type id is accepted
// silently; a conflicting duplicate is errs.ErrMalformedFormat.
func (t *Table) Register(body []byte) error {
	d, err := parseDescriptor(t.codecs, t.cfg, body)
	if err != nil {
		return err
	}

	existing, ok := t.byType[d.TypeID]
	if ok && !existing.Equal(d) {
		return fmt.Errorf("format: %w: type id %d re-registered with a conflicting descriptor (had %q, got %q)",
			errs.ErrMalformedFormat, d.TypeID, existing.Name, d.Name)
	}

	t.byType[d.TypeID] = d

	return nil
}

// Lookup returns the descriptor registered for typeID, if any.
func (t *Table) Lookup(typeID uint8) (Descriptor, bool) {
	d, ok := t.byType[typeID]
	return d, ok
}

// Entries returns every descriptor currently registered, including the
// bootstrap FMT descriptor, in no particular order. Used by the prescan
// cache to persist a Table between runs.
func (t *Table) Entries() []Descriptor {
	out := make([]Descriptor, 0, len(t.byType))
	for _, d := range t.byType {
		out = append(out, d)
	}

	return out
}

// Install directly sets the descriptor for d.TypeID, bypassing the
// conflicting-duplicate check Register performs. Used when restoring a
// Table from a trusted source (the prescan cache) that already validated
// each descriptor once.
func (t *Table) Install(d Descriptor) {
	t.byType[d.TypeID] = d
}

// Clone returns a deep copy of t, used to hand each parallel worker its own
// mutable table seeded from a shared prescan result.
func (t *Table) Clone() *Table {
	byType := make(map[uint8]Descriptor, len(t.byType))
	for id, d := range t.byType {
		fieldNames := make([]string, len(d.FieldNames))
		copy(fieldNames, d.FieldNames)
		d.FieldNames = fieldNames
		byType[id] = d
	}

	return &Table{
		cfg:    t.cfg,
		codecs: t.codecs,
		byType: byType,
	}
}
