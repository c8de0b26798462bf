// Package format holds the decoding schema learned from FMT records: the
// per-field codec table, the parsed Descriptor shape, and the type-id-keyed
// Table that the sequential and parallel decoders are driven by.
package format

import (
	"bytes"
	"fmt"
	"strings"

	"mavbin/config"
	"mavbin/errs"
)

// Descriptor is the parsed, in-memory form of one FMT record: everything
// needed to decode subsequent instances of its type id.
type Descriptor struct {
	TypeID       uint8
	Length       int
	Name         string
	FormatString string
	FieldNames   []string
}

// Equal reports whether two descriptors are byte-identical, the test used
// to accept a duplicate FMT record for the same type id.
func (d Descriptor) Equal(other Descriptor) bool {
	if d.TypeID != other.TypeID || d.Length != other.Length ||
		d.Name != other.Name || d.FormatString != other.FormatString {
		return false
	}

	if len(d.FieldNames) != len(other.FieldNames) {
		return false
	}
	for i, n := range d.FieldNames {
		if other.FieldNames[i] != n {
			return false
		}
	}

	return true
}

// parseDescriptor decodes the body of an FMT record (the bytes following
// the 3-byte preamble) per cfg.FMTStruct, and validates it against the
// invariants a format descriptor must satisfy.
func parseDescriptor(codecs *CodecTable, cfg *config.Config, body []byte) (Descriptor, error) {
	var d Descriptor
	off := 0

	for _, spec := range cfg.FMTStruct {
		if off+spec.Size > len(body) {
			return Descriptor{}, fmt.Errorf("format: %w: FMT body too short for field %q", errs.ErrMalformedFormat, spec.Name)
		}
		field := body[off : off+spec.Size]
		off += spec.Size

		switch spec.Name {
		case "type_id":
			d.TypeID = field[0]
		case "length":
			d.Length = int(field[0])
		case "name":
			name, err := trimmedASCII(field)
			if err != nil {
				return Descriptor{}, fmt.Errorf("format: %w: name: %w", errs.ErrMalformedFormat, err)
			}
			d.Name = name
		case "format_string":
			fstr, err := trimmedASCII(field)
			if err != nil {
				return Descriptor{}, fmt.Errorf("format: %w: format_string: %w", errs.ErrMalformedFormat, err)
			}
			d.FormatString = fstr
		case "field_names":
			raw, err := trimmedASCII(field)
			if err != nil {
				return Descriptor{}, fmt.Errorf("format: %w: field_names: %w", errs.ErrMalformedFormat, err)
			}
			if raw == "" {
				d.FieldNames = nil
			} else {
				d.FieldNames = strings.Split(raw, ",")
			}
		}
	}

	if len(d.FormatString) != len(d.FieldNames) {
		return Descriptor{}, fmt.Errorf("format: %w: format_string length %d != field count %d for %q",
			errs.ErrMalformedFormat, len(d.FormatString), len(d.FieldNames), d.Name)
	}

	size := 0
	for _, ch := range d.FormatString {
		c, ok := codecs.Lookup(byte(ch))
		if !ok {
			return Descriptor{}, fmt.Errorf("format: %w: unknown format character %q in %q", errs.ErrMalformedFormat, ch, d.Name)
		}
		size += c.Size
	}

	if d.Length != 3+size {
		return Descriptor{}, fmt.Errorf("format: %w: declared length %d != 3+%d for %q", errs.ErrMalformedFormat, d.Length, size, d.Name)
	}

	return d, nil
}

// trimmedASCII validates that field contains only printable ASCII up to its
// first NUL, and returns that prefix.
func trimmedASCII(field []byte) (string, error) {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}

	for _, b := range field {
		if b < 0x20 || b > 0x7e {
			return "", fmt.Errorf("non-ASCII byte 0x%02x", b)
		}
	}

	return string(field), nil
}
