package format

import (
	"fmt"
	"strconv"
	"strings"

	"mavbin/config"
	"mavbin/errs"
)

// Kind identifies the decoded Go representation of a field codec.
type Kind uint8

const (
	KindInt8 Kind = iota
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindFixedASCII
	KindOpaque
)

// Codec describes how one format character is laid out and decoded: its
// on-wire size and its target Kind. FixedASCII and Opaque codecs carry
// their length in Size directly (there is no separate "n" parameter).
type Codec struct {
	Kind Kind
	Size int
}

// CodecTable maps a format character to its Codec, built once from
// cfg.FormatMapping at format.Bootstrap time and shared read-only
// thereafter (parseDescriptor and the decoder only ever read from it).
type CodecTable struct {
	byChar map[byte]Codec
}

// newCodecTable builds a CodecTable from the configured format-mapping
// identifiers (e.g. "i8", "ascii4", "u32"), resolving aliases exactly as
// cfg.FormatMapping names them.
func newCodecTable(cfg *config.Config) (*CodecTable, error) {
	t := &CodecTable{byChar: make(map[byte]Codec, len(cfg.FormatMapping))}

	for ch, id := range cfg.FormatMapping {
		c, err := parseCodecID(id)
		if err != nil {
			return nil, fmt.Errorf("format: %w: format character %q: %w", errs.ErrMalformedFormat, ch, err)
		}
		t.byChar[ch] = c
	}

	return t, nil
}

// parseCodecID turns one configured identifier into a Codec. Recognized
// forms: "i8","u8","i16","u16","i32","u32","i64","u64","f32","f64",
// "asciiN" (fixed-length ASCII), "opaqueN" (fixed-length raw bytes).
func parseCodecID(id string) (Codec, error) {
	switch id {
	case "i8":
		return Codec{Kind: KindInt8, Size: 1}, nil
	case "u8":
		return Codec{Kind: KindUint8, Size: 1}, nil
	case "i16":
		return Codec{Kind: KindInt16, Size: 2}, nil
	case "u16":
		return Codec{Kind: KindUint16, Size: 2}, nil
	case "i32":
		return Codec{Kind: KindInt32, Size: 4}, nil
	case "u32":
		return Codec{Kind: KindUint32, Size: 4}, nil
	case "i64":
		return Codec{Kind: KindInt64, Size: 8}, nil
	case "u64":
		return Codec{Kind: KindUint64, Size: 8}, nil
	case "f32":
		return Codec{Kind: KindFloat32, Size: 4}, nil
	case "f64":
		return Codec{Kind: KindFloat64, Size: 8}, nil
	}

	if n, ok := strings.CutPrefix(id, "ascii"); ok {
		size, err := strconv.Atoi(n)
		if err != nil || size <= 0 {
			return Codec{}, fmt.Errorf("malformed ascii codec id %q", id)
		}
		return Codec{Kind: KindFixedASCII, Size: size}, nil
	}
	if n, ok := strings.CutPrefix(id, "opaque"); ok {
		size, err := strconv.Atoi(n)
		if err != nil || size <= 0 {
			return Codec{}, fmt.Errorf("malformed opaque codec id %q", id)
		}
		return Codec{Kind: KindOpaque, Size: size}, nil
	}

	return Codec{}, fmt.Errorf("unrecognized codec id %q", id)
}

// Lookup returns the Codec registered for ch, if any.
func (t *CodecTable) Lookup(ch byte) (Codec, bool) {
	c, ok := t.byChar[ch]
	return c, ok
}
