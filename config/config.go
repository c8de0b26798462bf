// Package config loads the magic-constant document described in the file
// format's external interfaces: the sync marker, the FMT record's reserved
// type id and on-wire layout, the format-character codec table, and the
// scale-factor / opaque-field rules.
//
// Every value here is a parameter threaded into format.Bootstrap and
// decode.NewScanner by the caller — never a package-level global — so the
// test suite can vary any of them (per the design note: "configuration as
// injected constants, not globals").
package config

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
)

// Kind identifies how a FMT_STRUCT field is laid out on the wire.
type Kind uint8

const (
	KindUint8 Kind = iota
	KindASCII
)

// FieldSpec is one (size, kind) pair in the fixed FMT_STRUCT layout.
type FieldSpec struct {
	Name string
	Size int
	Kind Kind
}

// Config holds every magic constant recognized by the file format, with
// pymavlink-compatible defaults (Default returns them pre-populated).
type Config struct {
	// MsgHeader is the 2-byte stream synchronization marker.
	MsgHeader [2]byte

	// FormatMsgType is the type id reserved for FMT records.
	FormatMsgType uint8

	// FormatMsgLength is the on-wire length of an FMT record, including
	// the 3-byte preamble.
	FormatMsgLength int

	// FMTStruct is the fixed layout of an FMT record body, following the
	// 3-byte preamble. Its sizes must total FormatMsgLength-3.
	FMTStruct []FieldSpec

	// FormatMapping maps each legal format character to a codec identifier
	// understood by package format (e.g. "b" -> "i8", "f" -> "f32").
	FormatMapping map[byte]string

	// ScaleFactorFields lists format characters whose decoded integer must
	// be divided by 100 to produce a float.
	ScaleFactorFields map[byte]struct{}

	// LatLonFormat is the single format character whose signed 32-bit
	// integer must be divided by 10^7 to produce degrees.
	LatLonFormat byte

	// BytesFields lists field names emitted as raw byte strings regardless
	// of their format character.
	BytesFields map[string]struct{}
}

// Default returns the pymavlink-compatible defaults: the standard FMT
// struct layout, sync marker, and scale-factor field-char mappings used by
// ArduPilot .BIN logs absent any overriding configuration.
func Default() *Config {
	return &Config{
		MsgHeader:       [2]byte{0xa3, 0x95},
		FormatMsgType:   128,
		FormatMsgLength: 89,
		FMTStruct: []FieldSpec{
			{Name: "type_id", Size: 1, Kind: KindUint8},
			{Name: "length", Size: 1, Kind: KindUint8},
			{Name: "name", Size: 4, Kind: KindASCII},
			{Name: "format_string", Size: 16, Kind: KindASCII},
			{Name: "field_names", Size: 64, Kind: KindASCII},
		},
		FormatMapping: map[byte]string{
			'b': "i8", 'B': "u8",
			'h': "i16", 'H': "u16",
			'i': "i32", 'I': "u32",
			'q': "i64", 'Q': "u64",
			'f': "f32", 'd': "f64",
			'n': "ascii4", 'N': "ascii16", 'Z': "ascii64",
			'c': "i16", 'C': "u16", // scaled ÷100
			'e': "i32", 'E': "u32", // scaled ÷100
			'L': "i32", // scaled ÷10^7 (lat/lon)
			'M': "u8",  // alias
		},
		ScaleFactorFields: byteSet('c', 'C', 'e', 'E'),
		LatLonFormat:      'L',
		BytesFields:       stringSet("Data", "Blob", "Payload"),
	}
}

func byteSet(bs ...byte) map[byte]struct{} {
	m := make(map[byte]struct{}, len(bs))
	for _, b := range bs {
		m[b] = struct{}{}
	}

	return m
}

func stringSet(ss ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		m[s] = struct{}{}
	}

	return m
}

// Load reads the key/value configuration document at path, starting from
// Default() and overriding only the keys present in the file. Missing keys
// keep their default value; an empty file is equivalent to Default(). A file
// that cannot be read (including one that does not exist) is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: loading %s: %w", path, err)
	}

	sec := f.Section("")
	if k := sec.Key("msg_header"); k.String() != "" {
		b, err := hex.DecodeString(strings.Join(strings.Fields(k.String()), ""))
		if err != nil || len(b) != 2 {
			return nil, fmt.Errorf("config: msg_header must decode to exactly 2 bytes: %q", k.String())
		}
		cfg.MsgHeader = [2]byte{b[0], b[1]}
	}

	if v, err := sec.Key("format_msg_type").Int(); err == nil && sec.HasKey("format_msg_type") {
		cfg.FormatMsgType = uint8(v)
	}
	if v, err := sec.Key("format_msg_length").Int(); err == nil && sec.HasKey("format_msg_length") {
		cfg.FormatMsgLength = v
	}

	if sec.HasKey("fmt_struct") {
		specs, err := parseFMTStruct(sec.Key("fmt_struct").String())
		if err != nil {
			return nil, fmt.Errorf("config: fmt_struct: %w", err)
		}
		cfg.FMTStruct = specs
	}

	if sec.HasKey("scale_factor_fields") {
		cfg.ScaleFactorFields = parseByteSet(sec.Key("scale_factor_fields").String())
	}

	if sec.HasKey("latitude_longitude_format") {
		v := strings.TrimSpace(sec.Key("latitude_longitude_format").String())
		if len(v) != 1 {
			return nil, fmt.Errorf("config: latitude_longitude_format must be a single character: %q", v)
		}
		cfg.LatLonFormat = v[0]
	}

	if sec.HasKey("bytes_fields") {
		cfg.BytesFields = parseStringSet(sec.Key("bytes_fields").String())
	}

	if mapSec, err := f.GetSection("format_mapping"); err == nil {
		mapping := make(map[byte]string, len(mapSec.Keys()))
		for _, k := range mapSec.Keys() {
			if len(k.Name()) != 1 {
				return nil, fmt.Errorf("config: format_mapping key must be a single character: %q", k.Name())
			}
			mapping[k.Name()[0]] = strings.TrimSpace(k.Value())
		}
		if len(mapping) > 0 {
			cfg.FormatMapping = mapping
		}
	}

	return cfg, nil
}

func parseFMTStruct(s string) ([]FieldSpec, error) {
	parts := strings.Split(s, ";")
	specs := make([]FieldSpec, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		nameKind, sizeStr, ok := strings.Cut(p, ":")
		if !ok {
			return nil, fmt.Errorf("malformed field spec %q", p)
		}
		name, kindStr, ok := strings.Cut(nameKind, "/")
		if !ok {
			name, kindStr = nameKind, "u8"
		}

		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return nil, fmt.Errorf("malformed field size in %q: %w", p, err)
		}

		kind := KindUint8
		if strings.EqualFold(kindStr, "ascii") {
			kind = KindASCII
		}

		specs = append(specs, FieldSpec{Name: name, Size: size, Kind: kind})
	}

	return specs, nil
}

func parseByteSet(s string) map[byte]struct{} {
	out := make(map[byte]struct{})
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if len(part) == 1 {
			out[part[0]] = struct{}{}
		}
	}

	return out
}

func parseStringSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out[part] = struct{}{}
		}
	}

	return out
}
