package decode

import (
	"math"

	"mavbin/config"
	"mavbin/endian"
	"mavbin/errs"
	"mavbin/format"
)

// wireEngine is the byte order every field on the wire is decoded with:
// little-endian throughout, no alignment padding.
var wireEngine = endian.GetLittleEndianEngine()

// decodeFields turns the on-wire body of a non-FMT record into an ordered
// list of Fields, applying the scale-factor and opaque-field rules on top
// of the plain codec decode.
func decodeFields(d format.Descriptor, body []byte, codecs *format.CodecTable, cfg *config.Config) ([]Field, error) {
	fields := make([]Field, 0, len(d.FieldNames))
	off := 0

	for i, ch := range d.FormatString {
		name := d.FieldNames[i]

		c, ok := codecs.Lookup(byte(ch))
		if !ok {
			return nil, errs.ErrDecodeError
		}
		if off+c.Size > len(body) {
			return nil, errs.ErrDecodeError
		}
		raw := body[off : off+c.Size]
		off += c.Size

		v, err := decodeOne(raw, byte(ch), name, c, cfg)
		if err != nil {
			return nil, err
		}

		fields = append(fields, Field{Name: name, Value: v})
	}

	return fields, nil
}

func decodeOne(raw []byte, ch byte, name string, c format.Codec, cfg *config.Config) (Value, error) {
	if _, opaque := cfg.BytesFields[name]; opaque {
		cp := make([]byte, len(raw))
		copy(cp, raw)

		return bytesValue(cp), nil
	}

	if ch == cfg.LatLonFormat {
		raw32 := int32(wireEngine.Uint32(raw))
		return floatValue(float64(raw32) / 1e7), nil
	}

	if _, scaled := cfg.ScaleFactorFields[ch]; scaled {
		n, signed, err := decodeRawInt(raw, c.Kind)
		if err != nil {
			return Value{}, err
		}
		if signed {
			return floatValue(float64(n) / 100), nil
		}

		return floatValue(float64(uint64(n)) / 100), nil
	}

	return decodePlain(raw, c)
}

// decodeRawInt widens a fixed-width integer codec's raw bytes into an int64
// (reported alongside whether the source kind was signed).
func decodeRawInt(raw []byte, kind format.Kind) (int64, bool, error) {
	switch kind {
	case format.KindInt8:
		return int64(int8(raw[0])), true, nil
	case format.KindUint8:
		return int64(raw[0]), false, nil
	case format.KindInt16:
		return int64(int16(wireEngine.Uint16(raw))), true, nil
	case format.KindUint16:
		return int64(wireEngine.Uint16(raw)), false, nil
	case format.KindInt32:
		return int64(int32(wireEngine.Uint32(raw))), true, nil
	case format.KindUint32:
		return int64(wireEngine.Uint32(raw)), false, nil
	case format.KindInt64:
		return int64(wireEngine.Uint64(raw)), true, nil
	case format.KindUint64:
		return int64(wireEngine.Uint64(raw)), false, nil
	default:
		return 0, false, errs.ErrDecodeError
	}
}

func decodePlain(raw []byte, c format.Codec) (Value, error) {
	switch c.Kind {
	case format.KindInt8:
		return intValue(int64(int8(raw[0]))), nil
	case format.KindUint8:
		return uintValue(uint64(raw[0])), nil
	case format.KindInt16:
		return intValue(int64(int16(wireEngine.Uint16(raw)))), nil
	case format.KindUint16:
		return uintValue(uint64(wireEngine.Uint16(raw))), nil
	case format.KindInt32:
		return intValue(int64(int32(wireEngine.Uint32(raw)))), nil
	case format.KindUint32:
		return uintValue(uint64(wireEngine.Uint32(raw))), nil
	case format.KindInt64:
		return intValue(int64(wireEngine.Uint64(raw))), nil
	case format.KindUint64:
		return uintValue(wireEngine.Uint64(raw)), nil
	case format.KindFloat32:
		return floatValue(float64(math.Float32frombits(wireEngine.Uint32(raw)))), nil
	case format.KindFloat64:
		return floatValue(math.Float64frombits(wireEngine.Uint64(raw))), nil
	case format.KindFixedASCII:
		s, err := trimmedASCIIValue(raw)
		if err != nil {
			return Value{}, errs.ErrDecodeError
		}

		return stringValue(s), nil
	case format.KindOpaque:
		cp := make([]byte, len(raw))
		copy(cp, raw)

		return bytesValue(cp), nil
	default:
		return Value{}, errs.ErrDecodeError
	}
}

func trimmedASCIIValue(raw []byte) (string, error) {
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}

	for _, b := range raw[:end] {
		if b > 0x7f {
			return "", errs.ErrDecodeError
		}
	}

	return string(raw[:end]), nil
}
