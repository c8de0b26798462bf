package cache

import (
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"

	"mavbin/config"
	"mavbin/format"
	"mavbin/internal/hash"
	"mavbin/internal/pool"
)

// entryMagic tags a cache file so a foreign or stale file is rejected
// outright rather than partially parsed.
const entryMagic = "MBFC"

const entryVersion = 1

// Store reads and writes prescanned format.Table entries to disk, keyed by
// the source file's path, size and modification time. Any failure to
// validate or decode an entry is reported as a cache miss (ok == false),
// never as an error — the cache is strictly an optimization.
type Store struct {
	codec Codec
}

// NewStore creates a Store using the given CodecType for on-disk compression.
func NewStore(t CodecType) (*Store, error) {
	c, err := GetCodec(t)
	if err != nil {
		return nil, err
	}

	return &Store{codec: c}, nil
}

// Load reads the cache entry at cachePath and, if it matches sourcePath's
// current size and modification time, returns a format.Table seeded from
// it. ok is false on any miss: file absent, key mismatch, corrupt entry, or
// codec mismatch.
func (s *Store) Load(cachePath string, sourceSize int64, sourceModUnixNano int64, sourcePath string, cfg *config.Config) (table *format.Table, ok bool) {
	raw, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}

	if len(raw) < len(entryMagic)+1+8+8 {
		return nil, false
	}
	if string(raw[:len(entryMagic)]) != entryMagic {
		return nil, false
	}
	off := len(entryMagic)

	version := raw[off]
	off++
	if version != entryVersion {
		return nil, false
	}

	key := binary.LittleEndian.Uint64(raw[off:])
	off += 8
	wantKey := hash.CacheKey(sourcePath, sourceSize, sourceModUnixNano)
	if key != wantKey {
		return nil, false
	}

	payloadLen := binary.LittleEndian.Uint64(raw[off:])
	off += 8
	if uint64(len(raw)-off) != payloadLen {
		return nil, false
	}

	decompressed, err := s.codec.Decompress(raw[off:])
	if err != nil {
		return nil, false
	}

	t, err := format.Bootstrap(cfg)
	if err != nil {
		return nil, false
	}

	if err := decodeEntries(decompressed, t); err != nil {
		return nil, false
	}

	return t, true
}

// Save persists table's entries to cachePath, keyed for sourcePath at its
// current size and modification time. Save failures are the caller's to
// decide how to handle; they never invalidate a prescan that already
// succeeded.
func (s *Store) Save(cachePath string, table *format.Table, sourceSize int64, sourceModUnixNano int64, sourcePath string) error {
	payload := encodeEntries(table.Entries())

	compressed, err := s.codec.Compress(payload)
	if err != nil {
		return fmt.Errorf("cache: compressing entry: %w", err)
	}

	bb := pool.GetCacheBuffer()
	defer pool.PutCacheBuffer(bb)

	bb.Write([]byte(entryMagic))
	bb.Write([]byte{entryVersion})

	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], hash.CacheKey(sourcePath, sourceSize, sourceModUnixNano))
	bb.Write(lenBuf[:])

	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(compressed)))
	bb.Write(lenBuf[:])

	bb.Write(compressed)

	if err := os.WriteFile(cachePath, bb.Bytes(), 0o644); err != nil {
		return fmt.Errorf("cache: writing %s: %w", cachePath, err)
	}

	return nil
}

// encodeEntries serializes descriptors as newline-separated records of
// typeID,length,name,formatString,joined-field-names. This is an internal
// on-disk format private to the cache, not the FMT wire format.
func encodeEntries(entries []format.Descriptor) []byte {
	var sb strings.Builder
	for _, d := range entries {
		sb.WriteString(strconv.Itoa(int(d.TypeID)))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(d.Length))
		sb.WriteByte(',')
		sb.WriteString(d.Name)
		sb.WriteByte(',')
		sb.WriteString(d.FormatString)
		sb.WriteByte(',')
		sb.WriteString(strings.Join(d.FieldNames, ";"))
		sb.WriteByte('\n')
	}

	return []byte(sb.String())
}

func decodeEntries(raw []byte, t *format.Table) error {
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	for _, line := range lines {
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, ",", 5)
		if len(parts) != 5 {
			return fmt.Errorf("cache: malformed entry line %q", line)
		}

		typeID, err := strconv.Atoi(parts[0])
		if err != nil {
			return err
		}
		length, err := strconv.Atoi(parts[1])
		if err != nil {
			return err
		}

		var fieldNames []string
		if parts[4] != "" {
			fieldNames = strings.Split(parts[4], ";")
		}

		t.Install(format.Descriptor{
			TypeID:       uint8(typeID),
			Length:       length,
			Name:         parts[2],
			FormatString: parts[3],
			FieldNames:   fieldNames,
		})
	}

	return nil
}
