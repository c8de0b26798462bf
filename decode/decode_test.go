package decode

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mavbin/config"
	"mavbin/format"
	"mavbin/internal/view"
)

// builder assembles a synthetic .BIN byte stream for tests.
type builder struct {
	cfg *config.Config
	buf bytes.Buffer
}

func newBuilder(cfg *config.Config) *builder {
	return &builder{cfg: cfg}
}

func (b *builder) fmtRecord(typeID, length byte, name, formatStr, fieldNames string) *builder {
	b.buf.Write(b.cfg.MsgHeader[:])
	b.buf.WriteByte(b.cfg.FormatMsgType)

	body := make([]byte, b.cfg.FormatMsgLength-3)
	body[0] = typeID
	body[1] = length
	copy(body[2:6], name)
	copy(body[6:22], formatStr)
	copy(body[22:86], fieldNames)
	b.buf.Write(body)

	return b
}

func (b *builder) raw(data []byte) *builder {
	b.buf.Write(data)
	return b
}

func (b *builder) bytes() []byte {
	return b.buf.Bytes()
}

func openTemp(t *testing.T, data []byte) *view.View {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	v, err := view.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { v.Close() })

	return v
}

func TestEmptyFileYieldsNoMessages(t *testing.T) {
	cfg := config.Default()
	v := openTemp(t, nil)
	table, err := format.Bootstrap(cfg)
	require.NoError(t, err)

	s, err := NewScanner(v, 0, v.Size(), table, cfg)
	require.NoError(t, err)

	msgs, err := s.DecodeAll("")
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestSingleFMTAndInstance(t *testing.T) {
	cfg := config.Default()
	b := newBuilder(cfg).
		fmtRecord(4, 11, "GPS", "Lf", "Lat,Alt")

	instance := make([]byte, 0, 11)
	instance = append(instance, cfg.MsgHeader[:]...)
	instance = append(instance, 4)
	lat := make([]byte, 4)
	binary.LittleEndian.PutUint32(lat, uint32(int32(473977420))) // 47.397742 deg
	instance = append(instance, lat...)
	alt := make([]byte, 4)
	binary.LittleEndian.PutUint32(alt, math.Float32bits(100.5))
	instance = append(instance, alt...)
	b.raw(instance)

	v := openTemp(t, b.bytes())
	table, err := format.Bootstrap(cfg)
	require.NoError(t, err)

	s, err := NewScanner(v, 0, v.Size(), table, cfg)
	require.NoError(t, err)

	msgs, err := s.DecodeAll("")
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	m := msgs[0]
	require.Equal(t, "GPS", m.MessageType())

	latVal, ok := m.Field("Lat")
	require.True(t, ok)
	require.Equal(t, KindFloat64, latVal.Kind())
	require.InDelta(t, 47.397742, latVal.Float64(), 1e-6)

	altVal, ok := m.Field("Alt")
	require.True(t, ok)
	require.InDelta(t, 100.5, altVal.Float64(), 1e-5)
}

func TestPhantomSyncMarkerRejected(t *testing.T) {
	cfg := config.Default()
	b := newBuilder(cfg).fmtRecord(4, 7, "ATT", "f", "Roll")

	// A bogus record that starts with the sync marker and a known type id,
	// but is not followed by a sync marker at its declared end.
	bogus := make([]byte, 0)
	bogus = append(bogus, cfg.MsgHeader[:]...)
	bogus = append(bogus, 4)
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, math.Float32bits(1.0))
	bogus = append(bogus, payload...)
	// Put two non-marker bytes exactly where tail-sync is checked, so they
	// do NOT match MsgHeader - this is the "no phantom record" case.
	bogus = append(bogus, 0xff, 0xff)
	b.raw(bogus)

	// Now append a real, valid ATT record after the corrupted region so we
	// can confirm the scanner resyncs and still finds it.
	real := make([]byte, 0, 7)
	real = append(real, cfg.MsgHeader[:]...)
	real = append(real, 4)
	rollBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(rollBytes, math.Float32bits(12.5))
	real = append(real, rollBytes...)
	b.raw(real)

	v := openTemp(t, b.bytes())
	table, err := format.Bootstrap(cfg)
	require.NoError(t, err)

	s, err := NewScanner(v, 0, v.Size(), table, cfg)
	require.NoError(t, err)

	msgs, err := s.DecodeAll("")
	require.NoError(t, err)
	require.Len(t, msgs, 1, "the bogus record must not be emitted")
	require.InDelta(t, 12.5, func() float64 { v, _ := msgs[0].Field("Roll"); return v.Float64() }(), 1e-5)
	require.Greater(t, s.Stats().Resyncs, 0)
}

func TestTruncatedTail(t *testing.T) {
	cfg := config.Default()
	b := newBuilder(cfg).fmtRecord(4, 7, "ATT", "f", "Roll")

	full := make([]byte, 0, 7)
	full = append(full, cfg.MsgHeader[:]...)
	full = append(full, 4)
	rollBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(rollBytes, math.Float32bits(1.0))
	full = append(full, rollBytes...)
	b.raw(full)

	data := b.bytes()
	truncated := data[:len(data)-2]

	v := openTemp(t, truncated)
	table, err := format.Bootstrap(cfg)
	require.NoError(t, err)

	s, err := NewScanner(v, 0, v.Size(), table, cfg)
	require.NoError(t, err)

	msgs, err := s.DecodeAll("")
	require.NoError(t, err)
	require.Empty(t, msgs)
	require.True(t, s.Stats().TruncatedTail)
}

func TestDuplicateFMTIdempotent(t *testing.T) {
	cfg := config.Default()
	b := newBuilder(cfg).
		fmtRecord(4, 7, "ATT", "f", "Roll").
		fmtRecord(4, 7, "ATT", "f", "Roll")

	v := openTemp(t, b.bytes())
	table, err := format.Bootstrap(cfg)
	require.NoError(t, err)

	s, err := NewScanner(v, 0, v.Size(), table, cfg)
	require.NoError(t, err)

	msgs, err := s.DecodeAll("")
	require.NoError(t, err)
	require.Empty(t, msgs)

	d, ok := table.Lookup(4)
	require.True(t, ok)
	require.Equal(t, "ATT", d.Name)
}

func TestFilterCommutesWithDecode(t *testing.T) {
	cfg := config.Default()
	b := newBuilder(cfg).
		fmtRecord(4, 7, "ATT", "f", "Roll").
		fmtRecord(5, 7, "IMU", "f", "GyrX")

	att := append(append([]byte{}, cfg.MsgHeader[:]...), 4)
	rollBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(rollBytes, math.Float32bits(1.0))
	att = append(att, rollBytes...)

	imu := append(append([]byte{}, cfg.MsgHeader[:]...), 5)
	gyrBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(gyrBytes, math.Float32bits(2.0))
	imu = append(imu, gyrBytes...)

	b.raw(att).raw(imu).raw(att)

	v := openTemp(t, b.bytes())

	tableAll, err := format.Bootstrap(cfg)
	require.NoError(t, err)
	sAll, err := NewScanner(v, 0, v.Size(), tableAll, cfg)
	require.NoError(t, err)
	all, err := sAll.DecodeAll("")
	require.NoError(t, err)

	tableFiltered, err := format.Bootstrap(cfg)
	require.NoError(t, err)
	sFiltered, err := NewScanner(v, 0, v.Size(), tableFiltered, cfg)
	require.NoError(t, err)
	filtered, err := sFiltered.DecodeAll("ATT")
	require.NoError(t, err)

	var expected []Message
	for _, m := range all {
		if m.MessageType() == "ATT" {
			expected = append(expected, m)
		}
	}

	require.Equal(t, len(expected), len(filtered))
	for i := range expected {
		require.Equal(t, expected[i].MessageType(), filtered[i].MessageType())
	}
}

func TestScaleFactorFields(t *testing.T) {
	cfg := config.Default()
	b := newBuilder(cfg).fmtRecord(4, 5, "ATT", "c", "Roll")

	rec := append(append([]byte{}, cfg.MsgHeader[:]...), 4)
	v16 := make([]byte, 2)
	binary.LittleEndian.PutUint16(v16, uint16(int16(1234)))
	rec = append(rec, v16...)
	b.raw(rec)

	v := openTemp(t, b.bytes())
	table, err := format.Bootstrap(cfg)
	require.NoError(t, err)

	s, err := NewScanner(v, 0, v.Size(), table, cfg)
	require.NoError(t, err)

	msgs, err := s.DecodeAll("")
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	roll, ok := msgs[0].Field("Roll")
	require.True(t, ok)
	require.InDelta(t, 12.34, roll.Float64(), 1e-9)
}

func TestOpaqueBytesField(t *testing.T) {
	cfg := config.Default()
	b := newBuilder(cfg).fmtRecord(4, 7, "MSG", "n", "Data")

	rec := append(append([]byte{}, cfg.MsgHeader[:]...), 4)
	rec = append(rec, []byte("hi\x00\x00")...)
	b.raw(rec)

	v := openTemp(t, b.bytes())
	table, err := format.Bootstrap(cfg)
	require.NoError(t, err)

	s, err := NewScanner(v, 0, v.Size(), table, cfg)
	require.NoError(t, err)

	msgs, err := s.DecodeAll("")
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	data, ok := msgs[0].Field("Data")
	require.True(t, ok)
	require.Equal(t, KindBytes, data.Kind())
	require.Equal(t, []byte("hi\x00\x00"), data.Bytes())
}
