package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mavbin/config"
	"mavbin/format"
)

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	cfg := config.Default()
	table, err := format.Bootstrap(cfg)
	require.NoError(t, err)

	body := make([]byte, cfg.FormatMsgLength-3)
	body[0] = 4
	body[1] = 11
	copy(body[2:6], "GPS")
	copy(body[6:22], "Lf")
	copy(body[22:86], "Lat,Alt")
	require.NoError(t, table.Register(body))

	store, err := NewStore(CodecZstd)
	require.NoError(t, err)

	cachePath := filepath.Join(t.TempDir(), "log.bin.fmtcache")
	require.NoError(t, store.Save(cachePath, table, 12345, 67890, "/tmp/log.bin"))

	restored, ok := store.Load(cachePath, 12345, 67890, "/tmp/log.bin", cfg)
	require.True(t, ok)

	d, ok := restored.Lookup(4)
	require.True(t, ok)
	require.Equal(t, "GPS", d.Name)
	require.Equal(t, []string{"Lat", "Alt"}, d.FieldNames)
}

func TestStoreLoadMissesOnKeyMismatch(t *testing.T) {
	cfg := config.Default()
	table, err := format.Bootstrap(cfg)
	require.NoError(t, err)

	store, err := NewStore(CodecNone)
	require.NoError(t, err)

	cachePath := filepath.Join(t.TempDir(), "log.bin.fmtcache")
	require.NoError(t, store.Save(cachePath, table, 100, 200, "/tmp/log.bin"))

	_, ok := store.Load(cachePath, 999, 200, "/tmp/log.bin", cfg)
	require.False(t, ok)
}

func TestStoreLoadMissesOnMissingFile(t *testing.T) {
	cfg := config.Default()
	store, err := NewStore(CodecLZ4)
	require.NoError(t, err)

	_, ok := store.Load(filepath.Join(t.TempDir(), "missing.fmtcache"), 1, 2, "/tmp/x", cfg)
	require.False(t, ok)
}
