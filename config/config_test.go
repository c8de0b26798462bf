package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, [2]byte{0xa3, 0x95}, cfg.MsgHeader)
	require.EqualValues(t, 128, cfg.FormatMsgType)
	require.Equal(t, 89, cfg.FormatMsgLength)
	require.Len(t, cfg.FMTStruct, 5)

	total := 0
	for _, spec := range cfg.FMTStruct {
		total += spec.Size
	}
	require.Equal(t, cfg.FormatMsgLength-3, total)

	_, hasC := cfg.ScaleFactorFields['c']
	require.True(t, hasC)
	require.Equal(t, byte('L'), cfg.LatLonFormat)

	_, hasData := cfg.BytesFields["Data"]
	require.True(t, hasData)
}

func TestLoadOverridesSelectively(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mavbin.ini")
	doc := `
msg_header = a4 96
format_msg_type = 200
scale_factor_fields = c,e
bytes_fields = Blob

[format_mapping]
b = i8
f = f32
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, [2]byte{0xa4, 0x96}, cfg.MsgHeader)
	require.EqualValues(t, 200, cfg.FormatMsgType)
	// Untouched keys keep their defaults.
	require.Equal(t, 89, cfg.FormatMsgLength)

	_, hasC := cfg.ScaleFactorFields['c']
	_, hasC2 := cfg.ScaleFactorFields['C']
	require.True(t, hasC)
	require.False(t, hasC2, "scale_factor_fields should be replaced, not merged")

	require.Len(t, cfg.FormatMapping, 2)
	require.Equal(t, "i8", cfg.FormatMapping['b'])
}

func TestLoadRejectsBadMsgHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.ini")
	require.NoError(t, os.WriteFile(path, []byte("msg_header = zz\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.ini"))
	require.Error(t, err)
}
