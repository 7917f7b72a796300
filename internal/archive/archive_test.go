package archive

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgbarn/pgn-tree-go/internal/testutil"
)

func writeZstd(t *testing.T, path string, data []byte) {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write(data)
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func writeBzip2(t *testing.T, path string, data []byte) {
	t.Helper()
	var buf bytes.Buffer
	enc, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.BestCompression})
	require.NoError(t, err)
	_, err = enc.Write(data)
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func TestDetect(t *testing.T) {
	tests := map[string]Compression{
		"games.pgn":      None,
		"games.pgn.zst":  Zstd,
		"games.PGN.ZSTD": Zstd,
		"games.pgn.bz2":  Bzip2,
		"games":          None,
	}
	for path, want := range tests {
		assert.Equal(t, want, Detect(path), path)
	}
	assert.Equal(t, "zstd", Zstd.String())
	assert.Equal(t, "bzip2", Bzip2.String())
	assert.Equal(t, "none", None.String())
}

func TestOpen_RoundTrip(t *testing.T) {
	data := []byte(testutil.SamplePGN)
	dir := t.TempDir()

	tests := []struct {
		name  string
		write func(*testing.T, string, []byte)
		want  Compression
	}{
		{"games.pgn", func(t *testing.T, p string, d []byte) { require.NoError(t, os.WriteFile(p, d, 0o600)) }, None},
		{"games.pgn.zst", writeZstd, Zstd},
		{"games.pgn.bz2", writeBzip2, Bzip2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			tt.write(t, path, data)

			f, err := Open(path)
			require.NoError(t, err)
			defer f.Close()

			assert.Equal(t, tt.want, f.Compression)
			assert.Positive(t, f.Size)

			got, err := io.ReadAll(f)
			require.NoError(t, err)
			assert.Equal(t, testutil.SamplePGN, string(got))

			_, seekable := f.Seekable()
			assert.Equal(t, tt.want == None, seekable)
		})
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pgn"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_Corrupt(t *testing.T) {
	path := testutil.WritePGN(t, "broken.pgn.bz2", "this is not bzip2 data")

	f, err := Open(path)
	if err != nil {
		return // rejected up front
	}
	defer f.Close()
	_, err = io.ReadAll(f)
	assert.Error(t, err)
}

func TestNewReader_Plain(t *testing.T) {
	r, closer, err := NewReader(bytes.NewReader([]byte("1. e4 *")), None)
	require.NoError(t, err)
	assert.Nil(t, closer)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "1. e4 *", string(got))
}
