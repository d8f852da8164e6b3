package exif

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatShutter(t *testing.T) {
	assert.Equal(t, "1/250 s", formatShutter(big.NewRat(1, 250)))
	assert.Equal(t, "2 s", formatShutter(big.NewRat(2, 1)))
	assert.Equal(t, "1.5 s", formatShutter(big.NewRat(3, 2)))
}

func TestTrimFloat(t *testing.T) {
	assert.Equal(t, "23", trimFloat(23.0))
	assert.Equal(t, "23.5", trimFloat(23.5))
}

func TestMetadataWithoutExifKeepsFileFacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DSCF0001.JPG")
	require.NoError(t, os.WriteFile(path, []byte("not a jpeg"), 0o644))

	meta, err := Reader{}.Metadata(context.Background(), path)
	assert.Error(t, err)
	assert.Equal(t, "DSCF0001.JPG", meta.FileName)
	assert.Equal(t, int64(10), meta.FileSize)
	assert.Empty(t, meta.CameraMake)
}

func TestDecodeHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Reader{}.EmbeddedThumbnail(ctx, "/does/not/matter.JPG")
	assert.ErrorIs(t, err, context.Canceled)
}
