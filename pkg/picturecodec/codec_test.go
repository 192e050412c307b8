package picturecodec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R'}

func TestRoundTripIsByteIdentical(t *testing.T) {
	t.Parallel()

	data := make([]byte, 0, 1024)
	for i := 0; i < 1024; i++ {
		data = append(data, byte(i*31))
	}

	got, err := Decode(Encode(data))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestDecodeDataURL(t *testing.T) {
	t.Parallel()

	got, err := Decode("data:image/png;base64," + Encode(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, got)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Decode("not base64 !!!")
	assert.Error(t, err)

	_, err = Decode("data:image/png;base64")
	assert.Error(t, err)
}

func TestEncodeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seed.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	s, err := EncodeFile(path)
	require.NoError(t, err)

	got, err := Decode(s)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, got)
	assert.Equal(t, "image/png", ContentType(got))
}

func TestEncodeFileMissing(t *testing.T) {
	t.Parallel()

	_, err := EncodeFile(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}

func TestEncodeFileRejectsEmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.jpg")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	s, err := EncodeFile(path)
	require.ErrorIs(t, err, ErrEmptyFile)
	assert.Empty(t, s)
}
