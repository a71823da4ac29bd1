package media_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insta-uploader/internal/media"
	"insta-uploader/internal/wire"
)

func albumItem() wire.Item {
	return wire.Item{
		ID:        "555_42",
		Code:      "AbCdEf",
		MediaType: 8,
		Caption:   &wire.Caption{Text: "holiday"},
		CarouselMedia: []wire.Item{
			{ID: "1", MediaType: 1, OriginalWidth: 1080, OriginalHeight: 1350},
			{ID: "2", MediaType: 2, OriginalWidth: 720, OriginalHeight: 1280},
		},
	}
}

func TestFromWireAlbum(t *testing.T) {
	t.Parallel()

	m := media.FromWire(albumItem())
	assert.Equal(t, "555_42", m.ID)
	assert.Equal(t, media.TypeAlbum, m.Type)
	assert.Equal(t, "holiday", m.Caption)
	require.Len(t, m.Children, 2)
	assert.Equal(t, media.TypePhoto, m.Children[0].Type)
	assert.Equal(t, media.TypeVideo, m.Children[1].Type)
	assert.Equal(t, 720, m.Children[1].Width)
}

func TestFromWireIsIdempotent(t *testing.T) {
	t.Parallel()

	// Equivalent wire items convert to field-for-field identical values.
	assert.Equal(t, media.FromWire(albumItem()), media.FromWire(albumItem()))
}

func TestFromWireFallsBackToPK(t *testing.T) {
	t.Parallel()

	m := media.FromWire(wire.Item{PK: 987654, MediaType: 1})
	assert.Equal(t, "987654", m.ID)
}

func TestAssetBytesFromMemory(t *testing.T) {
	t.Parallel()

	a := &media.Asset{Data: []byte("payload")}
	data, err := a.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestAssetBytesFromFileLeavesLocator(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("file-bytes"), 0o644))

	a := &media.Asset{Path: path}
	data, err := a.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "file-bytes", string(data))
	assert.Equal(t, path, a.Path)
	assert.Nil(t, a.Data)
}

func TestAssetBytesRequiresSource(t *testing.T) {
	t.Parallel()

	_, err := (&media.Asset{}).Bytes()
	require.Error(t, err)
}

func TestAssetName(t *testing.T) {
	t.Parallel()

	a := &media.Asset{Path: "/tmp/videos/clip.mp4"}
	assert.Equal(t, "clip.mp4", a.Name("123", ".mp4"))

	b := &media.Asset{Data: []byte("x")}
	assert.Equal(t, "pending_media_123.jpg", b.Name("123", ".jpg"))
}
