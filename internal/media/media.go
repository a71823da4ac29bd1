package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/samber/lo"

	"insta-uploader/internal/wire"
)

// Type is the platform's media type code.
type Type int

const (
	TypePhoto Type = 1
	TypeVideo Type = 2
	TypeAlbum Type = 8
)

// Media is the caller-facing result of a finished upload. It is built only
// from a successfully decoded finalize response, never partially.
type Media struct {
	ID       string
	Code     string
	Type     Type
	Width    int
	Height   int
	Caption  string
	Children []Media
}

// FromWire converts a decoded wire item into the domain object. Album
// children keep the server's rendering order. Conversion is pure: feeding
// an equivalent wire item yields an identical Media.
func FromWire(it wire.Item) Media {
	m := Media{
		ID:     it.ID,
		Code:   it.Code,
		Type:   Type(it.MediaType),
		Width:  it.OriginalWidth,
		Height: it.OriginalHeight,
	}
	if m.ID == "" && it.PK != 0 {
		m.ID = strconv.FormatInt(it.PK, 10)
	}
	if it.Caption != nil {
		m.Caption = it.Caption.Text
	}
	if len(it.CarouselMedia) > 0 {
		m.Children = lo.Map(it.CarouselMedia, func(child wire.Item, _ int) Media {
			return FromWire(child)
		})
	}
	return m
}

// Asset is a photo or video supplied by the caller. Exactly one of Data
// and Path must be set. The asset is never mutated by an upload.
type Asset struct {
	Data   []byte
	Path   string
	Width  int
	Height int

	// Duration in seconds, video only.
	Duration float64
	// Thumbnail pairs a cover image with a video asset.
	Thumbnail *Asset
}

// Bytes resolves the asset to its binary payload without touching the
// locator.
func (a *Asset) Bytes() ([]byte, error) {
	if len(a.Data) > 0 {
		return a.Data, nil
	}
	if a.Path == "" {
		return nil, fmt.Errorf("asset has neither data nor path")
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset file: %w", err)
	}
	return data, nil
}

// Name derives the filename sent with the binary: the locator's basename
// when the asset came from disk, otherwise a pending-media name keyed by
// the upload id.
func (a *Asset) Name(uploadID, ext string) string {
	if a.Path != "" {
		return filepath.Base(a.Path)
	}
	return "pending_media_" + uploadID + ext
}
