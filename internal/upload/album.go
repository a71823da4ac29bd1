package upload

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"

	"insta-uploader/internal/media"
	"insta-uploader/internal/request"
	"insta-uploader/internal/wire"
)

// Album children below this size are rejected by the server, so zero
// dimensions are normalized before the finalize payload is built.
const fallbackDimension = 640

// albumChild is one finalized entry of the children payload. Photos and
// videos serialize differently; keeping them behind one variant in a
// single slice preserves submission order by construction.
type albumChild interface {
	payload() map[string]any
}

type photoChild struct {
	uploadID string
}

func (p photoChild) payload() map[string]any {
	return map[string]any{
		"upload_id":       p.uploadID,
		"caption":         "",
		"timezone_offset": "0",
		"source_type":     "4",
	}
}

type videoChild struct {
	uploadID string
	width    int
	height   int
	length   float64
	device   map[string]any
}

func (v videoChild) payload() map[string]any {
	// The sidecar endpoint takes these sub-documents as serialized JSON
	// strings, not nested objects.
	extra, _ := json.Marshal(map[string]any{
		"source_width":  v.width,
		"source_height": v.height,
	})
	clips, _ := json.Marshal([]map[string]any{{
		"length":          v.length,
		"creation_date":   time.Now().Format("2006-01-02T15:04:05-0700"),
		"source_type":     "3",
		"camera_position": "back",
	}})
	dev, _ := json.Marshal(v.device)

	return map[string]any{
		"upload_id":          v.uploadID,
		"caption":            "",
		"timestamp":          strconv.FormatInt(time.Now().Unix(), 10),
		"extra":              string(extra),
		"clips":              string(clips),
		"device":             string(dev),
		"length":             v.length,
		"poster_frame_index": 0,
		"audio_muted":        false,
		"filter_type":        "0",
		"video_result":       "deprecated",
	}
}

// UploadAlbum uploads the photos and videos as one album post. Children
// are finalized together in exactly the submitted order: photos first,
// then videos. Any child failure aborts before the finalize call; items
// already transferred stay orphaned on the server.
func (c *Client) UploadAlbum(ctx context.Context, photos, videos []*media.Asset, caption string) (*media.Media, error) {
	if len(photos)+len(videos) == 0 {
		return nil, &ValidationError{Field: "album", Reason: "no children"}
	}

	// Validate every child up front: a bad input is detectable locally,
	// and rejecting it after earlier transfers would only grow the
	// orphaned state a mid-album network failure already leaves behind.
	for _, p := range photos {
		if err := validatePhoto(p); err != nil {
			return nil, err
		}
	}
	for _, v := range videos {
		if err := validateVideo(v); err != nil {
			return nil, err
		}
	}

	children := make([]albumChild, 0, len(photos)+len(videos))

	for _, p := range photos {
		uploadID := newUploadID()
		if err := c.transferPhoto(ctx, p, uploadID, true); err != nil {
			return nil, err
		}
		children = append(children, photoChild{uploadID: uploadID})
	}

	for _, v := range videos {
		s := &videoSession{
			uploadID: newUploadID(),
			asset:    v,
			sidecar:  true,
		}
		if err := c.runVideo(ctx, s); err != nil {
			return nil, err
		}
		width, height := normalizeDimensions(v.Width, v.Height)
		length := v.Duration
		if length <= 0 {
			length = clipLength
		}
		children = append(children, videoChild{
			uploadID: s.uploadID,
			width:    width,
			height:   height,
			length:   length,
			device:   c.device.Payload(),
		})
	}

	return c.configureAlbum(ctx, children, caption)
}

func (c *Client) configureAlbum(ctx context.Context, children []albumChild, caption string) (*media.Media, error) {
	sidecarID := newUploadID()
	fields := map[string]any{
		"caption":           caption,
		"client_sidecar_id": sidecarID,
		"children_metadata": lo.Map(children, func(ch albumChild, _ int) map[string]any {
			return ch.payload()
		}),
		"device":     c.device.Payload(),
		"_csrftoken": c.csrfToken,
		"_uid":       c.userID,
		"_uuid":      c.device.GUID,
	}

	req, err := c.builder.Signed(ctx, http.MethodPost, request.EndpointConfigureSidecar, fields)
	if err != nil {
		return nil, err
	}
	status, body, err := c.transport.Send(req)
	if err != nil {
		return nil, err
	}
	if !statusSuccess(status) {
		return nil, &TransportError{Endpoint: request.EndpointConfigureSidecar, Status: status, Body: body}
	}

	resp, err := wire.Decode[wire.AlbumResponse](body)
	if err != nil {
		return nil, &DecodeError{Endpoint: request.EndpointConfigureSidecar, Err: err}
	}

	c.log.Debug().Str("sidecar_id", sidecarID).Int("children", len(children)).Msg("album configured")
	m := media.FromWire(resp.Media)
	return &m, nil
}

// normalizeDimensions substitutes the fallback when either dimension is
// missing. The caller's asset is left untouched.
func normalizeDimensions(width, height int) (int, int) {
	if width <= 0 || height <= 0 {
		return fallbackDimension, fallbackDimension
	}
	return width, height
}
