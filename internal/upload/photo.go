package upload

import (
	"context"
	"net/http"
	"net/textproto"

	"insta-uploader/internal/media"
	"insta-uploader/internal/request"
	"insta-uploader/internal/wire"
)

// UploadPhoto uploads a single photo and publishes it with the given
// caption: binary transfer, then one configure call.
func (c *Client) UploadPhoto(ctx context.Context, asset *media.Asset, caption string) (*media.Media, error) {
	if err := validatePhoto(asset); err != nil {
		return nil, err
	}

	uploadID := newUploadID()
	if err := c.transferPhoto(ctx, asset, uploadID, false); err != nil {
		return nil, err
	}
	return c.configurePhoto(ctx, asset, uploadID, caption)
}

// transferPhoto performs the multipart binary transfer for a photo or a
// video thumbnail. sidecar marks the item as an album child.
func (c *Client) transferPhoto(ctx context.Context, asset *media.Asset, uploadID string, sidecar bool) error {
	data, err := asset.Bytes()
	if err != nil {
		return err
	}

	parts := []request.Part{
		{Name: "upload_id", Body: []byte(uploadID)},
		{Name: "_uuid", Body: []byte(c.device.GUID)},
		{Name: "_csrftoken", Body: []byte(c.csrfToken)},
		{Name: "image_compression", Body: []byte(compressionJSON)},
	}
	if sidecar {
		parts = append(parts, request.Part{Name: "is_sidecar", Body: []byte("1")})
	}
	parts = append(parts, request.Part{
		Name:     "photo",
		Body:     data,
		Filename: asset.Name(uploadID, ".jpg"),
		Header: textproto.MIMEHeader{
			"Content-Type":              {"application/octet-stream"},
			"Content-Transfer-Encoding": {"binary"},
		},
	})

	req, err := c.builder.Multipart(ctx, http.MethodPost, request.EndpointUploadPhoto, parts)
	if err != nil {
		return err
	}
	status, body, err := c.transport.Send(req)
	if err != nil {
		return err
	}
	if !statusSuccess(status) {
		return &TransportError{Endpoint: request.EndpointUploadPhoto, Status: status, Body: body}
	}

	c.log.Debug().Str("upload_id", uploadID).Bool("sidecar", sidecar).Msg("photo transferred")
	return nil
}

func (c *Client) configurePhoto(ctx context.Context, asset *media.Asset, uploadID, caption string) (*media.Media, error) {
	fields := map[string]any{
		"caption":      caption,
		"upload_id":    uploadID,
		"source_type":  "4",
		"media_folder": "Instagram",
		"edits": map[string]any{
			// Default crop: full size, centered, no zoom.
			"crop_original_size": []int{asset.Width, asset.Height},
			"crop_center":        []float64{0.0, 0.0},
			"crop_zoom":          1.0,
		},
		"extra": map[string]any{
			"source_width":  asset.Width,
			"source_height": asset.Height,
		},
		"device":     c.device.Payload(),
		"_csrftoken": c.csrfToken,
		"_uid":       c.userID,
		"_uuid":      c.device.GUID,
	}

	req, err := c.builder.Signed(ctx, http.MethodPost, request.EndpointConfigure, fields)
	if err != nil {
		return nil, err
	}
	status, body, err := c.transport.Send(req)
	if err != nil {
		return nil, err
	}
	if !statusSuccess(status) {
		return nil, &TransportError{Endpoint: request.EndpointConfigure, Status: status, Body: body}
	}

	resp, err := wire.Decode[wire.SingleMediaResponse](body)
	if err != nil {
		return nil, &DecodeError{Endpoint: request.EndpointConfigure, Err: err}
	}

	c.log.Debug().Str("upload_id", uploadID).Str("media_id", resp.Media.ID).Msg("photo configured")
	m := media.FromWire(resp.Media)
	return &m, nil
}

func validatePhoto(asset *media.Asset) error {
	if asset == nil {
		return &ValidationError{Field: "photo", Reason: "asset is nil"}
	}
	if len(asset.Data) == 0 && asset.Path == "" {
		return &ValidationError{Field: "photo", Reason: "asset has neither data nor path"}
	}
	return nil
}
