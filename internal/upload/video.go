package upload

import (
	"context"
	"fmt"
	"net/http"
	"net/textproto"
	"time"

	"insta-uploader/internal/media"
	"insta-uploader/internal/request"
	"insta-uploader/internal/wire"
)

// The video sequence is a strict state machine: every transition is one
// network round trip, any failure is terminal for the attempt, and the
// server keeps whatever state earlier transitions created.
type videoState int

const (
	statePending videoState = iota
	stateCreated
	stateTransferred
	stateThumbnailAttached
	stateConfigured
	stateExposed
	stateFailed
)

// videoSession is the ephemeral per-attempt state. It never outlives the
// call that created it.
type videoSession struct {
	uploadID string
	asset    *media.Asset
	caption  string
	sidecar  bool
	// finalize is false for album children, which stop after the
	// thumbnail and get configured once by the album call.
	finalize bool

	state  videoState
	target wire.UploadTarget
	result *media.Media
}

// UploadVideo uploads a single video plus its paired thumbnail and
// publishes it with the given caption.
func (c *Client) UploadVideo(ctx context.Context, asset *media.Asset, caption string) (*media.Media, error) {
	if err := validateVideo(asset); err != nil {
		return nil, err
	}

	s := &videoSession{
		uploadID: newUploadID(),
		asset:    asset,
		caption:  caption,
		finalize: true,
	}
	if err := c.runVideo(ctx, s); err != nil {
		return nil, err
	}
	return s.result, nil
}

// runVideo drives the session until Exposed (or ThumbnailAttached for
// album children) or Failed.
func (c *Client) runVideo(ctx context.Context, s *videoSession) error {
	for {
		var err error
		switch s.state {
		case statePending:
			err = c.createVideoJob(ctx, s)
		case stateCreated:
			err = c.transferVideo(ctx, s)
		case stateTransferred:
			err = c.attachThumbnail(ctx, s)
		case stateThumbnailAttached:
			if !s.finalize {
				return nil
			}
			err = c.configureVideo(ctx, s)
		case stateConfigured:
			err = c.exposeVideo(ctx, s)
		case stateExposed:
			return nil
		}
		if err != nil {
			s.state = stateFailed
			c.log.Warn().Str("upload_id", s.uploadID).Err(err).Msg("video upload failed")
			return err
		}
	}
}

// createVideoJob asks the server for an upload job. Without a decodable
// job response there is nowhere to send the binary, so a decode failure
// here is fatal before any transfer is attempted.
func (c *Client) createVideoJob(ctx context.Context, s *videoSession) error {
	parts := []request.Part{
		{Name: "upload_id", Body: []byte(s.uploadID)},
		{Name: "_uuid", Body: []byte(c.device.GUID)},
		{Name: "_csrftoken", Body: []byte(c.csrfToken)},
		{Name: "image_compression", Body: []byte(compressionJSON)},
		{Name: "media_type", Body: []byte("2")},
	}
	if s.sidecar {
		parts = append(parts, request.Part{Name: "is_sidecar", Body: []byte("1")})
	}

	req, err := c.builder.Multipart(ctx, http.MethodPost, request.EndpointUploadVideo, parts)
	if err != nil {
		return err
	}
	status, body, err := c.transport.Send(req)
	if err != nil {
		return err
	}
	if !statusSuccess(status) {
		return &TransportError{Endpoint: request.EndpointUploadVideo, Status: status, Body: body}
	}

	job, err := wire.Decode[wire.UploadJobResponse](body)
	if err != nil {
		return &DecodeError{Endpoint: request.EndpointUploadVideo, Err: err}
	}
	if len(job.VideoUploadURLs) == 0 {
		return &ProtocolError{Step: "create job", Reason: "job response has no upload urls"}
	}

	s.target = job.VideoUploadURLs[0]
	s.state = stateCreated
	c.log.Debug().Str("upload_id", s.uploadID).Str("job", s.target.Job).Msg("upload job created")
	return nil
}

// transferVideo sends the binary to the job's upload URL. The response
// body at this step has never carried an authoritative signal and is not
// decoded; configure/expose is where the server actually rejects a bad
// upload. The HTTP status is still checked.
func (c *Client) transferVideo(ctx context.Context, s *videoSession) error {
	data, err := s.asset.Bytes()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return &ValidationError{Field: "video", Reason: "empty payload"}
	}

	header := http.Header{}
	header.Set("Session-ID", s.uploadID)
	header.Set("job", s.target.Job)
	header.Set("Host", request.UploadHost)
	header.Set("Content-Type", "application/octet-stream")
	header.Set("Content-Transfer-Encoding", "binary")
	header.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, s.asset.Name(s.uploadID, ".mp4")))

	req, err := c.builder.Raw(ctx, http.MethodPost, s.target.URL, data, header)
	if err != nil {
		return err
	}
	status, body, err := c.transport.Send(req)
	if err != nil {
		return err
	}
	if !statusSuccess(status) {
		return &TransportError{Endpoint: s.target.URL, Status: status, Body: body}
	}

	s.state = stateTransferred
	c.log.Debug().Str("upload_id", s.uploadID).Int("bytes", len(data)).Msg("video transferred")
	return nil
}

// attachThumbnail uploads the paired cover image under the same upload id.
// A video without a thumbnail is never finalized, so anything but an ok
// ack aborts the whole sequence.
func (c *Client) attachThumbnail(ctx context.Context, s *videoSession) error {
	thumb := s.asset.Thumbnail
	data, err := thumb.Bytes()
	if err != nil {
		return err
	}

	parts := []request.Part{
		{Name: "upload_id", Body: []byte(s.uploadID)},
		{Name: "_uuid", Body: []byte(c.device.GUID)},
		{Name: "_csrftoken", Body: []byte(c.csrfToken)},
		{Name: "image_compression", Body: []byte(compressionJSON)},
	}
	if s.sidecar {
		parts = append(parts, request.Part{Name: "is_sidecar", Body: []byte("1")})
	}
	parts = append(parts, request.Part{
		Name:     "photo",
		Body:     data,
		Filename: thumb.Name(s.uploadID, ".jpg"),
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

	ack, err := wire.Decode[wire.AckResponse](body)
	if err != nil {
		return &DecodeError{Endpoint: request.EndpointUploadPhoto, Err: err}
	}
	if !wire.StatusOK(ack.Status) {
		return &ProtocolError{Step: "thumbnail", Reason: fmt.Sprintf("ack status %q", ack.Status)}
	}

	s.state = stateThumbnailAttached
	c.log.Debug().Str("upload_id", s.uploadID).Msg("thumbnail attached")
	return nil
}

func (c *Client) configureVideo(ctx context.Context, s *videoSession) error {
	fields := map[string]any{
		"caption":            s.caption,
		"upload_id":          s.uploadID,
		"source_type":        "3",
		"poster_frame_index": 0,
		"length":             clipLength,
		"audio_muted":        false,
		"filter_type":        "0",
		"video_result":       "deprecated",
		"clips": []map[string]any{{
			"length":          clipLength,
			"creation_date":   time.Now().Format("2006-01-02T15:04:05-0700"),
			"source_type":     "3",
			"camera_position": "back",
		}},
		"extra": map[string]any{
			"source_width":  s.asset.Width,
			"source_height": s.asset.Height,
		},
		"device":     c.device.Payload(),
		"_csrftoken": c.csrfToken,
		"_uid":       c.userID,
		"_uuid":      c.device.GUID,
	}

	req, err := c.builder.Signed(ctx, http.MethodPost, request.EndpointConfigureVideo, fields)
	if err != nil {
		return err
	}
	status, body, err := c.transport.Send(req)
	if err != nil {
		return err
	}
	if !statusSuccess(status) {
		return &TransportError{Endpoint: request.EndpointConfigureVideo, Status: status, Body: body}
	}

	s.state = stateConfigured
	c.log.Debug().Str("upload_id", s.uploadID).Msg("video configured")
	return nil
}

// exposeVideo is the publish half of the platform's create-then-publish
// finalize. Its response carries the authoritative media item.
func (c *Client) exposeVideo(ctx context.Context, s *videoSession) error {
	fields := map[string]any{
		"experiment": "ig_android_profile_contextual_feed",
		"id":         c.userID,
		"upload_id":  s.uploadID,
		"_csrftoken": c.csrfToken,
		"_uid":       c.userID,
		"_uuid":      c.device.GUID,
	}

	req, err := c.builder.Signed(ctx, http.MethodPost, request.EndpointConfigure, fields)
	if err != nil {
		return err
	}
	status, body, err := c.transport.Send(req)
	if err != nil {
		return err
	}
	if !statusSuccess(status) {
		return &TransportError{Endpoint: request.EndpointConfigure, Status: status, Body: body}
	}

	resp, err := wire.Decode[wire.SingleMediaResponse](body)
	if err != nil {
		return &DecodeError{Endpoint: request.EndpointConfigure, Err: err}
	}
	if !wire.StatusOK(resp.Status) {
		return &ProtocolError{Step: "expose", Reason: fmt.Sprintf("status %q", resp.Status)}
	}

	m := media.FromWire(resp.Media)
	s.result = &m
	s.state = stateExposed
	c.log.Debug().Str("upload_id", s.uploadID).Str("media_id", m.ID).Msg("video exposed")
	return nil
}

func validateVideo(asset *media.Asset) error {
	if asset == nil {
		return &ValidationError{Field: "video", Reason: "asset is nil"}
	}
	if len(asset.Data) == 0 && asset.Path == "" {
		return &ValidationError{Field: "video", Reason: "asset has neither data nor path"}
	}
	if asset.Thumbnail == nil {
		return &ValidationError{Field: "video", Reason: "missing thumbnail"}
	}
	return nil
}
