package upload_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"insta-uploader/internal/media"
	"insta-uploader/internal/upload"
)

func videoAsset() *media.Asset {
	return &media.Asset{
		Data:      []byte("mp4-bytes"),
		Width:     720,
		Height:    1280,
		Duration:  9.5,
		Thumbnail: &media.Asset{Data: []byte("thumb-bytes")},
	}
}

const jobResponse = `{"status":"ok","video_upload_urls":[` +
	`{"url":"https://upload.instagram.com/rupload_igvideo/abc","job":"job-token-1"},` +
	`{"url":"https://upload.instagram.com/rupload_igvideo/def","job":"job-token-2"}]}`

func TestUploadVideoSuccess(t *testing.T) {
	t.Parallel()

	stub := &stubDoer{responses: []stubResponse{
		{200, jobResponse},
		{200, "\x00binary ack, not json"}, // tolerated: body is never decoded here
		{200, `{"status":"ok"}`},
		{200, `{"status":"ok"}`},
		{200, `{"status":"OK","media":{"id":"999_4242","code":"VidCode","media_type":2,` +
			`"original_width":720,"original_height":1280,"caption":{"text":"clip"}}}`},
	}}
	client := newTestClient(stub)

	result, err := client.UploadVideo(context.Background(), videoAsset(), "clip")
	require.NoError(t, err)
	assert.Equal(t, "999_4242", result.ID)
	assert.Equal(t, media.TypeVideo, result.Type)
	assert.Equal(t, "clip", result.Caption)

	require.Len(t, stub.calls, 5)
	job, binary, thumb, configure, expose := stub.calls[0], stub.calls[1], stub.calls[2], stub.calls[3], stub.calls[4]

	assert.Contains(t, job.url, "upload/video/")
	assert.Equal(t, "2", partValue(t, job, "media_type"))
	uploadID := partValue(t, job, "upload_id")

	// Binary transfer goes to the first job target with the session
	// headers and host override.
	assert.Equal(t, "https://upload.instagram.com/rupload_igvideo/abc", binary.url)
	assert.Equal(t, uploadID, binary.header.Get("Session-ID"))
	assert.Equal(t, "job-token-1", binary.header.Get("job"))
	assert.Equal(t, "upload.instagram.com", binary.host)
	assert.Equal(t, "application/octet-stream", binary.header.Get("Content-Type"))
	assert.Contains(t, binary.header.Get("Content-Disposition"), `attachment; filename="pending_media_`)
	assert.Equal(t, "mp4-bytes", string(binary.body))

	// Thumbnail rides the photo endpoint under the same upload id.
	assert.Contains(t, thumb.url, "upload/photo/")
	assert.Equal(t, uploadID, partValue(t, thumb, "upload_id"))
	assert.Equal(t, "thumb-bytes", string(parts(t, thumb)[len(parts(t, thumb))-1].body))

	confPayload := signedPayload(t, configure)
	assert.Contains(t, configure.url, "media/configure/")
	assert.Equal(t, uploadID, gjson.Get(confPayload, "upload_id").String())
	assert.Equal(t, "back", gjson.Get(confPayload, "clips.0.camera_position").String())
	assert.Equal(t, 10.0, gjson.Get(confPayload, "clips.0.length").Float())
	assert.Equal(t, int64(720), gjson.Get(confPayload, "extra.source_width").Int())

	exposePayload := signedPayload(t, expose)
	assert.Equal(t, "ig_android_profile_contextual_feed", gjson.Get(exposePayload, "experiment").String())
	assert.Equal(t, "4242", gjson.Get(exposePayload, "id").String())
	assert.Equal(t, uploadID, gjson.Get(exposePayload, "upload_id").String())
}

func TestUploadVideoThumbnailRejectedAbortsSequence(t *testing.T) {
	t.Parallel()

	stub := &stubDoer{responses: []stubResponse{
		{200, jobResponse},
		{200, `ok`},
		{200, `{"status":"fail","message":"bad thumbnail"}`},
	}}
	client := newTestClient(stub)

	_, err := client.UploadVideo(context.Background(), videoAsset(), "")
	var perr *upload.ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Reason, "fail")

	// Neither configure nor expose after a rejected thumbnail.
	assert.Len(t, stub.calls, 3)
}

func TestUploadVideoJobDecodeFailureSkipsTransfer(t *testing.T) {
	t.Parallel()

	stub := &stubDoer{responses: []stubResponse{
		{200, `not a job response`},
	}}
	client := newTestClient(stub)

	_, err := client.UploadVideo(context.Background(), videoAsset(), "")
	var derr *upload.DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Len(t, stub.calls, 1)
}

func TestUploadVideoEmptyUploadURLs(t *testing.T) {
	t.Parallel()

	stub := &stubDoer{responses: []stubResponse{
		{200, `{"status":"ok","video_upload_urls":[]}`},
	}}
	client := newTestClient(stub)

	_, err := client.UploadVideo(context.Background(), videoAsset(), "")
	var perr *upload.ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Len(t, stub.calls, 1)
}

func TestUploadVideoExposeNotOK(t *testing.T) {
	t.Parallel()

	stub := &stubDoer{responses: []stubResponse{
		{200, jobResponse},
		{200, `ok`},
		{200, `{"status":"ok"}`},
		{200, `{"status":"ok"}`},
		{200, `{"status":"feedback_required"}`},
	}}
	client := newTestClient(stub)

	_, err := client.UploadVideo(context.Background(), videoAsset(), "")
	var perr *upload.ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Reason, "feedback_required")
}

func TestUploadVideoMissingThumbnail(t *testing.T) {
	t.Parallel()

	stub := &stubDoer{}
	client := newTestClient(stub)

	asset := videoAsset()
	asset.Thumbnail = nil
	_, err := client.UploadVideo(context.Background(), asset, "")
	var verr *upload.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, stub.calls)
}
