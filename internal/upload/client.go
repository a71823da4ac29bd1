package upload

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"insta-uploader/internal/device"
	"insta-uploader/internal/request"
	"insta-uploader/internal/transport"
)

// Client drives assets through the platform's multi-step upload protocol.
// It holds only read-only session data; every call generates its own
// upload ids and session state, so concurrent calls are independent.
type Client struct {
	builder   *request.Builder
	transport *transport.Transport
	device    device.Device
	userID    string
	csrfToken string
	log       zerolog.Logger
}

// Options tunes a Client. The zero value uses a default *http.Client and
// discards logs.
type Options struct {
	HTTPClient transport.Doer
	Logger     *zerolog.Logger
}

func NewClient(dev device.Device, sessionToken, csrfToken, userID string, opts *Options) *Client {
	if opts == nil {
		opts = &Options{}
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Client{
		builder:   request.NewBuilder(dev, sessionToken, csrfToken),
		transport: transport.New(opts.HTTPClient),
		device:    dev,
		userID:    userID,
		csrfToken: csrfToken,
		log:       log,
	}
}

// Fixed image compression descriptor sent with every binary transfer.
const compressionJSON = `{"lib_name":"jt","lib_version":"1.3.0","quality":"87"}`

// Synthetic clip length declared on video configure calls.
const clipLength = 10.0

var lastUploadID atomic.Int64

// newUploadID returns a fresh correlation token for one upload attempt.
// Tokens are millisecond timestamps, bumped when two attempts land in the
// same millisecond so an id is never reused across attempts.
func newUploadID() string {
	for {
		now := time.Now().UnixMilli()
		last := lastUploadID.Load()
		if now <= last {
			now = last + 1
		}
		if lastUploadID.CompareAndSwap(last, now) {
			return strconv.FormatInt(now, 10)
		}
	}
}

func statusSuccess(status int) bool {
	return status >= 200 && status < 300
}
