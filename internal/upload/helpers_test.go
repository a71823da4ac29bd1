package upload_test

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"insta-uploader/internal/device"
	"insta-uploader/internal/upload"
)

// stubDoer replays canned responses in call order and records every
// request it sees.
type stubDoer struct {
	responses []stubResponse
	calls     []stubCall
}

type stubResponse struct {
	status int
	body   string
}

type stubCall struct {
	method string
	url    string
	host   string
	header http.Header
	body   []byte
}

func (d *stubDoer) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	d.calls = append(d.calls, stubCall{
		method: req.Method,
		url:    req.URL.String(),
		host:   req.Host,
		header: req.Header.Clone(),
		body:   body,
	})

	idx := len(d.calls) - 1
	if idx >= len(d.responses) {
		idx = len(d.responses) - 1
	}
	resp := d.responses[idx]
	return &http.Response{
		StatusCode: resp.status,
		Body:       io.NopCloser(strings.NewReader(resp.body)),
	}, nil
}

func newTestClient(stub *stubDoer) *upload.Client {
	dev := device.New(1)
	return upload.NewClient(dev, "session-token", "csrf-token", "4242", &upload.Options{
		HTTPClient: stub,
	})
}

type formPart struct {
	name     string
	filename string
	header   textproto.MIMEHeader
	body     []byte
}

// parts decodes a recorded multipart call preserving section order.
func parts(t *testing.T, call stubCall) []formPart {
	t.Helper()
	_, params, err := mime.ParseMediaType(call.header.Get("Content-Type"))
	require.NoError(t, err)

	var out []formPart
	reader := multipart.NewReader(bytes.NewReader(call.body), params["boundary"])
	for {
		p, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(p)
		require.NoError(t, err)
		out = append(out, formPart{
			name:     p.FormName(),
			filename: p.FileName(),
			header:   p.Header,
			body:     body,
		})
	}
	return out
}

func partValue(t *testing.T, call stubCall, name string) string {
	t.Helper()
	for _, p := range parts(t, call) {
		if p.name == name {
			return string(p.body)
		}
	}
	t.Fatalf("part %q not found", name)
	return ""
}

func hasPart(t *testing.T, call stubCall, name string) bool {
	t.Helper()
	for _, p := range parts(t, call) {
		if p.name == name {
			return true
		}
	}
	return false
}

// signedPayload extracts the JSON payload from a signed_body form call.
func signedPayload(t *testing.T, call stubCall) string {
	t.Helper()
	form, err := url.ParseQuery(string(call.body))
	require.NoError(t, err)
	signed := form.Get("signed_body")
	require.NotEmpty(t, signed)
	dot := strings.Index(signed, ".")
	require.Greater(t, dot, 0)
	return signed[dot+1:]
}
