package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"insta-uploader/internal/device"
)

// Builder produces transport-ready requests for the private API: signed
// form bodies for configure-style calls, ordered multipart bodies for
// binary transfers, and raw requests for server-issued upload URLs.
type Builder struct {
	baseURL      string
	userAgent    string
	sessionToken string
	csrfToken    string
}

// Part is one multipart section. Parts are written in slice order; the
// counterparty cares about both the order and the per-part headers.
type Part struct {
	Name     string
	Body     []byte
	Filename string
	Header   textproto.MIMEHeader
}

func NewBuilder(dev device.Device, sessionToken, csrfToken string) *Builder {
	return &Builder{
		baseURL:      BaseURL,
		userAgent:    dev.UserAgent(),
		sessionToken: sessionToken,
		csrfToken:    csrfToken,
	}
}

// Signed builds a request whose payload is JSON-encoded, HMAC-signed and
// wrapped in the signed_body form the platform expects.
func (b *Builder) Signed(ctx context.Context, method, endpoint string, fields map[string]any) (*http.Request, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	form := url.Values{}
	form.Set("signed_body", signPayload(payload)+"."+string(payload))
	form.Set("ig_sig_key_version", sigKeyVersion)

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	b.decorate(req)
	return req, nil
}

// Multipart builds a multipart/form-data request preserving part order.
func (b *Builder) Multipart(ctx context.Context, method, endpoint string, parts []Part) (*http.Request, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, p := range parts {
		h := textproto.MIMEHeader{}
		for k, vs := range p.Header {
			h[k] = vs
		}
		if p.Filename != "" {
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
				escapeQuotes(p.Name), escapeQuotes(p.Filename)))
		} else {
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, escapeQuotes(p.Name)))
		}

		w, err := writer.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("failed to create part %s: %w", p.Name, err)
		}
		if _, err := w.Write(p.Body); err != nil {
			return nil, fmt.Errorf("failed to write part %s: %w", p.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	b.decorate(req)
	return req, nil
}

// Raw builds an unsigned request against an absolute URL, used for the
// binary transfer to a server-issued upload target. A "Host" entry in
// header overrides the request host.
func (b *Builder) Raw(ctx context.Context, method, rawURL string, body []byte, header http.Header) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range header {
		if strings.EqualFold(k, "Host") {
			if len(vs) > 0 {
				req.Host = vs[0]
			}
			continue
		}
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	b.decorate(req)
	return req, nil
}

func (b *Builder) decorate(req *http.Request) {
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept-Language", "en-US")
	req.Header.Set("X-IG-Connection-Type", "WIFI")
	req.Header.Set("X-IG-Capabilities", "3brTvw==")
	req.Header.Set("Cookie", fmt.Sprintf("sessionid=%s; csrftoken=%s", b.sessionToken, b.csrfToken))
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
