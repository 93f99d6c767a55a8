// Package transport contains the HTTP request-executor contract the
// submission workflow depends on, together with a net/http implementation.
// The caller describes a request and one of three body encodings; the
// executor reports success, a client-error, a server-error, or a transport
// failure, each distinguishable by type.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

// Requester executes a single HTTP request. Implementations must return
// *ClientError for 4xx responses, *ServerError for 5xx, and *TransportError
// for anything that prevented a response from arriving at all.
type Requester interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Request describes one outbound HTTP request.
type Request struct {
	Method string
	URL    string
	Header http.Header
	// Body is nil for body-less requests.
	Body Body
	// DisableRedirects stops the executor from following 3xx responses so
	// the caller can read the Location target itself.
	DisableRedirects bool
}

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
	// Location is the absolute redirect target when redirects were disabled
	// and the server answered with a 3xx status.
	Location string
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// Body produces a request body and its Content-Type. Build may be called at
// most once per request.
type Body interface {
	Build() (contentType string, r io.Reader, err error)
}

// JSON returns a body that serializes v as application/json.
func JSON(v any) Body { return jsonBody{v: v} }

type jsonBody struct{ v any }

func (b jsonBody) Build() (string, io.Reader, error) {
	raw, err := json.Marshal(b.v)
	if err != nil {
		return "", nil, fmt.Errorf("encode json body: %w", err)
	}
	return "application/json", bytes.NewReader(raw), nil
}

// Form returns a body that encodes values as application/x-www-form-urlencoded.
func Form(values url.Values) Body { return formBody{values: values} }

type formBody struct{ values url.Values }

func (b formBody) Build() (string, io.Reader, error) {
	return "application/x-www-form-urlencoded", strings.NewReader(b.values.Encode()), nil
}

// Part is one field of a multipart body. Content is streamed into the
// request; it is not buffered beyond multipart framing.
type Part struct {
	Field       string
	FileName    string
	ContentType string
	Content     io.Reader
}

// Multipart returns a body that encodes parts as multipart/form-data, each
// part carrying its own declared content type.
func Multipart(parts []Part) Body { return multipartBody{parts: parts} }

type multipartBody struct{ parts []Part }

func (b multipartBody) Build() (string, io.Reader, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		for _, p := range b.parts {
			hdr := make(textproto.MIMEHeader, 2)
			hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.Field, p.FileName))
			if p.ContentType != "" {
				hdr.Set("Content-Type", p.ContentType)
			}
			w, err := mw.CreatePart(hdr)
			if err != nil {
				pw.CloseWithError(fmt.Errorf("create part %q: %w", p.Field, err))
				return
			}
			if _, err := io.Copy(w, p.Content); err != nil {
				pw.CloseWithError(fmt.Errorf("write part %q: %w", p.Field, err))
				return
			}
		}
		pw.CloseWithError(mw.Close())
	}()

	return mw.FormDataContentType(), pr, nil
}
