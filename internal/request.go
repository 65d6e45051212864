package internal

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/mallo-web/mallo/pkg/session"
)

// maxMultipartMemory bounds in-memory multipart parsing; larger parts
// spill to temporary files before being materialized.
const maxMultipartMemory = 10 << 20

// File is an uploaded file part, fully materialized.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Request is the framework's view of one HTTP request. It is built once
// per dispatch from the already-parsed *http.Request, is owned by that
// dispatch call, and is never shared across requests.
//
// Body decoding happens at construction: form fields, JSON bodies, and
// multipart file parts are materialized up front, and malformed bodies
// surface as absent values rather than errors.
type Request struct {
	// Method is the HTTP method, uppercased.
	Method string

	// Path is the request path without query string.
	Path string

	// Header holds the request headers.
	Header http.Header

	// Query holds the parsed query parameters.
	Query url.Values

	// Form holds decoded urlencoded or multipart form fields.
	Form url.Values

	// JSON is the parsed JSON object body, nil when the body is absent,
	// malformed, or not a JSON object.
	JSON map[string]any

	// Files holds uploaded multipart file parts by field name.
	Files map[string]File

	// Session is the per-visitor state handle, nil when no secret key is
	// configured. Writes are tracked and persisted at response
	// finalization.
	Session *session.Session

	// CSRFToken is the session's forgery token, exposed for templates to
	// embed in forms.
	CSRFToken string

	raw *http.Request
}

// NewRequest builds a Request from an inbound *http.Request.
func NewRequest(r *http.Request) *Request {
	req := &Request{
		Method: strings.ToUpper(r.Method),
		Path:   r.URL.Path,
		Header: r.Header,
		Query:  r.URL.Query(),
		Form:   url.Values{},
		Files:  map[string]File{},
		raw:    r,
	}
	req.parseBody(r)
	return req
}

func (req *Request) parseBody(r *http.Request) {
	if r.Body == nil || r.Method == http.MethodGet || r.Method == http.MethodHead {
		return
	}

	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return
	}

	switch {
	case ct == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err == nil {
			req.Form = r.PostForm
		}
	case ct == "application/json":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return
		}
		var parsed map[string]any
		if json.Unmarshal(body, &parsed) == nil {
			req.JSON = parsed
		}
	case strings.HasPrefix(ct, "multipart/"):
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return
		}
		req.Form = r.MultipartForm.Value
		for field, headers := range r.MultipartForm.File {
			if len(headers) == 0 {
				continue
			}
			fh := headers[0]
			f, err := fh.Open()
			if err != nil {
				continue
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				continue
			}
			req.Files[field] = File{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			}
		}
	}
}

// Get returns a query parameter, or "" when absent.
func (req *Request) Get(key string) string {
	return req.Query.Get(key)
}

// Post returns a form field, or "" when absent.
func (req *Request) Post(key string) string {
	return req.Form.Get(key)
}

// Cookie returns a named cookie value, or "" when absent.
func (req *Request) Cookie(name string) string {
	c, err := req.raw.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// IsXHR reports whether the request was made via XMLHttpRequest.
func (req *Request) IsXHR() bool {
	return req.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// Raw exposes the underlying *http.Request for anything the framework
// view does not cover.
func (req *Request) Raw() *http.Request {
	return req.raw
}
