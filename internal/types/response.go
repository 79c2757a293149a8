package types

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Response is a fetched page.
type Response struct {
	Request     *Request
	StatusCode  int
	Header      http.Header
	ContentType string

	// Body is the decoded page HTML.
	Body []byte

	// FinalURL is where the page was served from after redirects.
	FinalURL string

	Elapsed time.Duration

	doc *goquery.Document
}

// NewResponse builds a Response for an answered HTTP request.
func NewResponse(req *Request, httpResp *http.Response, body []byte, elapsed time.Duration) *Response {
	resp := &Response{
		Request:     req,
		StatusCode:  httpResp.StatusCode,
		Header:      httpResp.Header,
		ContentType: httpResp.Header.Get("Content-Type"),
		Body:        body,
		Elapsed:     elapsed,
	}
	if httpResp.Request != nil && httpResp.Request.URL != nil {
		resp.FinalURL = httpResp.Request.URL.String()
	}
	return resp
}

// NewBrowserResponse builds a Response for a page rendered by a browser.
func NewBrowserResponse(req *Request, statusCode int, body []byte, finalURL string, elapsed time.Duration) *Response {
	return &Response{
		Request:     req,
		StatusCode:  statusCode,
		Header:      http.Header{},
		ContentType: "text/html",
		Body:        body,
		FinalURL:    finalURL,
		Elapsed:     elapsed,
	}
}

// Document parses Body on first use and caches the result.
func (r *Response) Document() (*goquery.Document, error) {
	if r.doc == nil {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", r.URL(), err)
		}
		r.doc = doc
	}
	return r.doc, nil
}

// URL is the address errors and logs refer to: the final URL when known,
// the requested one otherwise.
func (r *Response) URL() string {
	switch {
	case r.FinalURL != "":
		return r.FinalURL
	case r.Request != nil:
		return r.Request.URLString()
	}
	return ""
}
