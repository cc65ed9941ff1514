// Package codec extracts the handful of fields the proxy cares about from
// raw HTTP/1.0 request and response buffers. It is a data-format contract,
// not a general HTTP parser: anything outside the supported shape is
// rejected and the caller falls back to a degraded path.
package codec

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

// ErrNotMatched is returned when a request does not have the exact
// supported shape.
var ErrNotMatched = fmt.Errorf("request does not match supported shape")

const headerSeparator = "\r\n\r\n"

var (
	requestLineRe  = regexp.MustCompile(`^GET\s+(\S+)\s+HTTP/1\.0\r\nHost:\s*(\S+)\r\n`)
	statusLineRe   = regexp.MustCompile(`^HTTP/\d\.\d\s+(\d{3})`)
	dateRe         = regexp.MustCompile(`Date:\s*(.*)\r\n`)
	lastModifiedRe = regexp.MustCompile(`Last-Modified:\s*(.*)\r\n`)
	expiresRe      = regexp.MustCompile(`Expires:\s*(.*)\r\n`)
)

// Metadata holds the freshness-related header values of a response.
// Each field is optional and empty if the header was absent.
type Metadata struct {
	Date         string
	LastModified string
	Expires      string
}

// ParseRequestLine matches a request of the exact shape
// "GET <path> HTTP/1.0\r\nHost: <host>\r\n" anchored at the start of raw.
// Any other method, version or malformed header yields ErrNotMatched.
func ParseRequestLine(raw []byte) (path, host string, err error) {
	m := requestLineRe.FindSubmatch(raw)
	if m == nil {
		return "", "", ErrNotMatched
	}
	return string(m[1]), string(m[2]), nil
}

// ParseMetadata searches the header block of raw for the Date,
// Last-Modified and Expires fields. Values are taken verbatim.
func ParseMetadata(raw []byte) Metadata {
	headers := headerBlock(raw)
	var md Metadata
	if m := dateRe.FindSubmatch(headers); m != nil {
		md.Date = string(m[1])
	}
	if m := lastModifiedRe.FindSubmatch(headers); m != nil {
		md.LastModified = string(m[1])
	}
	if m := expiresRe.FindSubmatch(headers); m != nil {
		md.Expires = string(m[1])
	}
	return md
}

// ParseStatusCode extracts the status code from the status line of raw.
// It reports false if raw does not start with a status line.
func ParseStatusCode(raw []byte) (int, bool) {
	m := statusLineRe.FindSubmatch(raw)
	if m == nil {
		return 0, false
	}
	code, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return 0, false
	}
	return code, true
}

// ParseBody returns everything after the first blank-line separator,
// or nil if no separator is present.
func ParseBody(raw []byte) []byte {
	idx := bytes.Index(raw, []byte(headerSeparator))
	if idx < 0 {
		return nil
	}
	return raw[idx+len(headerSeparator):]
}

func headerBlock(raw []byte) []byte {
	if idx := bytes.Index(raw, []byte(headerSeparator)); idx >= 0 {
		// keep the trailing CRLF so header regexps match the last line
		return raw[:idx+2]
	}
	return raw
}
