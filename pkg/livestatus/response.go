package livestatus

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// fixed16Len covers the 3-digit status, space, 11-char length and newline.
const fixed16Len = 16

const StatusOK = 200

// ErrTruncated reports a body shorter than the announced length.
var ErrTruncated = errors.New("truncated response body")

// StatusError is a non-200 answer; the body carries the message.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("livestatus status %d: %s", e.Code, e.Message)
}

type Response struct {
	Status int
	Body   []byte
}

// ParseFixed16 splits raw into header and body and validates both.
func ParseFixed16(raw []byte) (*Response, error) {
	if len(raw) < fixed16Len {
		return nil, fmt.Errorf("short response header: got %d bytes, want %d", len(raw), fixed16Len)
	}
	header := raw[:fixed16Len]
	if header[fixed16Len-1] != '\n' {
		return nil, fmt.Errorf("malformed response header %q", header)
	}
	code, err := strconv.Atoi(string(header[:3]))
	if err != nil {
		return nil, fmt.Errorf("malformed status code in header %q", header)
	}
	length, err := strconv.Atoi(string(bytes.TrimSpace(header[4 : fixed16Len-1])))
	if err != nil || length < 0 {
		return nil, fmt.Errorf("malformed body length in header %q", header)
	}
	body := raw[fixed16Len:]
	if len(body) < length {
		return nil, fmt.Errorf("%w: announced %d bytes, got %d", ErrTruncated, length, len(body))
	}
	body = body[:length]
	if code != StatusOK {
		return nil, &StatusError{Code: code, Message: string(bytes.TrimSpace(body))}
	}
	return &Response{Status: code, Body: body}, nil
}

func ParseRaw(raw []byte) *Response {
	return &Response{Status: StatusOK, Body: raw}
}
