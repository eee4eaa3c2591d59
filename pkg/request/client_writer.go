package request

import (
	"errors"
	"net/http"
)

// ErrInternalServer is the message returned to clients when a handler
// panics.
var ErrInternalServer = errors.New("internal server error")

// ClientWriter is a http.ResponseWriter that records the status code written
// to it, for use by middleware that reports on the response after the
// handler has run.
type ClientWriter struct {
	http.ResponseWriter

	// statusCode is the status code written to the response.
	statusCode int
}

// NewClientWriter creates a new ClientWriter wrapping w.
func NewClientWriter(w http.ResponseWriter) *ClientWriter {
	return &ClientWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader implements the http.ResponseWriter interface.
func (w *ClientWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// StatusCode returns the status code written to the response, defaulting to
// 200 when the handler never wrote one explicitly.
func (w *ClientWriter) StatusCode() int {
	return w.statusCode
}
