package httpadapter

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/kirillkom/study-assistant/internal/core/domain"
)

const relayBufferSize = 4 << 10

// relayEventStream copies the upstream event stream to the client as bytes
// arrive. It stops when either side goes away.
func relayEventStream(w http.ResponseWriter, r *http.Request, body io.ReadCloser) {
	defer body.Close()

	flusher, _ := w.(http.Flusher)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if flusher != nil {
		flusher.Flush()
	}

	buf := make([]byte, relayBufferSize)
	var relayed int64
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				slog.Debug("stream_client_gone",
					"request_id", domain.RequestIDFromContext(r.Context()),
					"bytes", relayed,
					"error", err,
				)
				return
			}
			relayed += int64(n)
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) && r.Context().Err() == nil {
				slog.Warn("stream_upstream_error",
					"request_id", domain.RequestIDFromContext(r.Context()),
					"bytes", relayed,
					"error", readErr,
				)
			}
			return
		}
	}
}
