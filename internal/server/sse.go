package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// sseRetryMillis is the reconnect delay suggested to EventSource clients.
const sseRetryMillis = 3000

var errStreamingUnsupported = errors.New("response writer does not support streaming")

// eventStream writes Server-Sent Events, numbering each event so clients can
// tell where a dropped stream stopped.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	seq     int
}

func openEventStream(w http.ResponseWriter) (*eventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprintf(w, "retry: %d\n\n", sseRetryMillis); err != nil {
		return nil, err
	}
	flusher.Flush()
	return &eventStream{w: w, flusher: flusher}, nil
}

func (s *eventStream) send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	s.seq++
	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n\n", s.seq, event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *eventStream) comment(text string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", text); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
