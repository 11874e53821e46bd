package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/user/verseflow/internal/types"
)

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Require(types.SessionID(r.PathValue("id")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Messages)
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	msg, err := s.pipeline.SendMessage(r.Context(), types.SessionID(r.PathValue("id")), req.Text)
	if err != nil {
		if errors.Is(err, types.ErrGenerationAborted) {
			// Only reachable when the client hung up; nobody is listening.
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": msg})
}

// streamChunk is one NDJSON record relayed to the client. It mirrors the
// upstream wire shape so the web client can share one parser.
type streamChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// handleSendMessageStream relays a streamed generation to the client as
// newline-delimited JSON, flushing after every fragment. Closing the request
// (the client's cancel) aborts the upstream generation.
func (s *Server) handleSendMessageStream(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	enc := json.NewEncoder(w)
	started := false

	emit := func(chunk streamChunk) {
		enc.Encode(chunk)
		flusher.Flush()
		started = true
	}

	_, err := s.pipeline.SendMessageStream(r.Context(), types.SessionID(r.PathValue("id")), req.Text,
		func(fragment string) {
			emit(streamChunk{Response: fragment})
		})
	if err != nil {
		if errors.Is(err, types.ErrGenerationAborted) {
			// User-initiated cancel; the client already went away.
			return
		}
		if !started {
			writeError(w, err)
			return
		}
		// Headers are gone; report the failure in-band.
		emit(streamChunk{Error: err.Error(), Done: true})
		return
	}

	emit(streamChunk{Done: true})
}
