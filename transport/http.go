package transport

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"chatserver/domain"
	chaterrors "chatserver/errors"
)

// Read-only HTTP surface next to the websocket: room projections and
// durable transcripts.

func (h *Handler) handleRoomInfo(w http.ResponseWriter, r *http.Request) {
	room, ok := h.registry.GetMeeting(mux.Vars(r)["room"])
	if !ok {
		http.Error(w, chaterrors.ErrRoomNotFound.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, h, room.RoomInfo())
}

func (h *Handler) handlePresence(w http.ResponseWriter, r *http.Request) {
	sessions := h.sessions.GetSessionsForOwner(mux.Vars(r)["user"])
	if len(sessions) == 0 {
		http.Error(w, chaterrors.ErrSessionNotFound.Error(), http.StatusNotFound)
		return
	}
	ids := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		ids = append(ids, sess.ID)
	}
	writeJSON(w, h, ids)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	messages, err := h.registry.TranscriptForUserInRoom(vars["user"], vars["room"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(messages) == 0 {
		http.Error(w, chaterrors.ErrNoTranscript.Error(), http.StatusNotFound)
		return
	}
	out := make([]map[string]any, 0, len(messages))
	for i := range messages {
		out = append(out, messages[i].ToExternal())
	}
	writeJSON(w, h, out)
}

func (h *Handler) handleTranscriptSummaries(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var err error
	var summaries []domain.TranscriptSummary
	if container := r.URL.Query().Get("container"); container != "" {
		summaries, err = h.registry.TranscriptSummariesForUserInContainer(vars["user"], container)
	} else {
		summaries, err = h.registry.ListTranscriptsForUser(vars["user"])
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, h, summaries)
}

func (h *Handler) handleChangeFeed(w http.ResponseWriter, r *http.Request) {
	changes, err := h.registry.ChangesForUser(mux.Vars(r)["user"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, h, changes)
}

func writeJSON(w http.ResponseWriter, h *Handler, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Info("Writing HTTP response failed", "error", err)
	}
}
