package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/mmcdole/plexskill/internal/domain"
	"github.com/mmcdole/plexskill/internal/skill"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Stream message types
const (
	MessageExtendTimeout = "extend_timeout"
	MessageBatch         = "batch"
	MessageDone          = "done"
	MessageError         = "error"
)

// SearchRequest is the first message a stream client sends
type SearchRequest struct {
	Phrase    string    `json:"phrase"`
	MediaType MediaType `json:"media_type"`
}

// StreamMessage is every message the server sends on a search stream
type StreamMessage struct {
	Type  string        `json:"type"`
	Batch *domain.Batch `json:"batch,omitempty"`
	Error string        `json:"error,omitempty"`
}

// SearchResponse is the body of a collected search
type SearchResponse struct {
	Batches []domain.Batch `json:"batches"`
}

// LibrariesResponse summarizes the catalog
type LibrariesResponse struct {
	Servers  []string                  `json:"servers"`
	Sections map[string][]SectionEntry `json:"sections"`
}

// SectionEntry is one library section in LibrariesResponse
type SectionEntry struct {
	Server string `json:"server"`
	ID     string `json:"id"`
	Title  string `json:"title"`
}

// MediaType accepts a hint as a name ("music") or a wire code (2)
type MediaType domain.MediaType

func (m *MediaType) UnmarshalJSON(data []byte) error {
	var code int
	if err := json.Unmarshal(data, &code); err == nil {
		if !domain.MediaType(code).Valid() {
			return fmt.Errorf("unknown media type code %d", code)
		}
		*m = MediaType(code)
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return errors.New("media_type must be a name or a number")
	}
	mt, err := domain.ParseMediaType(name)
	if err != nil {
		return err
	}
	*m = MediaType(mt)
	return nil
}

// Health reports liveness
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Icon serves the embedded skill icon
func (s *Server) Icon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "max-age="+strconv.Itoa(24*60*60))
	_, _ = w.Write(skillIcon)
}

// Search runs a search and returns every batch at once
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	phrase := strings.TrimSpace(r.URL.Query().Get("phrase"))
	if phrase == "" {
		writeError(w, http.StatusBadRequest, "phrase is required")
		return
	}

	hint, err := domain.ParseMediaType(r.URL.Query().Get("media_type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	batches, err := s.searcher.SearchAll(r.Context(), skill.Request{Phrase: phrase, MediaType: hint})
	if err != nil {
		s.logger.Error("search failed", "phrase", phrase, "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	if batches == nil {
		batches = []domain.Batch{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Batches: batches})
}

// SearchStream upgrades to a websocket, reads one SearchRequest and streams
// the batches as they are produced
func (s *Server) SearchStream(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	var req SearchRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.logger.Warn("invalid search request", "error", err)
		_ = conn.WriteJSON(StreamMessage{Type: MessageError, Error: "invalid search request: " + err.Error()})
		return
	}
	req.Phrase = strings.TrimSpace(req.Phrase)
	if req.Phrase == "" {
		s.logger.Warn("invalid search request", "error", "empty phrase")
		_ = conn.WriteJSON(StreamMessage{Type: MessageError, Error: "phrase is required"})
		return
	}

	var writeErr error
	send := func(msg StreamMessage) bool {
		if writeErr == nil {
			writeErr = conn.WriteJSON(msg)
		}
		return writeErr == nil
	}

	sreq := skill.Request{
		Phrase:    req.Phrase,
		MediaType: domain.MediaType(req.MediaType),
		ExtendTimeout: func() {
			send(StreamMessage{Type: MessageExtendTimeout})
		},
	}

	for batch, err := range s.searcher.Search(r.Context(), sreq) {
		if err != nil {
			s.logger.Error("search failed", "phrase", req.Phrase, "error", err)
			send(StreamMessage{Type: MessageError, Error: err.Error()})
			return
		}
		if !send(StreamMessage{Type: MessageBatch, Batch: &batch}) {
			s.logger.Warn("stream client went away", "error", writeErr)
			return
		}
	}

	send(StreamMessage{Type: MessageDone})
}

// Libraries bootstraps the catalog if needed and lists its sections
func (s *Server) Libraries(w http.ResponseWriter, r *http.Request) {
	cat, err := s.catalog.Get(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp := LibrariesResponse{
		Servers:  []string{},
		Sections: make(map[string][]SectionEntry),
	}
	for _, srv := range cat.Servers() {
		resp.Servers = append(resp.Servers, srv.Name())
	}
	for _, category := range domain.Categories() {
		entries := []SectionEntry{}
		for _, sec := range cat.Sections(category) {
			entries = append(entries, SectionEntry{
				Server: cat.Server(sec.ServerIndex).Name(),
				ID:     sec.Info.ID,
				Title:  sec.Info.Title,
			})
		}
		resp.Sections[category.String()] = entries
	}

	writeJSON(w, http.StatusOK, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoToken), errors.Is(err, domain.ErrAuthFailed):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrServerOffline):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
