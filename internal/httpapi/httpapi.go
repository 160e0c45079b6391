// Package httpapi exposes the reply engine over HTTP for non-socket
// clients. Sessions created here live in memory, separately from the
// socket server's registry: an API session has no connection to kill,
// only a name, timestamps and a history.
package httpapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"github.com/vaninafuentes/EcoBot/internal/chatserver"
	"github.com/vaninafuentes/EcoBot/internal/config"
	"github.com/vaninafuentes/EcoBot/internal/logger"
)

const defaultSessionsLimit = 100

type sessionMeta struct {
	Name      string
	StartedAt time.Time
	LastSeen  time.Time
}

// Service is the HTTP facade over the reply engine.
type Service struct {
	cfg       *config.Config
	replier   chatserver.Replier
	histories *chatserver.HistoryStore

	mu   sync.Mutex
	meta map[string]*sessionMeta
}

// New builds the facade around the same Replier the socket server uses.
func New(cfg *config.Config, replier chatserver.Replier) *Service {
	return &Service{
		cfg:       cfg,
		replier:   replier,
		histories: chatserver.NewHistoryStore(cfg.MaxTurns),
		meta:      make(map[string]*sessionMeta),
	}
}

// Handler returns the routed HTTP handler.
func (s *Service) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/healthz", s.healthz)
	router.POST("/new_session", s.newSession)
	router.POST("/ask", s.ask)
	router.DELETE("/reset/:session_id", s.reset)
	router.GET("/sessions", s.listSessions)
	return router
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *Service) healthz(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type newSessionRequest struct {
	Name string `json:"name"`
}

type newSessionResponse struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	StartedAt string `json:"started_at"`
}

func (s *Service) newSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req newSessionRequest
	if r.Body != nil {
		// An empty or absent body is fine, the name is optional.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	id := uuid.NewString()
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "sesion-" + id[:8]
	}
	now := time.Now()

	s.mu.Lock()
	s.meta[id] = &sessionMeta{Name: name, StartedAt: now, LastSeen: now}
	s.mu.Unlock()
	s.histories.Create(id)

	logger.Info("API: nueva sesión %s (%s)", id, name)
	writeJSON(w, http.StatusOK, newSessionResponse{
		SessionID: id,
		Name:      name,
		StartedAt: now.Format(time.RFC3339),
	})
}

type askRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type askResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

func (s *Service) ask(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.cfg.APIKey != "" && r.Header.Get("X-API-KEY") != s.cfg.APIKey {
		writeError(w, http.StatusUnauthorized, "API key inválida")
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo JSON inválido")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message requerido")
		return
	}

	// A missing or unknown session id starts a fresh session, so
	// clients can ask without calling /new_session first.
	id := req.SessionID
	now := time.Now()
	s.mu.Lock()
	if id == "" {
		id = uuid.NewString()
	}
	m, ok := s.meta[id]
	if !ok {
		m = &sessionMeta{Name: "sesion-" + shortID(id), StartedAt: now}
		s.meta[id] = m
		s.histories.Create(id)
	}
	m.LastSeen = now
	s.mu.Unlock()

	history := s.histories.History(id)
	reply, err := s.replier.Reply(r.Context(), history, req.Message)
	if err != nil {
		logger.Warn("API: fallo del reply para %s: %v", id, err)
		writeError(w, http.StatusBadGateway, "no pude generar una respuesta")
		return
	}
	s.histories.AppendTurn(id, req.Message, reply)

	writeJSON(w, http.StatusOK, askResponse{SessionID: id, Reply: reply})
}

func (s *Service) reset(w http.ResponseWriter, _ *http.Request, params httprouter.Params) {
	id := params.ByName("session_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "session_id requerido")
		return
	}

	s.mu.Lock()
	delete(s.meta, id)
	s.mu.Unlock()
	s.histories.Drop(id)

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type sessionInfo struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	StartedAt string `json:"started_at"`
	LastSeen  string `json:"last_seen"`
}

func (s *Service) listSessions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit := defaultSessionsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, http.StatusBadRequest, "limit inválido (1..1000)")
			return
		}
		limit = n
	}

	s.mu.Lock()
	items := make([]sessionInfo, 0, len(s.meta))
	for id, m := range s.meta {
		items = append(items, sessionInfo{
			SessionID: id,
			Name:      m.Name,
			StartedAt: m.StartedAt.Format(time.RFC3339),
			LastSeen:  m.LastSeen.Format(time.RFC3339),
		})
	}
	s.mu.Unlock()

	// Newest sessions first.
	sort.Slice(items, func(i, j int) bool {
		return items[i].StartedAt > items[j].StartedAt
	})
	if len(items) > limit {
		items = items[:limit]
	}

	writeJSON(w, http.StatusOK, map[string][]sessionInfo{"sessions": items})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
