// Package server implements the mail REST API over a Store.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/nhle/mailpane/internal/model"
	"github.com/nhle/mailpane/internal/store"
)

// previewLength is how many characters of the body go into a preview.
const previewLength = 80

// Server serves /emails and /health.
type Server struct {
	store store.Store
	cfg   model.ServerConfig

	now   func() time.Time
	newID func() string
}

// New creates a Server. Created mail is sent from cfg's owner identity.
func New(st store.Store, cfg model.ServerConfig) *Server {
	return &Server{
		store: st,
		cfg:   cfg,
		now:   time.Now,
		newID: func() string { return uuid.New().String()[:8] },
	}
}

// Handler returns the full middleware chain: CORS, request logging, auth,
// then routing.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(logRequests)
	s.RegisterRoutes(r)
	return setupCORS(r, s.cfg.CORSOrigins)
}

// RegisterRoutes mounts the API on r.
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", s.health).Methods("GET")

	api := r.PathPrefix("/emails").Subrouter()
	if s.cfg.Token != "" {
		api.Use(requireToken(s.cfg.Token))
	}

	api.HandleFunc("", s.listEmails).Methods("GET")
	api.HandleFunc("", s.createEmail).Methods("POST")
	api.HandleFunc("/{id}", s.getEmail).Methods("GET")
	api.HandleFunc("/{id}", s.updateEmail).Methods("PUT", "PATCH")
	api.HandleFunc("/{id}", s.deleteEmail).Methods("DELETE")
}

func setupCORS(h http.Handler, origins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(h)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		log.Printf("ERROR: health check: %v", err)
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listEmails(w http.ResponseWriter, r *http.Request) {
	// Unknown filters fall back to all.
	filter, err := model.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		filter = model.FilterAll
	}

	emails, err := s.store.ListEmails(r.Context(), filter)
	if err != nil {
		log.Printf("ERROR: listing %s emails: %v", filter, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, emails)
}

func (s *Server) getEmail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	email, err := s.store.GetEmail(r.Context(), id)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, email)
}

func (s *Server) createEmail(w http.ResponseWriter, r *http.Request) {
	var draft model.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if strings.TrimSpace(draft.Recipient.Email) == "" {
		writeError(w, http.StatusUnprocessableEntity, "recipient.email is required")
		return
	}

	attachments := draft.Attachments
	if attachments == nil {
		attachments = []model.Attachment{}
	}

	email := model.Email{
		ID:          s.newID(),
		Sender:      model.Person{Name: s.cfg.OwnerName, Email: s.cfg.OwnerEmail},
		Recipient:   model.Person{Name: draft.Recipient.Name, Email: draft.Recipient.Email},
		Subject:     draft.Subject,
		Preview:     preview(draft.Body),
		Body:        draft.Body,
		Date:        s.now().UTC().Format(model.DateLayout),
		IsRead:      true,
		Attachments: attachments,
	}

	if err := s.store.CreateEmail(r.Context(), email); err != nil {
		log.Printf("ERROR: creating email to %s: %v", draft.Recipient.Email, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, email)
}

func (s *Server) updateEmail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch model.EmailPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	email, err := s.store.UpdateEmail(r.Context(), id, patch)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, email)
}

func (s *Server) deleteEmail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.store.DeleteEmail(r.Context(), id); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if store.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Email not found")
		return
	}
	log.Printf("ERROR: %v", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// preview cuts body to previewLength characters, marking the cut.
func preview(body string) string {
	runes := []rune(body)
	if len(runes) <= previewLength {
		return body
	}
	return string(runes[:previewLength]) + "..."
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
