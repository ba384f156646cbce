package stubapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jrsteele09/news-admin/api"
	apperrors "github.com/jrsteele09/news-admin/internal/errors"
	"github.com/jrsteele09/news-admin/internal/utils"
	"github.com/jrsteele09/news-admin/stubapi/sessionrepo"
)

const maxBodyBytes = 64 << 10

type createSessionResponse struct {
	Session api.SessionLog `json:"session"`
}

type listSessionsResponse struct {
	Sessions []api.SessionLog `json:"sessions"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.authenticate(req.Email, req.Password)
	if err != nil {
		writeJSONError(w, "invalid_credentials", "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := s.signer.Mint(user, s.now(), s.tokenTTL)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to mint token")
		writeJSONError(w, "internal_error", "could not issue token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, api.LoginResponse{
		Token: token,
		User:  api.User{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role},
	})
}

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req api.CreateSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session := api.SessionLog{
		ID:         uuid.New().String(),
		UserID:     userIDFromContext(r.Context()),
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
		DeviceType: req.DeviceType,
		Location:   req.Location,
		Active:     true,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.sessions.Create(session); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create session log")
		writeJSONError(w, "internal_error", "could not create session", http.StatusInternalServerError)
		return
	}

	s.logger.Debug().Str("session_id", session.ID).Str("user_id", session.UserID).Msg("Session log created")
	writeJSON(w, http.StatusCreated, createSessionResponse{Session: session})
}

func (s *Server) activityHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	var req api.ActivityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Action) == "" {
		writeJSONError(w, "invalid_request", "action is required", http.StatusBadRequest)
		return
	}

	err := s.sessions.AppendActivity(sessionID, api.Activity{
		Action:      req.Action,
		Section:     req.Section,
		Description: req.Description,
		Metadata:    req.Metadata,
		At:          s.now().UTC(),
	})
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	var req api.LogoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		writeJSONError(w, "invalid_request", "sessionId is required", http.StatusBadRequest)
		return
	}

	if err := s.sessions.End(req.SessionID, utils.Or(req.Reason, "manual"), s.now().UTC()); err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "session ended"})
}

func (s *Server) revokeHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	var req api.RevokeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.sessions.Revoke(sessionID, utils.Value(req.Note), s.now().UTC()); err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "session revoked"})
}

func (s *Server) listSessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.sessions.List()
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: sessions})
}

func (s *Server) writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrSessionNotFound):
		writeJSONError(w, "not_found", err.Error(), http.StatusNotFound)
	case errors.Is(err, sessionrepo.ErrSessionEnded):
		writeJSONError(w, "session_ended", err.Error(), http.StatusConflict)
	default:
		s.logger.Error().Err(err).Msg("Session repo failure")
		writeJSONError(w, "internal_error", "internal server error", http.StatusInternalServerError)
	}
}

// decodeBody reads a JSON request body. An empty body leaves out untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(out)
	if err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, "invalid_request", "malformed JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, errorCode, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}
