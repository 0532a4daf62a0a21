package api

import (
	"encoding/json"
	"net/http"

	"padelpoint/internal/auth"
	"padelpoint/internal/metrics"
)

// TokenRequest is the login request body.
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
}

// handleToken exchanges credentials for a JWT.
// POST /auth/token
func (s *HTTPServer) handleToken(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("token")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req TokenRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := s.db.GetUserByUsername(r.Context(), req.Username)
	if err != nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		// Same answer for unknown user and wrong password.
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.MintToken(s.cfg.Server.JWTSecret, user.Username, user.Role, s.cfg.TokenTTL())
	if err != nil {
		s.log.Error().Err(err).Str("username", user.Username).Msg("failed to mint token")
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("token issued")
	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        user.Role,
	})
}
