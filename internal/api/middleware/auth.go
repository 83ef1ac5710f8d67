package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/avsingh/catalogarr/internal/apperrors"
)

// AuthedHandler is a handler that receives the verified account email as an
// explicit parameter rather than ambient request state.
type AuthedHandler func(w http.ResponseWriter, r *http.Request, userEmail string)

// TokenVerifier resolves a bearer token to an account email
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Auth guards a handler with bearer-token verification. Missing, expired
// and invalid tokens all reject with 401.
func Auth(verifier TokenVerifier, logger *logrus.Logger, next AuthedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			unauthorized(w, apperrors.ErrMissingToken.Error())
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(w, apperrors.ErrMissingToken.Error())
			return
		}

		email, err := verifier.Verify(parts[1])
		if err != nil {
			logger.WithError(err).Debug("Rejected bearer token")
			unauthorized(w, err.Error())
			return
		}

		next(w, r, email)
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
