// Package auth implements accounts: signup, login and bearer tokens.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/timshannon/bolthold"
	"golang.org/x/crypto/bcrypt"

	"github.com/avsingh/catalogarr/internal/apperrors"
	"github.com/avsingh/catalogarr/internal/models"
)

// Service handles account signup and login
type Service struct {
	db     *models.Database
	tokens *TokenManager
	logger *logrus.Logger
}

// NewService creates a new account service
func NewService(db *models.Database, tokens *TokenManager, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		tokens: tokens,
		logger: logger,
	}
}

// Signup registers a new account
func (s *Service) Signup(email, password, fullName string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return &apperrors.ValidationError{Field: "email", Reason: "missing"}
	}
	if password == "" {
		return &apperrors.ValidationError{Field: "password", Reason: "missing"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
		DateJoined:   time.Now(),
		IsActive:     true,
	}

	if err := s.db.CreateUser(user); err != nil {
		if errors.Is(err, bolthold.ErrKeyExists) {
			return apperrors.ErrDuplicateEmail
		}
		return err
	}

	s.logger.WithField("email", email).Info("User registered")
	return nil
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.db.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return "", apperrors.ErrInvalidCredentials
		}
		return "", err
	}

	if !user.IsActive {
		return "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.db.UpdateUser(user); err != nil {
		s.logger.WithError(err).WithField("email", email).Warn("Failed to record last login")
	}

	return s.tokens.Issue(user.Email)
}
