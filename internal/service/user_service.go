package service

import (
	"errors"
	"strings"

	"roleplay-online/backend/internal/models"
	"roleplay-online/backend/internal/store"
	apperrors "roleplay-online/backend/pkg/errors"
	"roleplay-online/backend/pkg/jwt"
	"roleplay-online/backend/pkg/logger"
)

// UserService handles the login flow. There are no passwords: supplying an
// email and a nickname is the whole handshake, and the issued token only
// routes per-user records.
type UserService struct {
	store *store.Store
	jwt   *jwt.Service
	log   *logger.Logger
}

func NewUserService(s *store.Store, jwtService *jwt.Service, log *logger.Logger) *UserService {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &UserService{store: s, jwt: jwtService, log: log}
}

// Login completes both steps of the login form. A returning email keeps its
// original record; the submitted nickname is ignored in that case because
// user records are immutable.
func (s *UserService) Login(req models.LoginRequest) (models.User, string, error) {
	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return models.User{}, "", apperrors.NewBadRequestError("INVALID_LOGIN", "email and name are required")
	}

	user, err := s.store.GetUser(email)
	if errors.Is(err, store.ErrNotFound) {
		created := models.NewUser(email, name)
		if err := s.store.SaveUser(created); err != nil {
			return models.User{}, "", apperrors.NewInternalServerError("USER_SAVE_FAILED", "could not persist user")
		}
		s.log.Info("User created", "email", created.Email)
		user = &created
	} else if err != nil {
		return models.User{}, "", apperrors.NewInternalServerError("USER_LOOKUP_FAILED", "could not load user")
	}

	token, err := s.jwt.GenerateToken(user.Email, user.Name)
	if err != nil {
		return models.User{}, "", apperrors.NewInternalServerError("TOKEN_FAILED", "could not issue session token")
	}
	return *user, token, nil
}

// Get loads an existing user record.
func (s *UserService) Get(email string) (models.User, error) {
	user, err := s.store.GetUser(email)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, apperrors.NewNotFoundError("USER_NOT_FOUND", "user not found")
	}
	if err != nil {
		return models.User{}, apperrors.NewInternalServerError("USER_LOOKUP_FAILED", "could not load user")
	}
	return *user, nil
}
