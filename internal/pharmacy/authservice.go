package pharmacy

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"drugstore/domain"
	"drugstore/internal/store"
	"drugstore/internal/token"
)

// AuthService checks credentials and issues bearer tokens.
type AuthService struct {
	users  *store.UserStore
	codec  *token.Codec
	logger *zap.Logger
}

func NewAuthService(users *store.UserStore, codec *token.Codec, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, codec: codec, logger: logger}
}

// Login verifies the username/password pair and returns a signed token
// plus the user's role. Unknown usernames and wrong passwords both yield
// ErrBadCredentials and no token.
func (s *AuthService) Login(username, password string) (string, domain.Role, error) {
	user, err := s.users.ByUsername(nil, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", "", ErrBadCredentials
		}
		return "", "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		s.logger.Debug("login rejected", zap.String("username", username))
		return "", "", ErrBadCredentials
	}

	signed, err := s.codec.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return "", "", err
	}
	s.logger.Info("user logged in", zap.String("username", username), zap.String("role", string(user.Role)))
	return signed, user.Role, nil
}
