package pharmacy

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"drugstore/domain"
	"drugstore/internal/store"
)

// UserService handles registration and user reads.
type UserService struct {
	users  *store.UserStore
	logger *zap.Logger
}

func NewUserService(users *store.UserStore, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Register creates a user with a zero balance. An empty role defaults to
// CUSTOMER; anything outside the role enum is rejected.
func (s *UserService) Register(username, password string, role domain.Role) (domain.User, error) {
	if role == "" {
		role = domain.RoleCustomer
	}
	if !domain.ValidRole(role) {
		return domain.User{}, ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(username, string(hashed), role)
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

// UpdateProfile changes the authenticated user's own credentials. A
// blank field keeps its current value.
func (s *UserService) UpdateProfile(current, newUsername, newPassword string) error {
	user, err := s.users.ByUsername(nil, current)
	if err != nil {
		return err
	}

	username := user.Username
	if newUsername != "" {
		username = newUsername
	}
	hash := user.Password
	if newPassword != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		hash = string(hashed)
	}

	if err := s.users.UpdateCredentials(user.ID, username, hash); err != nil {
		return err
	}
	s.logger.Info("user updated", zap.Int64("user_id", user.ID))
	return nil
}

func (s *UserService) Get(id int64) (domain.User, error) {
	return s.users.ByID(nil, id)
}

func (s *UserService) GetByUsername(username string) (domain.User, error) {
	return s.users.ByUsername(nil, username)
}

// Customers lists every account with the CUSTOMER role.
func (s *UserService) Customers() ([]domain.User, error) {
	return s.users.ByRole(domain.RoleCustomer)
}
