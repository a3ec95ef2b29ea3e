package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"taskflow-project/backend/models"
	"taskflow-project/backend/repositories"
	"taskflow-project/backend/utils"
)

type UserService struct {
	users     repositories.UserRepository
	blackList map[string]bool
}

// NewUserService takes the password blacklist loaded at startup; a nil map
// disables the blacklist check.
func NewUserService(users repositories.UserRepository, blackList map[string]bool) *UserService {
	return &UserService{users: users, blackList: blackList}
}

// RegisterUser validates, sanitizes and stores a new user. Roles default to
// {user} when none are supplied, so the role set is never empty.
func (s *UserService) RegisterUser(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	v := models.NewValidationError()

	username := strings.TrimSpace(req.Username)
	if len(username) < 3 || len(username) > 20 {
		v.Add("username", "username must be between 3 and 20 characters")
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		v.Add("email", "a valid email is required")
	}
	if req.Name == "" {
		v.Add("name", "name is required")
	}
	if err := s.validatePassword(req.Password); err != nil {
		v.Add("password", err.Error())
	}

	roles := []models.Role{models.RoleUser}
	if len(req.Roles) > 0 {
		parsed, err := models.ParseRoles(req.Roles)
		if err != nil {
			v.Add("roles", err.Error())
		} else {
			roles = parsed
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     html.EscapeString(req.Name),
		LastName: html.EscapeString(req.LastName),
		Username: html.EscapeString(username),
		Email:    html.EscapeString(email),
		Password: string(hashedPassword),
		Roles:    roles,
	}

	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks the credentials and issues a signed token.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err == repositories.ErrNotFound {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// ListUsers returns the public projection of every user, for assignee
// selection in the frontend.
func (s *UserService) ListUsers(ctx context.Context) ([]models.Member, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	members := make([]models.Member, 0, len(users))
	for _, user := range users {
		members = append(members, user.Public())
	}
	return members, nil
}

func (s *UserService) validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	hasUppercase := false
	hasDigit := false
	hasSpecial := false
	const specialChars = "!@#$%^&*.,"
	for _, char := range password {
		switch {
		case char >= 'A' && char <= 'Z':
			hasUppercase = true
		case char >= '0' && char <= '9':
			hasDigit = true
		case strings.ContainsRune(specialChars, char):
			hasSpecial = true
		}
	}
	if !hasUppercase {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one number")
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain at least one special character")
	}
	if s.blackList[password] {
		return fmt.Errorf("password is too common, please choose a stronger one")
	}
	return nil
}
