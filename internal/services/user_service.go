package services

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ustaBack/internal/models"
	"ustaBack/utils"
)

type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByID(ctx context.Context, id int) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByPhone(ctx context.Context, phone string) (models.User, error)
	CreateSession(ctx context.Context, session models.Session) error
}

type UserService struct {
	Users      UserStore
	Tokens     *utils.Manager
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (s *UserService) SignUp(ctx context.Context, in models.SignUpRequest) (models.User, error) {
	if in.Name == "" || in.Password == "" || (in.Email == "" && in.Phone == "") {
		return models.User{}, models.ErrValidation
	}
	role := in.Role
	if role != models.RoleArtisan && role != models.RoleAdmin {
		role = models.RoleClient
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	return s.Users.Create(ctx, models.User{
		Name:         in.Name,
		Phone:        in.Phone,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
	})
}

func (s *UserService) SignIn(ctx context.Context, in models.SignInRequest) (models.AuthResponse, error) {
	var user models.User
	var err error
	switch {
	case in.Email != "":
		user, err = s.Users.GetByEmail(ctx, in.Email)
	case in.Phone != "":
		user, err = s.Users.GetByPhone(ctx, in.Phone)
	default:
		return models.AuthResponse{}, models.ErrValidation
	}
	if err != nil {
		return models.AuthResponse{}, models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return models.AuthResponse{}, models.ErrInvalidCredentials
	}

	accessToken, err := s.Tokens.NewAccessToken(user.ID, user.Role, s.AccessTTL)
	if err != nil {
		return models.AuthResponse{}, err
	}
	refreshToken, err := s.Tokens.NewRefreshToken()
	if err != nil {
		return models.AuthResponse{}, err
	}

	err = s.Users.CreateSession(ctx, models.Session{
		UserID:       user.ID,
		Role:         user.Role,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.RefreshTTL),
	})
	if err != nil {
		return models.AuthResponse{}, err
	}

	return models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}
