package service

import (
	"context"
	"fmt"
	"strings"

	"p2p-chat-be/internal/dto"
	"p2p-chat-be/internal/entity"
	"p2p-chat-be/internal/pkg/apperror"
	"p2p-chat-be/internal/pkg/authtoken"
	"p2p-chat-be/internal/repository/specification"
	"p2p-chat-be/internal/repository/unitofwork"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// Authenticate resolves a token to an existing user.
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	tokens     *authtoken.Service
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, tokens *authtoken.Service) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		tokens:     tokens,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, apperror.ErrStorage.Wrap(err)
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists
	}

	user := &entity.User{
		Email:       email,
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Name:        strings.TrimSpace(req.Name),
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, apperror.ErrStorage.Wrap(fmt.Errorf("create user: %w", err))
	}

	return s.issue(user)
}

// Login treats the phone number as the credential.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, apperror.ErrStorage.Wrap(err)
	}
	if user == nil {
		return nil, apperror.ErrUserNotFound
	}
	if user.PhoneNumber != strings.TrimSpace(req.PhoneNumber) {
		return nil, apperror.ErrUnauthorized
	}

	return s.issue(user)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: claims.UserID})
	if err != nil {
		return nil, apperror.ErrStorage.Wrap(err)
	}
	if user == nil {
		// A valid signature for a deleted account is still no account.
		return nil, apperror.ErrUnauthorized.Wrap(apperror.ErrUserNotFound)
	}
	return user, nil
}

func (s *authService) issue(user *entity.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Generate(user.Id, user.Email, user.PhoneNumber, user.Name)
	if err != nil {
		return nil, apperror.ErrServerError.Wrap(err)
	}
	return &dto.AuthResponse{
		AccessToken: token,
		Id:          user.Id,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Name:        user.Name,
	}, nil
}
