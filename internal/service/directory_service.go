package service

import (
	"context"
	"strings"

	"p2p-chat-be/internal/dto"
	"p2p-chat-be/internal/entity"
	"p2p-chat-be/internal/pkg/apperror"
	"p2p-chat-be/internal/repository/specification"
	"p2p-chat-be/internal/repository/unitofwork"
	"p2p-chat-be/internal/session"
)

// IDirectoryService lists users with a presence flag. Read only.
type IDirectoryService interface {
	AllUsers(ctx context.Context) ([]dto.UserResponse, error)
	// Search matches the query as a substring of email or phone number.
	// An empty query returns everyone.
	Search(ctx context.Context, query string) ([]dto.UserResponse, error)
	OnlineUsers(ctx context.Context) ([]dto.UserResponse, error)
}

type directoryService struct {
	uowFactory unitofwork.RepositoryFactory
	registry   *session.Registry
}

func NewDirectoryService(uowFactory unitofwork.RepositoryFactory, registry *session.Registry) IDirectoryService {
	return &directoryService{
		uowFactory: uowFactory,
		registry:   registry,
	}
}

func (s *directoryService) AllUsers(ctx context.Context) ([]dto.UserResponse, error) {
	return s.list(ctx)
}

func (s *directoryService) Search(ctx context.Context, query string) ([]dto.UserResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.list(ctx)
	}
	return s.list(ctx, specification.UserContactSearch{Query: query})
}

func (s *directoryService) OnlineUsers(ctx context.Context) ([]dto.UserResponse, error) {
	ids := s.registry.OnlineUserIDs()
	if len(ids) == 0 {
		return []dto.UserResponse{}, nil
	}
	return s.list(ctx, specification.ByIDs{IDs: ids})
}

func (s *directoryService) list(ctx context.Context, specs ...specification.Specification) ([]dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.ErrStorage.Wrap(err)
	}
	return annotate(users, s.registry.OnlineUserIDs()), nil
}

// annotate marks users against one presence snapshot so a single response
// never mixes two registry states.
func annotate(users []*entity.User, online []int64) []dto.UserResponse {
	set := make(map[int64]struct{}, len(online))
	for _, id := range online {
		set[id] = struct{}{}
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		_, ok := set[u.Id]
		out = append(out, dto.NewUserResponse(u, ok))
	}
	return out
}
