package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"p2p-chat-be/internal/constant"
	"p2p-chat-be/internal/dto"
	"p2p-chat-be/internal/pkg/apperror"
	internalWS "p2p-chat-be/internal/websocket"
)

var (
	errUnknownEvent   = errors.New("unknown event")
	errForeignUser    = errors.New("presence can only be changed for yourself")
	errMissingPayload = errors.New("missing payload")
)

func decode(data json.RawMessage, v interface{}) error {
	if len(data) == 0 || string(data) == "null" {
		return apperror.ErrInvalidParams.Wrap(errMissingPayload)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperror.ErrInvalidParams.Wrap(err)
	}
	return nil
}

// sendMessage ignores the client's from: the connection's user is the sender.
func (h *ChatHandler) sendMessage(ctx context.Context, s *chatSession, c *internalWS.Client, data json.RawMessage) error {
	var req dto.MessagePayload
	if err := decode(data, &req); err != nil {
		return err
	}
	if req.To <= 0 {
		return apperror.ErrInvalidParams.Wrap(fmt.Errorf("invalid recipient %d", req.To))
	}
	if req.Message == "" {
		return apperror.ErrInvalidParams.Wrap(errors.New("empty message"))
	}

	req.From = s.user.Id
	return h.router.Route(ctx, req.Envelope())
}

func (h *ChatHandler) userOnline(ctx context.Context, s *chatSession, c *internalWS.Client, data json.RawMessage) error {
	userID, err := presenceTarget(s, data)
	if err != nil {
		return err
	}
	h.presence.MarkOnline(ctx, c.ID, userID)
	return nil
}

func (h *ChatHandler) userOffline(ctx context.Context, s *chatSession, c *internalWS.Client, data json.RawMessage) error {
	userID, err := presenceTarget(s, data)
	if err != nil {
		return err
	}
	h.presence.MarkOffline(ctx, c.ID, userID)
	return nil
}

// presenceTarget accepts an omitted or zero userId as "me".
func presenceTarget(s *chatSession, data json.RawMessage) (int64, error) {
	var req dto.UserIDPayload
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &req); err != nil {
			return 0, apperror.ErrInvalidParams.Wrap(err)
		}
	}
	if req.UserID != 0 && req.UserID != s.user.Id {
		return 0, apperror.ErrUnauthorized.Wrap(errForeignUser)
	}
	return s.user.Id, nil
}

// searchUsers takes a bare JSON string; no payload means everyone.
func (h *ChatHandler) searchUsers(ctx context.Context, s *chatSession, c *internalWS.Client, data json.RawMessage) error {
	var query string
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &query); err != nil {
			return apperror.ErrInvalidParams.Wrap(err)
		}
	}

	users, err := h.directory.Search(ctx, query)
	if err != nil {
		return err
	}
	s.emit(c, constant.EventSearchResults, users)
	return nil
}

func (h *ChatHandler) blockUser(ctx context.Context, s *chatSession, c *internalWS.Client, data json.RawMessage) error {
	var req dto.BlockUserRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	return h.blocks.Block(ctx, s.user.Id, req.UserIDToBlock)
}

func (h *ChatHandler) unblockUser(ctx context.Context, s *chatSession, c *internalWS.Client, data json.RawMessage) error {
	var req dto.UnblockUserRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	return h.blocks.Unblock(ctx, s.user.Id, req.UserIDToUnblock)
}

func (h *ChatHandler) getOnlineUsers(ctx context.Context, s *chatSession, c *internalWS.Client, data json.RawMessage) error {
	s.emit(c, constant.EventOnlineUsers, h.presence.OnlineUsers())
	return nil
}
