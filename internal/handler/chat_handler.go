package handler

import (
	"context"
	"encoding/json"
	"strings"

	"p2p-chat-be/internal/constant"
	"p2p-chat-be/internal/dto"
	"p2p-chat-be/internal/entity"
	"p2p-chat-be/internal/pkg/apperror"
	"p2p-chat-be/internal/pkg/logger"
	"p2p-chat-be/internal/service"
	internalWS "p2p-chat-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const localUser = "chat_user"

// eventFunc handles one inbound frame for an authenticated session.
type eventFunc func(ctx context.Context, s *chatSession, c *internalWS.Client, data json.RawMessage) error

type ChatHandler struct {
	hub       *internalWS.Hub
	auth      service.IAuthService
	presence  service.IPresenceService
	router    service.IMessageRouter
	blocks    service.IBlockService
	directory service.IDirectoryService
	inbox     service.IInboxService
	logger    logger.ILogger

	handlers map[string]eventFunc
}

func NewChatHandler(
	hub *internalWS.Hub,
	auth service.IAuthService,
	presence service.IPresenceService,
	router service.IMessageRouter,
	blocks service.IBlockService,
	directory service.IDirectoryService,
	inbox service.IInboxService,
	log logger.ILogger,
) *ChatHandler {
	h := &ChatHandler{
		hub:       hub,
		auth:      auth,
		presence:  presence,
		router:    router,
		blocks:    blocks,
		directory: directory,
		inbox:     inbox,
		logger:    log,
	}
	h.handlers = map[string]eventFunc{
		constant.EventSendMessage:    h.sendMessage,
		constant.EventUserOnline:     h.userOnline,
		constant.EventUserOffline:    h.userOffline,
		constant.EventSearchUsers:    h.searchUsers,
		constant.EventBlockUser:      h.blockUser,
		constant.EventUnblockUser:    h.unblockUser,
		constant.EventGetOnlineUsers: h.getOnlineUsers,
	}
	return h
}

func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.Authenticate, h.ServeWs())
}

// Authenticate resolves the handshake token before the upgrade, so a bad
// token never reaches the registry.
func (h *ChatHandler) Authenticate(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	// Query param for browsers, header for everything else.
	token := c.Query("token")
	if token == "" {
		if auth := c.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}

	user, err := h.auth.Authenticate(c.UserContext(), token)
	if err != nil {
		h.logger.Warn("ChatHandler", "Rejected websocket handshake", map[string]interface{}{
			"ip": c.IP(), "error": err.Error(),
		})
		if apperror.Is(err, apperror.ErrStorage) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": apperror.GetMessage(err)})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": apperror.GetMessage(err)})
	}

	c.Locals(localUser, user)
	return c.Next()
}

func (h *ChatHandler) ServeWs() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		user, ok := conn.Locals(localUser).(*entity.User)
		if !ok {
			conn.Close()
			return
		}
		internalWS.ServeWs(h.hub, conn, user.Id, h.Session(user))
	})
}

// Session binds the handler to one authenticated user.
func (h *ChatHandler) Session(user *entity.User) internalWS.SessionHandler {
	return &chatSession{ChatHandler: h, user: user}
}

type chatSession struct {
	*ChatHandler
	user *entity.User
}

// OnConnect registers the session, sends the initial state, then announces
// the arrival. Failures of one initial push do not prevent the others.
func (s *chatSession) OnConnect(c *internalWS.Client) {
	ctx := context.Background()
	s.presence.Attach(ctx, c.ID, s.user.Id)

	if users, err := s.directory.AllUsers(ctx); err != nil {
		s.fail(c, constant.EventAllUsers, err)
	} else {
		s.emit(c, constant.EventAllUsers, users)
	}

	if msgs, err := s.inbox.Drain(ctx, s.user.Id); err != nil {
		s.fail(c, constant.EventOfflineMessages, err)
	} else {
		s.emit(c, constant.EventOfflineMessages, dto.NewOfflineMessageResponses(msgs))
	}

	if ids, err := s.blocks.BlockedUsers(ctx, s.user.Id); err != nil {
		s.fail(c, constant.EventBlockedUsers, err)
	} else {
		s.emit(c, constant.EventBlockedUsers, ids)
	}

	s.presence.AnnounceJoined(ctx, s.user)
	s.logger.Info("ChatHandler", "Session started", map[string]interface{}{"connection_id": c.ID, "user_id": s.user.Id})
}

func (s *chatSession) OnDisconnect(c *internalWS.Client) {
	s.presence.Disconnect(context.Background(), c.ID)
	s.logger.Info("ChatHandler", "Session ended", map[string]interface{}{"connection_id": c.ID, "user_id": s.user.Id})
}

func (s *chatSession) HandleFrame(c *internalWS.Client, frame dto.InboundFrame) {
	fn, ok := s.handlers[frame.Event]
	if !ok {
		s.fail(c, frame.Event, apperror.ErrInvalidParams.Wrap(errUnknownEvent))
		return
	}
	if err := fn(context.Background(), s, c, frame.Data); err != nil {
		s.fail(c, frame.Event, err)
	}
}

func (s *chatSession) emit(c *internalWS.Client, event string, data interface{}) {
	if err := c.Emit(event, data); err != nil {
		s.logger.Warn("ChatHandler", "Reply not delivered", map[string]interface{}{
			"event": event, "connection_id": c.ID, "error": err.Error(),
		})
	}
}

// fail reports an error to the originating connection only.
func (s *chatSession) fail(c *internalWS.Client, event string, err error) {
	s.logger.Warn("ChatHandler", "Event failed", map[string]interface{}{
		"event": event, "connection_id": c.ID, "user_id": s.user.Id, "error": err.Error(),
	})
	s.emit(c, constant.EventError, dto.ErrorPayload{
		Event:   event,
		Code:    apperror.GetCode(err),
		Message: apperror.GetMessage(err),
	})
}
