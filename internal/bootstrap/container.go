package bootstrap

import (
	"context"
	"time"

	"p2p-chat-be/internal/config"
	"p2p-chat-be/internal/controller"
	"p2p-chat-be/internal/handler"
	"p2p-chat-be/internal/pkg/authtoken"
	"p2p-chat-be/internal/pkg/logger"
	"p2p-chat-be/internal/pkg/serverutils"
	"p2p-chat-be/internal/repository/memory"
	"p2p-chat-be/internal/repository/unitofwork"
	"p2p-chat-be/internal/service"
	"p2p-chat-be/internal/session"
	"p2p-chat-be/internal/websocket"
	pktNats "p2p-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	UserController         controller.IUserController
	AnnouncementController controller.IAnnouncementController
	JwtMiddleware          fiber.Handler

	// Realtime
	ChatHandler *handler.ChatHandler
	Hub         *websocket.Hub
	Registry    *session.Registry

	// Background services, started by Start
	PresenceMirror      service.IPresenceMirror
	AnnouncementService service.IAnnouncementService

	Logger logger.ILogger

	presenceBus *gochannel.GoChannel
	natsPub     *pktNats.Publisher
	natsSub     *pktNats.Subscriber
	redis       *redis.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	wsLogger := logger.NewIsolatedLogger(cfg.App.ChatLogFilePath)
	tokens := authtoken.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	c := &Container{Logger: sysLogger}

	// 2. Event buses
	// Transitions must reach the mirror in registry order, so each publish
	// waits for the subscriber's ack.
	c.presenceBus = gochannel.NewGoChannel(
		gochannel.Config{BlockPublishUntilSubscriberAck: true},
		logger.NewWatermillAdapter(sysLogger, "PresenceBus"),
	)

	var bus service.EventBus
	if cfg.App.NatsURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		natsPub, err := pktNats.NewPublisher(ctx, cfg.App.NatsURL)
		cancel()
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS publisher unavailable, chat events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			c.natsPub = natsPub
			bus = natsPub
		}

		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, func(subject string, err error) {
			sysLogger.Error("NatsSubscriber", "Failed to handle event", map[string]interface{}{"subject": subject, "error": err.Error()})
		})
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS subscriber unavailable, announcements disabled", map[string]interface{}{"error": err.Error()})
		} else {
			c.natsSub = natsSub
		}
	}

	// 3. Realtime core
	c.Registry = session.NewRegistry()
	c.Hub = websocket.NewHub(websocket.Options{
		SendBufferSize: cfg.Chat.SendBufferSize,
		MaxMessageSize: cfg.Chat.MaxMessageSize,
	}, wsLogger)
	blockCache := memory.NewBlockCache(cfg.Chat.BlockCacheTTL)

	// 4. Services
	chatEvents := service.NewChatEventPublisher(bus, sysLogger)
	authService := service.NewAuthService(uowFactory, tokens)
	presenceService := service.NewPresenceService(c.Registry, c.Hub, c.presenceBus, wsLogger)
	blockService := service.NewBlockService(uowFactory, c.Registry, c.Hub, blockCache, chatEvents, wsLogger)
	router := service.NewMessageRouter(uowFactory, c.Registry, c.Hub, blockService, chatEvents, wsLogger)
	directoryService := service.NewDirectoryService(uowFactory, c.Registry)
	inboxService := service.NewInboxService(uowFactory)
	c.AnnouncementService = service.NewAnnouncementService(chatEvents, c.natsSub, c.Hub, sysLogger)

	if cfg.App.RedisURL != "" {
		if rdb := connectRedis(cfg.App.RedisURL, sysLogger); rdb != nil {
			c.redis = rdb
			c.PresenceMirror = service.NewPresenceMirror(
				c.presenceBus,
				service.NewRedisPresenceSet(rdb, cfg.Chat.PresenceMirrorKey),
				sysLogger,
			)
		}
	}

	// 5. Transport
	c.ChatHandler = handler.NewChatHandler(c.Hub, authService, presenceService, router, blockService, directoryService, inboxService, wsLogger)
	c.JwtMiddleware = serverutils.NewJwtMiddleware(tokens)
	c.AuthController = controller.NewAuthController(authService)
	c.UserController = controller.NewUserController(directoryService)
	c.AnnouncementController = controller.NewAnnouncementController(c.AnnouncementService)

	return c
}

func connectRedis(url string, log logger.ILogger) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("Bootstrap", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Bootstrap", "Redis unavailable, presence mirror disabled", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// Start launches the background consumers. Their subscriptions end with ctx.
func (c *Container) Start(ctx context.Context) error {
	if c.PresenceMirror != nil {
		if err := c.PresenceMirror.Consume(ctx); err != nil {
			return err
		}
	}
	return c.AnnouncementService.Start(ctx)
}

func (c *Container) Close() {
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if err := c.presenceBus.Close(); err != nil {
		c.Logger.Warn("Bootstrap", "Failed to close presence bus", map[string]interface{}{"error": err.Error()})
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
	_ = c.Logger.Sync()
}
