package bootstrap

import (
	"context"
	"log"
	"time"

	"designhub-be/internal/config"
	"designhub-be/internal/controller"
	"designhub-be/internal/handler"
	"designhub-be/internal/pkg/logger"
	"designhub-be/internal/pkg/mailer"
	"designhub-be/internal/repository/contract"
	"designhub-be/internal/repository/memory"
	"designhub-be/internal/repository/redisstore"
	"designhub-be/internal/repository/unitofwork"
	"designhub-be/internal/service"
	"designhub-be/internal/websocket"
	"designhub-be/pkg/llm/factory"

	pktNats "designhub-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WorkspaceController controller.IWorkspaceController
	TaskController      controller.ITaskController
	ChatController      controller.IChatController
	SlackController     controller.ISlackController
	PaymentController   controller.IPaymentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Board Stream
	BoardHandler *handler.BoardHandler
	WebSocketHub *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// Session store and event deduper. Redis keeps sessions across restarts
	// and between replicas; memory is the single-node default.
	var sessionRepo contract.SlackSessionRepository
	var deduper contract.EventDeduper
	if cfg.App.SessionStore == "redis" {
		sessionRepo = redisstore.NewSessionRepository(rdb)
		deduper = redisstore.NewEventDeduper(rdb)
		log.Printf("[INFO] Using Session Store: REDIS")
	} else {
		sessionRepo = memory.NewSessionRepository()
		deduper = memory.NewEventDeduper()
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/board.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.CommandTopic, sysLogger)

	taskService := service.NewTaskService(
		uowFactory,
		natsPub,
		emailService,
		sysLogger,
		cfg.App.NotifyEmail,
		cfg.App.ClientURL,
	)

	slackChatService := service.NewSlackChatService(
		sessionRepo,
		llmProvider,
		taskService,
		sysLogger,
	)

	slackService := service.NewSlackService(
		service.SlackConfig{
			SigningSecret: cfg.Slack.SigningSecret,
			ClientID:      cfg.Slack.ClientID,
			ClientSecret:  cfg.Slack.ClientSecret,
			RedirectURI:   cfg.Slack.RedirectURI,
			AppURL:        cfg.App.ClientURL,
		},
		uowFactory,
		slackChatService,
		publisherService,
		deduper,
		sysLogger,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.CommandTopic,
		slackService,
		sysLogger,
	)

	workspaceService := service.NewWorkspaceService(uowFactory, sysLogger)
	chatService := service.NewChatService(llmProvider, sysLogger)
	paymentService := service.NewPaymentService(uowFactory, natsPub, emailService)

	// 3.5 Board Stream
	boardService := service.NewBoardService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go boardService.Start()
	}

	// Session expiry sweep. Redis and go-cache evict on their own; the
	// sweep keeps the behavior uniform and logs what it reaps.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if err := slackChatService.CleanupExpiredSessions(context.Background()); err != nil {
				sysLogger.Warn("bootstrap", "session cleanup failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}()

	boardHandler := handler.NewBoardHandler(uowFactory, wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		BoardHandler: boardHandler,
		WebSocketHub: wsHub,
		Logger:       sysLogger,

		WorkspaceController: controller.NewWorkspaceController(workspaceService),
		TaskController:      controller.NewTaskController(taskService),
		ChatController:      controller.NewChatController(chatService),
		SlackController:     controller.NewSlackController(slackService, cfg.Slack.SigningSecret, sysLogger),
		PaymentController:   controller.NewPaymentController(paymentService),

		ConsumerService: consumerService,
	}
}
