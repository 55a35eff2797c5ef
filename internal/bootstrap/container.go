package bootstrap

import (
	"context"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/config"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/controller"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/handler"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/mailer"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/serverutils"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/token"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/service"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/websocket"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/billing"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/billing/stripe"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/events"
	pktNats "github.com/wsbKuba/Klub-Sztuki-Walk/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const bootstrapModule = "Bootstrap"

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	UserController         controller.IUserController
	ClassController        controller.IClassController
	NewsController         controller.INewsController
	MemberController       controller.IMemberController
	AdminController        controller.IAdminController
	PaymentController      controller.IPaymentController
	SubscriptionController controller.ISubscriptionController

	// Background services, run by main
	ConsumerService     service.IConsumerService
	NotificationService service.INotificationService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// Infrastructure holds the connections the container wires services to.
// Tests and the CLI fill it with fakes or leave the optional parts nil.
type Infrastructure struct {
	UowFactory unitofwork.RepositoryFactory
	Provider   billing.Provider
	Publisher  events.Publisher
	Subscriber service.EventSubscriber
	Redis      *redis.Client
	Email      mailer.IEmailService
	Logger     logger.ILogger
	HubLogger  logger.ILogger
}

// NewContainer connects to NATS and Redis. Neither is required: without them events are dropped
// and pushes stay on this instance.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	infra := Infrastructure{
		UowFactory: unitofwork.NewRepositoryFactory(db),
		Provider:   stripe.NewProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret),
		Publisher:  events.NopPublisher{},
		Logger:     sysLogger,
		HubLogger:  logger.NewIsolatedLogger("logs/notification.log"),
		Email: mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			cfg.App.FrontendURL,
			sysLogger,
		),
	}
	var closers []func()

	// Event bus
	natsPub, err := pktNats.NewPublisher(ctx, cfg.App.NatsURL)
	if err != nil {
		sysLogger.Warn(bootstrapModule, "Failed to connect to NATS Publisher, events are disabled", map[string]interface{}{"error": err.Error()})
	} else {
		infra.Publisher = natsPub
		closers = append(closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn(bootstrapModule, "Failed to connect to NATS Subscriber", map[string]interface{}{"error": err.Error()})
	} else {
		infra.Subscriber = natsSub
		closers = append(closers, natsSub.Close)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		sysLogger.Warn(bootstrapModule, "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		sysLogger.Warn(bootstrapModule, "Failed to connect to Redis, websocket hub runs standalone", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
	} else {
		infra.Redis = rdb
		closers = append(closers, func() { _ = rdb.Close() })
	}

	c := Build(cfg, infra)
	c.closers = append(c.closers, closers...)
	return c
}

// Build wires services and controllers over already connected infrastructure.
func Build(cfg *config.Config, infra Infrastructure) *Container {
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	auth := serverutils.JwtMiddleware(tokens)

	// In-process email queue
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	emailQueue := mailer.NewQueue(pubSub, cfg.App.EmailTopic)
	consumerService := service.NewConsumerService(pubSub, cfg.App.EmailTopic, infra.Email, infra.Logger)

	hubLogger := infra.HubLogger
	if hubLogger == nil {
		hubLogger = infra.Logger
	}
	wsHub := websocket.NewHub(infra.Redis, hubLogger)

	uow := infra.UowFactory
	authService := service.NewAuthService(uow, tokens, infra.Publisher, emailQueue, infra.Logger)
	userService := service.NewUserService(uow)
	catalogService := service.NewCatalogService(uow, infra.Provider, infra.Logger)
	scheduleService := service.NewScheduleService(uow, infra.Publisher, infra.Logger)
	newsService := service.NewNewsService(uow)
	memberService := service.NewMemberService(uow)
	adminService := service.NewAdminService(uow, emailQueue, infra.Logger)
	subscriptionService := service.NewSubscriptionService(uow, infra.Provider, cfg.App.FrontendURL, infra.Logger)
	paymentService := service.NewPaymentService(uow)
	webhookService := service.NewWebhookService(uow, infra.Provider, infra.Publisher, infra.Logger)
	notifService := service.NewNotificationService(uow, infra.Subscriber, wsHub, emailQueue, hubLogger)

	return &Container{
		AuthController:         controller.NewAuthController(authService, auth),
		UserController:         controller.NewUserController(userService, auth),
		ClassController:        controller.NewClassController(catalogService, scheduleService, auth),
		NewsController:         controller.NewNewsController(newsService, auth),
		MemberController:       controller.NewMemberController(memberService, auth),
		AdminController:        controller.NewAdminController(adminService, auth),
		PaymentController:      controller.NewPaymentController(paymentService, webhookService, auth, infra.Logger),
		SubscriptionController: controller.NewSubscriptionController(subscriptionService, auth),

		ConsumerService:     consumerService,
		NotificationService: notifService,

		NotificationHandler: handler.NewNotificationHandler(notifService, tokens, wsHub, hubLogger),
		WebSocketHub:        wsHub,

		Logger:  infra.Logger,
		closers: []func(){func() { _ = pubSub.Close() }},
	}
}

// Start runs the background workers until ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)
	if err := c.ConsumerService.Consume(ctx); err != nil {
		return err
	}
	return c.NotificationService.Start(ctx)
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
