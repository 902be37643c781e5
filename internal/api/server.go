// @title Laptop Zone API
// @version 1.0
// @description Second-hand laptop marketplace: identity, catalog, bookings and payments.
// @host localhost:5000
// @BasePath /
// @schemes http
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <JWT>

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TajwarSaiyeed/laptop-zone-server/config"
	"github.com/TajwarSaiyeed/laptop-zone-server/infra/queue"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/api/rest/handlers"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/api/rest/middleware"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/clients/stripepay"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/helper/utils"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/interfaces"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/repository"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/repository/memstore"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/repository/mongostore"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/services"
	"github.com/TajwarSaiyeed/laptop-zone-server/pkg/cloudinary"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const shutdownTimeout = 10 * time.Second

// Dependencies are the external adapters the HTTP app is built from.
type Dependencies struct {
	Store    *repository.Store
	Auth     helper.Auth
	Producer interfaces.ProducerHandler
	Gateway  interfaces.PaymentGateway
	Uploader interfaces.Uploader
	Currency string
	BaseURL  string
	Logger   *slog.Logger
}

// App is the assembled HTTP surface plus the services the consumer needs.
type App struct {
	Fiber    *fiber.App
	Users    services.UserService
	Market   services.MarketplaceService
	Payments services.PaymentService
}

// NewApp wires services, guards and handlers onto a fresh fiber app.
func NewApp(deps Dependencies) *App {
	app := fiber.New(fiber.Config{
		AppName:      "laptop-zone",
		ErrorHandler: errorHandler,
		BodyLimit:    8 * 1024 * 1024,
		// Params and queries outlive the request in audit logs and the
		// memory store.
		Immutable: true,
	})

	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(helmet.New(helmet.Config{CrossOriginEmbedderPolicy: "unsafe-none"}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.BaseURL,
		AllowHeaders: "Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	RegisterSwagger(app)

	userSvc := services.NewUserService(deps.Store, deps.Auth, deps.Producer, deps.Logger)
	marketSvc := services.NewMarketplaceService(deps.Store, deps.Uploader, deps.Producer, deps.Logger)
	paymentSvc := services.NewPaymentService(deps.Store, deps.Gateway, deps.Currency, deps.Producer, deps.Logger)

	guards := middleware.NewGuards(deps.Auth, userSvc)

	app.Get("/", HealthCheck)
	handlers.NewUserHandler(userSvc, deps.Auth).SetupRoutes(app, guards)
	handlers.NewUploadHandler(marketSvc, deps.Auth).SetupRoutes(app, guards)
	handlers.NewProductHandler(marketSvc, deps.Auth).SetupRoutes(app, guards)
	handlers.NewOrderHandler(marketSvc, deps.Auth).SetupRoutes(app, guards)
	handlers.NewPaymentHandler(paymentSvc, deps.Auth).SetupRoutes(app, guards)

	return &App{Fiber: app, Users: userSvc, Market: marketSvc, Payments: paymentSvc}
}

func StartServer(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			slog.Error("close store", "err", err)
		}
	}()

	// ---------- Infra ----------
	var producer *queue.Producer
	if cfg.KafkaEnabled() {
		producer = queue.NewProducer(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaUsername, cfg.KafkaPassword)
		defer producer.Close()
	}
	slog.Info("kafka", "enabled", cfg.KafkaEnabled(), "topic", cfg.KafkaTopic)

	var uploader interfaces.Uploader
	if cfg.CloudinaryUrl != "" {
		cld, err := cloudinary.New(cfg.CloudinaryUrl)
		if err != nil {
			return fmt.Errorf("cloudinary init: %w", err)
		}
		uploader = cloudinary.NewCloudinaryUploader(cld)
	}

	var gateway interfaces.PaymentGateway
	if gw := stripepay.New(cfg.StripeSecretKey); gw != nil {
		gateway = gw
	}

	app := NewApp(Dependencies{
		Store:    store,
		Auth:     helper.SetupAuth(cfg.AccessSecret, cfg.AccessTokenTTL),
		Producer: producer,
		Gateway:  gateway,
		Uploader: uploader,
		Currency: cfg.PaymentCurrency,
		BaseURL:  cfg.BaseURL,
		Logger:   slog.Default(),
	})

	// ---------- Settlement consumer ----------
	consumerDone := make(chan struct{})
	if cfg.KafkaEnabled() {
		consumer := queue.NewKafkaConsumer(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaGroupID,
			cfg.KafkaUsername, cfg.KafkaPassword, app.Payments)
		go func() {
			defer close(consumerDone)
			consumer.Listen(ctx)
			_ = consumer.Close()
		}()
	} else {
		close(consumerDone)
	}

	// ---------- Listen ----------
	listenErr := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.ServerPort, "store", cfg.StoreDriver)
		listenErr <- app.Fiber.Listen(cfg.ServerPort)
	}()

	select {
	case err := <-listenErr:
		stop()
		<-consumerDone
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	if err := app.Fiber.ShutdownWithTimeout(shutdownTimeout); err != nil {
		slog.Error("shutdown http", "err", err)
	}
	<-consumerDone
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (*repository.Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		return repository.OpenPostgres(ctx, cfg.DatabaseDSN)
	case config.StoreMongo:
		return mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDB)
	case config.StoreMemory:
		slog.Warn("using in-memory store, data is lost on restart")
		return memstore.New().Store(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// HealthCheck godoc
// @Summary Health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func HealthCheck(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Laptop Zone server is running",
	})
}

// errorHandler renders errors that escape a handler, including fiber's own
// 404 and 405, in the same body shape as handled errors.
func errorHandler(ctx *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		_, code := utils.StatusFor(err)
		return utils.ResponseError(ctx, fe.Code, code, fe.Message)
	}
	slog.Error("unhandled error", "method", ctx.Method(), "path", ctx.Path(), "err", err)
	return utils.ResponseFromError(ctx, err)
}
