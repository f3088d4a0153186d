package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/gtix/helpdesk/internal/api/http"
	"github.com/gtix/helpdesk/internal/api/http/handlers"
	"github.com/gtix/helpdesk/internal/auth"
	"github.com/gtix/helpdesk/internal/config"
	"github.com/gtix/helpdesk/internal/events"
	"github.com/gtix/helpdesk/internal/mail"
	"github.com/gtix/helpdesk/internal/observability"
	"github.com/gtix/helpdesk/internal/persistence"
	"github.com/gtix/helpdesk/internal/repository"
	"github.com/gtix/helpdesk/internal/service"
	"github.com/gtix/helpdesk/internal/worker"
)

const serviceName = "helpdesk-api"
const serviceVersion = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	assigneeRepo := repository.NewAssigneeRepository(pool)
	reviewerRepo := repository.NewReviewerRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	commonIssueRepo := repository.NewCommonIssueRepository(pool)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.CryptoKey, cfg.Auth.SessionTTLHours)
	sessionStore := auth.NewRedisSessionStore(redis.Client)
	googleAuth := auth.NewGoogleAuthenticator(cfg.Google)

	var mailSender mail.Sender
	var mailQueue *worker.MailQueue
	if cfg.SMTP.Enabled() {
		mailQueue = worker.NewMailQueue(mail.NewSMTPSender(cfg.SMTP), logger)
		mailSender = mailQueue
	} else {
		logger.Warn("smtp not configured, email notifications disabled")
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, mailSender, logger, cfg.App.BaseURL())
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(userRepo, assigneeRepo, tokenManager, sessionStore, googleAuth, logger)
	ticketService := service.NewTicketService(ticketRepo, departmentRepo, assigneeRepo, dispatcher, logger)
	departmentService := service.NewDepartmentService(departmentRepo, assigneeRepo, reviewerRepo, ticketRepo, userRepo, logger)
	commentService := service.NewCommentService(commentRepo, ticketRepo, logger)
	commonIssueService := service.NewCommonIssueService(commonIssueRepo, departmentRepo)
	userService := service.NewUserService(userRepo, logger)

	authMiddleware := auth.NewAuthMiddleware(tokenManager, userRepo, assigneeRepo, sessionStore)

	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.App.Env == "production"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(serviceName, serviceVersion, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, cfg.App.FrontendURL),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Departments:    handlers.NewDepartmentsHandler(departmentService),
		Admin:          handlers.NewAdminHandler(departmentService),
		Comments:       handlers.NewCommentsHandler(commentService),
		CommonIssues:   handlers.NewCommonIssuesHandler(commonIssueService),
		Profile:        handlers.NewProfileHandler(userService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	if mailQueue != nil {
		mailQueue.Stop()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
