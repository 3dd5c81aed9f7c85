package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/fekuna/omnipos-dashboard/config"
	"github.com/fekuna/omnipos-dashboard/internal/payment"
	"github.com/fekuna/omnipos-dashboard/internal/product"
	"github.com/fekuna/omnipos-dashboard/internal/sale"
	"github.com/fekuna/omnipos-dashboard/internal/subscription"
	"github.com/fekuna/omnipos-dashboard/pkg/i18n"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/fekuna/omnipos-dashboard/pkg/mailer"
	"github.com/fekuna/omnipos-dashboard/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const shutdownTimeout = 10 * time.Second

// Deps are the external collaborators. Cache and Events may be nil, which
// disables list caching and sale events. A nil Mailer logs emails and a nil
// Provider uses the configured payment client.
type Deps struct {
	DB       *sqlx.DB
	Cache    product.Cache
	Events   sale.Publisher
	Mailer   mailer.Mailer
	Provider subscription.Provider
}

type Server struct {
	cfg    *config.Config
	deps   Deps
	logger logger.ZapLogger
	app    *fiber.App
	grpc   *grpc.Server
	health *health.Server
}

func New(cfg *config.Config, deps Deps, log logger.ZapLogger) (*Server, error) {
	if deps.DB == nil {
		return nil, errors.New("server: database is required")
	}
	if deps.Mailer == nil {
		deps.Mailer = mailer.NewLogMailer(log)
	}
	if deps.Provider == nil {
		deps.Provider = payment.NewClient(cfg.Payment, cfg.Server.AppURL, log)
	}

	tr, err := i18n.New()
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	loc, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		return nil, fmt.Errorf("report timezone: %w", err)
	}

	// Money is rendered as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	app := fiber.New(fiber.Config{
		AppName:      "omnipos-dashboard",
		Immutable:    true,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorHandler: middleware.ErrorHandler(log, tr),
	})
	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.AppURL,
		AllowHeaders:  "Origin, Content-Type, Accept, Accept-Language, Authorization",
		ExposeHeaders: "X-Total-Count, X-Request-ID",
	}))

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: log,
		app:    app,
		grpc:   grpc.NewServer(),
		health: health.NewServer(),
	}
	s.registerRoutes(tr, loc)

	healthpb.RegisterHealthServer(s.grpc, s.health)
	reflection.Register(s.grpc)
	return s, nil
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) healthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := s.deps.DB.PingContext(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy"})
	}
	return c.JSON(fiber.Map{"status": "healthy"})
}

// Run serves HTTP and gRPC until ctx is cancelled or a listener fails, then
// shuts both down.
func (s *Server) Run(ctx context.Context) error {
	grpcAddr := listenAddr(s.cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		s.logger.Info("Starting gRPC server", zap.String("port", grpcAddr))
		if err := s.grpc.Serve(lis); err != nil {
			errCh <- fmt.Errorf("serve grpc: %w", err)
		}
	}()
	go func() {
		httpAddr := listenAddr(s.cfg.Server.HTTPPort)
		s.logger.Info("Starting HTTP server", zap.String("port", httpAddr))
		if err := s.app.Listen(httpAddr); err != nil {
			errCh <- fmt.Errorf("serve http: %w", err)
		}
	}()
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	s.logger.Info("Shutting down server...")
	s.health.Shutdown()
	s.grpc.GracefulStop()
	shutdownErr := s.app.ShutdownWithTimeout(shutdownTimeout)
	s.logger.Info("Server stopped")
	return errors.Join(runErr, shutdownErr)
}

func listenAddr(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
