package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shop-checkout/internal/core/config"
	"shop-checkout/internal/core/httpx"
	"shop-checkout/internal/core/logger"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "shop-checkout/docs/swagger"
)

// Check is a named dependency probe reported by /healthz.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Success bool              `json:"success"`
	Checks  map[string]string `json:"checks"`
}

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg    *config.AppConfig
	checks []Check
}

// New creates a new Server instance with configured middleware.
func New(cfg *config.AppConfig, checks ...Check) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "shop-checkout",
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace:  true,
		StackTraceHandler: logPanic,
	}))

	app.Use(requestid.New(requestid.Config{
		Header: "X-Ray-ID",
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	s := &Server{
		App:    app,
		cfg:    cfg,
		checks: checks,
	}
	app.Get("/healthz", s.health)
	return s
}

func logPanic(c *fiber.Ctx, e any) {
	logger.Get().Error("Handler panicked",
		zap.Any("panic", e),
		zap.String("path", c.Path()),
		zap.Stack("stack"),
	)
}

// errorHandler renders errors that escape a handler, such as unknown routes, in the uniform envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(httpx.ErrorResponse{
			Error: fe.Message,
			RayID: httpx.RayID(c),
		})
	}
	return httpx.WriteError(c, err)
}

func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Success: true, Checks: make(map[string]string, len(s.checks))}
	for _, check := range s.checks {
		if err := check.Ping(ctx); err != nil {
			logger.Get().Warn("Health check failed", zap.String("check", check.Name), zap.Error(err))
			resp.Success = false
			resp.Checks[check.Name] = err.Error()
			continue
		}
		resp.Checks[check.Name] = "ok"
	}

	status := http.StatusOK
	if !resp.Success {
		status = http.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}
