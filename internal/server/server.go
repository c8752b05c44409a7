// Package server exposes closet sessions, saved designs and exports over
// HTTP.
package server

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/piwi3910/ClosetCraft/internal/model"
	"github.com/piwi3910/ClosetCraft/internal/session"
	"github.com/piwi3910/ClosetCraft/internal/store"
)

// Options configures a Server.
type Options struct {
	AppName      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// AccessLog enables the request log middleware.
	AccessLog bool
	// Defaults supplies the closet and cut plan defaults.
	Defaults model.AppConfig
	// Profiles are custom GCode profiles, looked up before the built-in ones.
	Profiles []model.GCodeProfile
	Logger   *slog.Logger
}

// Server is the closetd HTTP API.
type Server struct {
	app      *fiber.App
	sessions *session.Manager
	designs  *store.Designs
	defaults model.AppConfig
	profiles []model.GCodeProfile
	logger   *slog.Logger
}

// New wires the routes for sessions and designs.
func New(sessions *session.Manager, designs *store.Designs, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Defaults.DefaultFamily == "" {
		opts.Defaults = model.DefaultAppConfig()
	}
	if opts.AppName == "" {
		opts.AppName = "ClosetCraft"
	}
	s := &Server{
		sessions: sessions,
		designs:  designs,
		defaults: opts.Defaults,
		profiles: opts.Profiles,
		logger:   opts.Logger,
	}
	s.app = fiber.New(fiber.Config{
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		AppName:      opts.AppName,
	})

	s.app.Use(recover.New())
	if opts.AccessLog {
		s.app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"*"},
		AllowMethods: []string{"*"},
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	s.app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready", "sessions": s.sessions.Len()})
	})

	s.app.Get("/catalog", s.getCatalog)

	sessions := s.app.Group("/sessions")
	sessions.Get("/", s.listSessions)
	sessions.Post("/", s.createSession)
	sessions.Get("/:id", s.getSession)
	sessions.Delete("/:id", s.closeSession)
	sessions.Patch("/:id", s.editSession)
	sessions.Post("/:id/undo", s.undo)
	sessions.Post("/:id/redo", s.redo)
	sessions.Post("/:id/load/:design", s.loadDesign)
	sessions.Get("/:id/snapshot", s.getSnapshot)
	sessions.Get("/:id/scene", s.getScene)
	sessions.Post("/:id/save", s.saveSession)
	sessions.Get("/:id/export/:format", s.export)
	sessions.Get("/:id/compare", s.compare)

	designs := s.app.Group("/designs")
	designs.Get("/", s.listDesigns)
	designs.Post("/", s.putDesign)
	designs.Get("/export", s.exportDesigns)
	designs.Post("/import", s.importDesigns)
	designs.Get("/:id", s.getDesign)
	designs.Delete("/:id", s.deleteDesign)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server and closes all sessions.
func (s *Server) Shutdown() error {
	for _, id := range s.sessions.IDs() {
		_ = s.sessions.Close(id)
	}
	return s.app.Shutdown()
}
