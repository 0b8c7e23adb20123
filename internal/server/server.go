package server

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"backend-ggtm26/internal/auth"
	"backend-ggtm26/internal/catalog"
	"backend-ggtm26/internal/competition"
	"backend-ggtm26/internal/config"
	"backend-ggtm26/internal/db"
	"backend-ggtm26/internal/elevation"
	"backend-ggtm26/internal/errtrack"
	"backend-ggtm26/internal/planner"
	"backend-ggtm26/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const upstreamTimeout = 15 * time.Second

type Server struct {
	App         *fiber.App
	Cfg         config.Config
	DB          *pgxpool.Pool
	Redis       *redis.Client
	Stream      *stream.Hub
	Planner     *planner.Service
	Competition *competition.Service
	Logger      *slog.Logger
}

func NewServer(cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client) *Server {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	app := fiber.New(fiber.Config{
		ErrorHandler: errtrack.ErrorHandler(log),
		BodyLimit:    16 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	httpClient := &http.Client{Timeout: upstreamTimeout}
	hub := stream.NewHub(redisClient)

	var enricher *elevation.Enricher
	if cfg.ElevationAPIURL != "" {
		enricher = elevation.NewEnricher(elevation.NewOpenElevation(cfg.ElevationAPIURL, httpClient), log)
	}

	window, err := competition.ParseWindow(cfg.CompetitionStart, cfg.CompetitionEnd)
	if err != nil {
		log.Warn("competition window invalid, falling back to defaults", "error", err)
		window, _ = competition.ParseWindow("2026-03-15", "2026-03-22")
	}

	// A nil pool must reach the service as an untyped nil.
	var store db.Querier
	if pool != nil {
		store = pool
	}

	plans := planner.NewService(enricher, hub, planner.Options{
		Catalog: catalog.Options{Event: cfg.EventCode, HomeBase: cfg.HomeBase},
		Region:  cfg.ExportRegion,
	}, log)
	standings := competition.NewService(store, competition.NewStravaClient(cfg.StravaAPIURL, httpClient), window, log)

	s := &Server{
		App:         app,
		Cfg:         cfg,
		DB:          pool,
		Redis:       redisClient,
		Stream:      hub,
		Planner:     plans,
		Competition: standings,
		Logger:      log,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"postgres": s.DB != nil,
			"redis":    s.Redis != nil,
		})
	})

	s.App.Get("/routes/manifest", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"files": catalog.BundledRouteFiles})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	planner.RegisterRoutes(s.App.Group("/plans"), s.Planner)
	competition.RegisterRoutes(s.App.Group("/competition"), s.Competition, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}

// Close releases background resources owned by the server.
func (s *Server) Close() error {
	return s.Stream.Close()
}
