package main

import (
	"time"

	"github.com/DedS3t/monopoly-engine/app/controllers"
	"github.com/DedS3t/monopoly-engine/pkg/routes"
	"github.com/DedS3t/monopoly-engine/platform/ai"
	"github.com/DedS3t/monopoly-engine/platform/board"
	"github.com/DedS3t/monopoly-engine/platform/cache"
	"github.com/DedS3t/monopoly-engine/platform/config"
	"github.com/DedS3t/monopoly-engine/platform/database"
	"github.com/DedS3t/monopoly-engine/platform/lobby"
	"github.com/DedS3t/monopoly-engine/platform/logging"
	"github.com/DedS3t/monopoly-engine/platform/queries"
	socket "github.com/DedS3t/monopoly-engine/platform/sockets"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("loading configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	properties := board.DefaultProperties()
	if cfg.BoardPath != "" {
		if properties, err = board.LoadProperties(cfg.BoardPath); err != nil {
			logrus.WithError(err).Fatal("loading board")
		}
	}

	db := database.PostgreSQLConnection(cfg.DB)
	defer db.Close()
	pool := cache.CreateRedisPool(cfg.Redis.URL)
	defer pool.Close()

	games := lobby.New(queries.Store{DB: db}, cache.NewSnapshots(pool, cfg.Redis.SnapshotTTL), properties, cfg.Game.Settings(),
		lobby.WithCadence(ai.Cadence{Turn: cfg.TurnCadence, Negotiation: cfg.NegotiationCadence}))
	ctl := &controllers.Controller{DB: db, Lobby: games, Secret: []byte(cfg.JWTSecret), TokenTTL: 72 * time.Hour}

	app := fiber.New()

	app.Use(cors.New())
	routes.AuthRoutes(app, ctl)
	routes.GameRoutes(app, ctl)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	routes.PrivateAuthRoutes(app, ctl)
	routes.PrivateGameRoutes(app, ctl)

	go func() {
		if err := socket.CreateSocketIOServer(cfg, games, ctl.DisplayName); err != nil {
			logrus.WithError(err).Fatal("socket.io server stopped")
		}
	}()
	logrus.Fatal(app.Listen(cfg.HTTPAddr))
}
