package main

import (
	"log"
	"net/http"
	"time"

	"github.com/addisbingo/cartela-backend/config"
	"github.com/addisbingo/cartela-backend/controllers"
	"github.com/addisbingo/cartela-backend/game"
	"github.com/addisbingo/cartela-backend/routes"
	"github.com/addisbingo/cartela-backend/services"
	"github.com/addisbingo/cartela-backend/store"
	"github.com/addisbingo/cartela-backend/utils/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	zlog, err := logger.New()
	if err != nil {
		log.Fatalf("[FATAL] Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		zlog.Fatal("DATABASE_URL is required in .env or environment")
	}

	db, err := config.SetupDatabase(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatalf("Failed to connect to DB: %v", err)
	}

	// Core wiring: everything is constructed here and injected; there
	// are no package-level singletons to trip over.
	rounds := store.NewRounds(db, zlog)
	hub := services.NewHub(zlog)
	registry := game.NewRegistry(cfg.Timings, zlog)
	scheduler := game.NewScheduler(registry, hub, rounds, cfg.Timings, zlog)
	arbiter := game.NewArbiter(registry, scheduler, hub, rounds, cfg.PrizePool, zlog)
	gateway := services.NewGateway(registry, scheduler, arbiter, hub, zlog)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(r,
		controllers.NewGameController(registry, db, zlog),
		controllers.NewUserController(db),
		controllers.NewWalletController(db),
	)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})
	r.GET("/ws/:room_id", gateway.Handle)

	zlog.Infof("cartela backend starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		zlog.Fatalf("Failed to start server: %v", err)
	}
}
