package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"dayselect-dr/internal/api/handlers"
	"dayselect-dr/internal/api/middleware"
	"dayselect-dr/internal/config"
	"dayselect-dr/internal/store"
)

func main() {
	cfg := loadConfig()

	// Environment overrides for container deployments.
	if port := os.Getenv("API_PORT"); port != "" {
		cfg.Port = port
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid timezone: %v", err)
	}
	holidays, err := cfg.HolidaySet()
	if err != nil {
		log.Fatalf("Invalid holiday calendar: %v", err)
	}

	var st store.Store
	if cfg.Redis.Addr != "" {
		rs, err := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.DB, cfg.Redis.Password)
		if err != nil {
			log.Fatalf("Failed to connect to redis at %s: %v", cfg.Redis.Addr, err)
		}
		log.Printf("Using redis store at %s (db %d)", cfg.Redis.Addr, cfg.Redis.DB)
		st = rs
	} else {
		log.Printf("REDIS_ADDR not set, using in-memory store")
		st = store.NewMemoryStore()
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	drHandler := handlers.NewDRHandler(st, loc, cfg.Program, holidays)
	meterHandler := handlers.NewMeterHandler(st)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/meter-data/batch", meterHandler.IngestBatch)
		api.POST("/dr/day-select/cbl", drHandler.ComputeCBL)
		api.POST("/dr/day-select/reward", drHandler.ComputeReward)
		api.POST("/dayDR", drHandler.DayDR)
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting DR API server on %s (timezone %s)", addr, cfg.Timezone)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func loadConfig() *config.Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", path, err)
	}
	log.Printf("Loaded config from %s", path)
	return cfg
}
