package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"octopus-dashboard/internal/api/handlers"
	"octopus-dashboard/internal/api/middleware"
	"octopus-dashboard/internal/config"
	"octopus-dashboard/internal/credentials"
	"octopus-dashboard/internal/dashboard"
	"octopus-dashboard/internal/history"
	"octopus-dashboard/internal/octopus"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	key, err := cfg.CookieKeyBytes()
	if err != nil {
		log.Fatalf("Invalid cookie key: %v", err)
	}
	if key == nil {
		key, err = credentials.GenerateKey()
		if err != nil {
			log.Fatalf("Failed to generate cookie key: %v", err)
		}
		log.Printf("COOKIE_KEY not set; generated an ephemeral key. Saved credentials will not survive a restart.")
	}
	cipher, err := credentials.NewAESCipher(key)
	if err != nil {
		log.Fatalf("Failed to initialize cookie cipher: %v", err)
	}
	store := credentials.NewCookieStore(cipher)

	maxAge, err := cfg.HistoryMaxAge()
	if err != nil {
		log.Fatalf("Invalid history config: %v", err)
	}
	buffer := history.New(maxAge)

	client := octopus.New(cfg.Octopus.RESTURL, cfg.Octopus.GraphQLURL)
	service := dashboard.New(client, buffer)

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS())
	router.Use(middleware.Recovery())

	credHandler := handlers.NewCredentialsHandler(store)
	usageHandler := handlers.NewUsageHandler(store, service)

	router.POST("/api/save-credentials", credHandler.Save)
	router.GET("/api/credentials", credHandler.Get)
	router.GET("/api/live-usage", usageHandler.LiveUsage)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	mountStatic(router, cfg.StaticDir)

	addr := ":" + cfg.Port
	log.Printf("[API] Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// mountStatic serves the dashboard page and its assets, falling back to
// index.html for non-API routes.
func mountStatic(router *gin.Engine, staticDir string) {
	if staticDir == "" {
		staticDir = "./web/public"
	}
	if _, err := os.Stat(staticDir); err != nil {
		log.Printf("[API] Static directory %s not found, skipping static file serving", staticDir)
		return
	}

	index := filepath.Join(staticDir, "index.html")
	router.StaticFile("/", index)
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.FileFromFS(c.Request.URL.Path, http.Dir(staticDir))
	})
	log.Printf("[API] Serving static files from %s", staticDir)
}
