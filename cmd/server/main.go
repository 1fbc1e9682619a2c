package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/trackboard/trackboard/internal/api"
	"github.com/trackboard/trackboard/internal/database"
	"github.com/trackboard/trackboard/internal/service"
	"github.com/trackboard/trackboard/internal/storage"
	"github.com/trackboard/trackboard/pkg/auth"
	"github.com/trackboard/trackboard/pkg/config"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to optional config file (env vars take precedence)")
	flag.Parse()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewDatabase(cfg.Database.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	fileStorage, err := storage.NewFileStorage(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		log.Println("WARNING: JWT_SECRET not set. Generating a temporary secret; sessions will not survive a restart.")
		jwtSecret = randomSecret()
	}
	jwtManager := auth.NewJWTManager(jwtSecret, cfg.Auth.TokenDuration)

	dispatcher := service.NewWebhookDispatcher(db, cfg.Webhook.Workers)
	dispatcher.Start()
	defer dispatcher.Stop()

	db.SetEventCallback(dispatcher.QueueEvent)

	router := api.SetupRouter(db, jwtManager, api.Handlers{
		Core:      api.NewHandler(db, fileStorage),
		Auth:      api.NewAuthHandler(db, jwtManager),
		Org:       api.NewOrgHandler(db),
		Agile:     api.NewAgileHandler(db),
		Dashboard: api.NewDashboardHandler(db),
		Search:    api.NewSearchHandler(db),
		Token:     api.NewTokenHandler(db),
		Webhook:   api.NewWebhookHandler(db),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("API endpoints: http://%s/api (requires authentication)", addr)
	log.Printf("Admin endpoints: http://%s/admin (requires admin token)", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}
	return hex.EncodeToString(buf)
}
