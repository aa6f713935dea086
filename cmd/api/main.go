// @title Attesta API
// @version 1.0
// @description Plateforme d'attestations de prestation de services TGZ Conciergerie
// @BasePath /

package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"attesta/config"
	"attesta/internal/db"
	"attesta/internal/handlers"
	"attesta/internal/services"
	"attesta/internal/services/mailer"
	"attesta/internal/services/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	env := os.Getenv("APP_ENV")
	if env == "prod" || env == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	gormDB, err := db.NewDB(cfg.DSN)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := db.SeedEvents(gormDB); err != nil {
		log.Fatalf("seed events failed: %v", err)
	}

	var sessions services.SessionStore = services.NewMemorySessions()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis url invalid: %v", err)
		}
		sessions = services.NewRedisSessions(redis.NewClient(opts))
	}

	st, err := storage.New(cfg.StorageEndpoint, cfg.StorageAccessKey, cfg.StorageSecretKey,
		cfg.StorageBucket, cfg.StorageUseSSL, cfg.StoragePublicURL)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)

	r := gin.Default()
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{cfg.BaseURL}
	corsCfg.AllowCredentials = true
	r.Use(cors.New(corsCfg))

	r.GET("/health", handlers.Health(gormDB))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Client-facing form API.
	r.POST("/verify-code", handlers.VerifyCode(gormDB))
	r.GET("/events", handlers.ListEvents(gormDB))
	r.GET("/attestations/draft/:tokenID", handlers.GetDraft(gormDB))
	r.PUT("/attestations/draft", handlers.SaveDraft(gormDB))
	r.POST("/finalize-attestation", handlers.FinalizeAttestation(gormDB, st, mail, cfg.AdminEmail))

	// Admin auth and the websocket feed sit outside the middleware: the
	// first two must be reachable logged out, the websocket does its own
	// cookie check.
	r.POST("/admin/login", handlers.AdminLogin(cfg, sessions))
	r.POST("/admin/logout", handlers.AdminLogout(sessions))
	r.GET("/ws/admin/notifications", handlers.AdminWS(sessions))

	admin := r.Group("/admin")
	admin.Use(handlers.AdminMiddleware(sessions))
	admin.GET("/clients", handlers.ListClients(gormDB))
	admin.POST("/clients", handlers.CreateClient(gormDB))
	admin.PUT("/clients/:id", handlers.UpdateClient(gormDB))
	admin.DELETE("/clients/:id", handlers.DeleteClient(gormDB))
	admin.POST("/clients/:id/tokens", handlers.IssueToken(gormDB, cfg.TokenTTLDays))
	admin.GET("/clients/:id/tokens", handlers.TokenHistory(gormDB))
	admin.GET("/clients/:id/whatsapp-link", handlers.WhatsAppLink(gormDB, cfg.BaseURL))
	admin.POST("/clients/:id/send-code", handlers.SendCodeEmail(gormDB, mail, cfg.BaseURL))
	admin.GET("/clients/:id/messages", handlers.MessageHistory(gormDB))
	admin.GET("/events", handlers.ListAllEvents(gormDB))
	admin.POST("/events", handlers.CreateEvent(gormDB))
	admin.PUT("/events/:id", handlers.UpdateEvent(gormDB))
	admin.DELETE("/events/:id", handlers.DeleteEvent(gormDB))
	admin.GET("/attestations", handlers.ListAttestations(gormDB))
	admin.GET("/stats", handlers.GetStats(gormDB))
	admin.POST("/attestations/:id/invoice-toggle", handlers.ToggleInvoice(gormDB))
	admin.DELETE("/attestations/:id", handlers.DeleteAttestation(gormDB))

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
