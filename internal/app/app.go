package app

import (
	"database/sql"
	"fmt"
	"log"

	"inkpress/internal/config"
	"inkpress/internal/handlers"
	"inkpress/internal/repositories"
	"inkpress/internal/routes"
	"inkpress/internal/services"
	"inkpress/internal/storage"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOtpRepository(db)
	postRepo := repositories.NewPostRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	subscriberRepo := repositories.NewSubscriberRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	legalRepo := repositories.NewLegalRepository(db)

	// === Services ===
	authService := services.NewAuthService(cfg.Auth.JWTSecret)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	uploadStore, err := storage.NewUploadStore(cfg.Files.UploadsDir)
	if err != nil {
		log.Fatal("failed to prepare uploads dir: ", err)
	}

	accountService := services.NewAccountService(
		userRepo, otpRepo, authService, emailService,
		cfg.Auth.AdminEmail, cfg.URLs.Backend,
	)
	postService := services.NewPostService(postRepo, categoryRepo, uploadStore)
	legalService := services.NewLegalService(legalRepo)
	subscriberService := services.NewSubscriberService(subscriberRepo, emailService, cfg.URLs.Backend)

	// Telegram уведомления — только если задан токен
	var telegram *services.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		telegram, err = services.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			log.Printf("telegram disabled: %v", err)
			telegram = nil
		}
	}
	contactService := services.NewContactService(contactRepo, emailService, telegram, cfg.Email.ContactEmail)
	sitemapService := services.NewSitemapService(postRepo, cfg.URLs.Site)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(accountService, cfg.URLs.Frontend, cfg.Server.Production)
	postHandler := handlers.NewPostHandler(postService)
	legalHandler := handlers.NewLegalHandler(legalService)
	subscribeHandler := handlers.NewSubscribeHandler(subscriberService, cfg.URLs.Frontend)
	contactHandler := handlers.NewContactHandler(contactService)
	sitemapHandler := handlers.NewSitemapHandler(sitemapService)

	// === Gin ===
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg.URLs.Frontend))

	// uploaded images are served straight off disk
	router.Static(storage.URLPrefix, cfg.Files.UploadsDir)

	routes.SetupRoutes(
		router,
		authService,
		authHandler,
		postHandler,
		legalHandler,
		subscribeHandler,
		contactHandler,
		sitemapHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server failed: ", err)
	}
}

func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
