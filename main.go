package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"notedeck/config"
	"notedeck/handler"
	"notedeck/middleware"
	"notedeck/realtime"
	"notedeck/repository"
	"notedeck/services"
	"notedeck/usecase"
	"notedeck/utils"
)

const maxRequestBodySize = 1 << 20 // 1 MiB

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
		"REFRESH_TOKEN_EXPIRATION_TIME",
		"GOOGLE_CLIENT_ID",
		"GOOGLE_CLIENT_SECRET",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()
	utils.InitMongoClient(config.LoadDatabaseConfig().ClientOptions())

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		blacklist, err := services.NewTokenBlacklist(redisURL)
		if err != nil {
			log.Fatalf("Failed to initialize token blacklist: %v", err)
		}
		services.TokenBlacklist = blacklist

		cache, err := services.NewSessionCache(redisURL)
		if err != nil {
			log.Fatalf("Failed to initialize session cache: %v", err)
		}
		services.GlobalSessionCache = cache
	} else {
		log.Println("REDIS_URL not set, token blacklist and session cache disabled")
	}
}

func setupRouter(hub *realtime.Hub, watcher *realtime.Watcher) *gin.Engine {
	router := gin.Default()

	usersRepo := repository.GetUsersRepo(utils.MongoClient)
	sessionRepo := repository.GetSessionRepo(utils.MongoClient)
	notesRepo := repository.GetNotesRepo(utils.MongoClient)

	notesService := &usecase.NotesService{
		NotesRepo: notesRepo,
	}

	authHandler := handler.NewAuthHandler(
		config.LoadGoogleConfig().OAuthConfig(), usersRepo, sessionRepo)
	twoFactorHandler := handler.NewTwoFactorHandler(usersRepo)
	statsHandler := handler.NewStatsHandler(usersRepo, notesRepo, sessionRepo)
	wsHandler := handler.NewWebSocketHandler(hub, watcher)

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestSizeLimiter(maxRequestBodySize))
	router.Use(middleware.SessionMiddleware(sessionRepo))

	router.GET("/health", handler.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.GET("/google/login", authHandler.GoogleLoginHandler)
			auth.GET("/google/callback", authHandler.GoogleCallbackHandler)
			auth.POST("/2fa", authHandler.TwoFactorLoginHandler)
			auth.POST("/refresh", handler.RefreshTokenHandler)
		}
	}

	// Protected routes (authentication required)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", func(c *gin.Context) {
				handler.GetProfileHandler(c, usersRepo)
			})
			user.GET("/stats", statsHandler.GetUserStats)
			user.POST("/logout", func(c *gin.Context) {
				handler.LogoutHandler(c, sessionRepo)
			})
			user.DELETE("/delete", func(c *gin.Context) {
				handler.DeleteAccountHandler(c, usersRepo, sessionRepo)
			})
		}

		twoFactor := protected.Group("/2fa")
		{
			twoFactor.POST("/generate", twoFactorHandler.GenerateSecretHandler)
			twoFactor.POST("/enable", twoFactorHandler.EnableHandler)
			twoFactor.POST("/verify", twoFactorHandler.VerifyHandler)
			twoFactor.POST("/disable", twoFactorHandler.DisableHandler)
		}

		sessions := protected.Group("/sessions")
		{
			sessions.GET("/active", func(c *gin.Context) {
				handler.GetActiveSessions(c, sessionRepo)
			})
			sessions.POST("/logout-all", func(c *gin.Context) {
				handler.LogoutAllSessions(c, sessionRepo)
			})
		}

		notes := protected.Group("/notes")
		{
			notes.GET("/", func(c *gin.Context) {
				handler.GetUserNotesHandler(c, notesService)
			})
			notes.POST("/", func(c *gin.Context) {
				handler.CreateNoteHandler(c, notesService)
			})
			notes.PUT("/:id", func(c *gin.Context) {
				handler.UpdateNoteHandler(c, notesService)
			})
			notes.DELETE("/:id", func(c *gin.Context) {
				handler.DeleteNoteHandler(c, notesService)
			})
			notes.POST("/:id/pin", func(c *gin.Context) {
				handler.TogglePinHandler(c, notesService)
			})
			notes.PUT("/:id/position", func(c *gin.Context) {
				handler.ReorderNoteHandler(c, notesService)
			})
		}
	}

	// The websocket route authenticates inside the handler because browsers
	// cannot attach an Authorization header to the upgrade request.
	router.GET("/api/notes/ws", wsHandler.HandleConnection)

	return router
}

// runWatcher tails the notes change stream, reopening it after failures.
func runWatcher(ctx context.Context, watcher *realtime.Watcher, notesRepo *repository.NotesRepo) {
	for {
		stream, err := notesRepo.Watch(ctx)
		if err != nil {
			log.Printf("failed to open change stream: %v", err)
		} else if err := watcher.Run(ctx, stream); err != nil {
			log.Printf("change stream ended: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func main() {
	notesRepo := repository.GetNotesRepo(utils.MongoClient)
	notesService := &usecase.NotesService{NotesRepo: notesRepo}

	if err := repository.SetupIndexes(utils.MongoClient.Database(os.Getenv("MONGO_DB"))); err != nil {
		log.Printf("index setup failed: %v", err)
	}

	hub := realtime.NewHub(
		utils.GetEnvAsInt("WS_MAX_CONN_PER_USER", 5),
		utils.GetEnvAsDuration("WS_WRITE_WAIT", 10*time.Second),
		utils.GetEnvAsDuration("WS_PONG_WAIT", 60*time.Second),
		utils.GetEnvAsDuration("WS_PING_PERIOD", 54*time.Second),
	)
	go hub.Run()

	watcher := realtime.NewWatcher(hub, notesService)
	go runWatcher(context.Background(), watcher, notesRepo)

	router := setupRouter(hub, watcher)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
