package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourusername/trivia-backend/internal/config"
	"github.com/yourusername/trivia-backend/internal/handler"
	"github.com/yourusername/trivia-backend/internal/middleware"
	pgRepo "github.com/yourusername/trivia-backend/internal/repository/postgres"
	redisRepo "github.com/yourusername/trivia-backend/internal/repository/redis"
	"github.com/yourusername/trivia-backend/internal/service"
	ws "github.com/yourusername/trivia-backend/internal/websocket"
	"github.com/yourusername/trivia-backend/pkg/auth"
	"github.com/yourusername/trivia-backend/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	isProduction := gin.Mode() == gin.ReleaseMode

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), !isProduction)
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db, cfg.Database.MigrationsPath); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	sqlDB, err := database.GetSQLDB(db)
	if err != nil {
		log.Printf("Failed to get sql.DB: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	scoreRepo := pgRepo.NewScoreRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to create cache repository: %v", err)
		os.Exit(1)
	}

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.JWTExpiration())
	if err != nil {
		log.Printf("Failed to create JWT service: %v", err)
		os.Exit(1)
	}

	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		resendService, err := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to create email service: %v", err)
			os.Exit(1)
		}
		emailService = resendService
	}

	// Контекст фоновых горутин: отменяется при остановке сервера
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	// Инициализируем сервисы
	resolver, err := service.NewIdentityResolver(userRepo)
	if err != nil {
		log.Printf("Failed to create identity resolver: %v", err)
		os.Exit(1)
	}

	scoreService, err := service.NewScoreService(scoreRepo, hub, cfg.Scores.ListLimit, cfg.Scores.LeaderboardLimit)
	if err != nil {
		log.Printf("Failed to create score service: %v", err)
		os.Exit(1)
	}

	authService, err := service.NewAuthService(userRepo, jwtService, emailService)
	if err != nil {
		log.Printf("Failed to create auth service: %v", err)
		os.Exit(1)
	}

	questionService, err := service.NewQuestionService(questionRepo, cacheRepo, cfg.Game.DefaultAmount, cfg.Game.MaxAmount, cfg.Game.CategoriesTTL)
	if err != nil {
		log.Printf("Failed to create question service: %v", err)
		os.Exit(1)
	}

	gameService, err := service.NewGameService(questionService, scoreService, resolver, cacheRepo, cfg.Game.SessionTTL)
	if err != nil {
		log.Printf("Failed to create game service: %v", err)
		os.Exit(1)
	}

	// Инициализируем обработчики
	scoreHandler := handler.NewScoreHandler(scoreService, resolver)
	authHandler := handler.NewAuthHandler(authService, int(jwtService.Expiration().Seconds()))
	questionHandler := handler.NewQuestionHandler(questionService)
	gameHandler := handler.NewGameHandler(gameService)
	wsHandler := handler.NewWSHandler(hub, cfg.CORS.AllowedOrigins)
	healthHandler := handler.NewHealthHandler(map[string]handler.Pinger{
		"postgres": handler.PingFunc(sqlDB.PingContext),
		"redis": handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}),
	})

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient, cfg.RateLimit.Enabled)
	authLimit := rateLimiter.Limit(middleware.AuthRateLimitConfig(cfg.RateLimit.AuthPerMinute))
	guestScoreLimit := rateLimiter.Limit(middleware.GuestScoreRateLimitConfig(cfg.RateLimit.GuestScoresPerMinute))

	router := gin.Default()

	// В production не доверяем прокси-заголовкам (защита от IP spoofing)
	trustedProxies := []string{"127.0.0.1", "::1"}
	if isProduction {
		trustedProxies = nil
	}
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		log.Printf("Warning: failed to set trusted proxies: %v", err)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.Metrics())

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authLimit, authHandler.Register)
			authGroup.POST("/register-nickname", authLimit, authHandler.RegisterNickname)
			authGroup.POST("/check-nickname", authHandler.CheckNickname)
			authGroup.POST("/login", authLimit, authHandler.Login)
			authGroup.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
			authGroup.POST("/change-password", authMiddleware.RequireAuth(), authHandler.ChangePassword)
		}

		scores := api.Group("/scores")
		{
			scores.POST("", authMiddleware.RequireAuth(), scoreHandler.SubmitScore)
			scores.POST("/legacy", guestScoreLimit, scoreHandler.SubmitLegacyScore)
			scores.GET("", authMiddleware.OptionalAuth(), scoreHandler.ListScores)
			scores.GET("/stats", authMiddleware.OptionalAuth(), scoreHandler.GetStats)
			scores.GET("/leaderboard", scoreHandler.GetLeaderboard)
			scores.GET("/export", authMiddleware.OptionalAuth(), scoreHandler.ExportScores)
		}

		questions := api.Group("/questions")
		{
			questions.GET("", questionHandler.ListQuestions)
			questions.GET("/categories", questionHandler.ListCategories)
		}

		games := api.Group("/games", authMiddleware.RequireAuth())
		{
			games.POST("", gameHandler.StartGame)
			games.GET("/:id", middleware.ExtractUUIDParam("id", handler.GameIDContextKey), gameHandler.GetGame)
			games.POST("/:id/answer", middleware.ExtractUUIDParam("id", handler.GameIDContextKey), gameHandler.SubmitAnswer)
		}

		api.GET("/ws/scores", wsHandler.HandleConnection)
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Хаб останавливаем после HTTP: новые результаты больше не поступают
	cancel()

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Server exited properly")
}
