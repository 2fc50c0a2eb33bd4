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

	"github.com/yourusername/karate-api/internal/config"
	"github.com/yourusername/karate-api/internal/handler"
	"github.com/yourusername/karate-api/internal/middleware"
	pgRepo "github.com/yourusername/karate-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/karate-api/internal/repository/redis"
	"github.com/yourusername/karate-api/internal/service"
	"github.com/yourusername/karate-api/pkg/database"
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

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis с использованием унифицированной конфигурации
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	performanceRepo := pgRepo.NewPerformanceRepo(db)
	scoreRepo := pgRepo.NewKataScoreRepo(db)
	matchRepo := pgRepo.NewMatchRepo(db)
	tallyRepo := pgRepo.NewKumiteTallyRepo(db)
	participantRepo := pgRepo.NewParticipantRepo(db)
	categoryRepo := pgRepo.NewCategoryRepo(db)
	finalizationRepo := pgRepo.NewRoundFinalizationRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	kataService := service.NewKataService(performanceRepo, scoreRepo, categoryRepo,
		finalizationRepo, cacheRepo, db, cfg.Scoring.PerformanceCacheTTL)
	kumiteService := service.NewKumiteService(matchRepo, tallyRepo, finalizationRepo, db)
	roundService := service.NewRoundService(performanceRepo, matchRepo, participantRepo,
		categoryRepo, finalizationRepo, cacheRepo, db, cfg.Scoring.FinalizeLockTTL)

	// Инициализируем обработчики
	kataHandler := handler.NewKataHandler(kataService)
	kumiteHandler := handler.NewKumiteHandler(kumiteService)
	roundHandler := handler.NewRoundHandler(roundService)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	// В production (GIN_MODE=release): не доверяем прокси (защита от IP spoofing)
	// В development: доверяем localhost
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8000", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Выступления ката
		performances := api.Group("/performances/:id")
		performances.Use(middleware.ExtractUintParam("id", "performanceID")) // Применяем middleware
		{
			performances.GET("", kataHandler.GetPerformance)
			performances.POST("/scores", kataHandler.SubmitScore)
			performances.DELETE("/scores/:judgeId", kataHandler.RetractScore)
		}

		// Категории: раунды и итоговый протокол
		categories := api.Group("/categories/:id")
		categories.Use(middleware.ExtractUintParam("id", "categoryID"))
		{
			categories.POST("/rounds", roundHandler.CreateRound)
			categories.POST("/rounds/finalize", roundHandler.FinalizeRound)
			categories.GET("/rounds/:round", roundHandler.GetRoundStandings)
			categories.GET("/placements", roundHandler.GetPlacements)
			categories.GET("/placements/export", roundHandler.ExportPlacements)
		}

		// Матчи кумитэ
		matches := api.Group("/matches/:id")
		matches.Use(middleware.ExtractUintParam("id", "matchID"))
		{
			matches.GET("", kumiteHandler.GetMatch)
			matches.POST("/tally", kumiteHandler.SubmitTally)
			matches.POST("/winner", kumiteHandler.CalculateWinner)
			matches.POST("/reopen", kumiteHandler.ReopenMatch)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ждем сигнал остановки и корректно завершаем работу сервера
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
