package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alertify/backend/internal/config"
	"github.com/alertify/backend/internal/handlers"
	appMiddleware "github.com/alertify/backend/internal/middleware"
	"github.com/alertify/backend/internal/observability"
	"github.com/alertify/backend/internal/services"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	metrics := observability.NewMetrics()

	// Ledger store: Firestore in production, JSON-file fallback for local runs.
	var ledgerStore services.LedgerStore
	if cfg.FirebaseProjectID != "" {
		store, err := services.NewFirestoreLedgerStore(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
		if err != nil {
			log.Fatalf("[server] firestore init failed: %v", err)
		}
		ledgerStore = store
	} else {
		store, err := services.NewFileLedgerStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("[server] ledger store init failed: %v", err)
		}
		log.Printf("[server] FIREBASE_PROJECT_ID not set, using file-backed ledger store")
		ledgerStore = store
	}
	ledgerService := services.NewLedgerService(ledgerStore)

	// Feedback store: Mongo in production, memory fallback otherwise.
	var feedbackStore services.FeedbackStore
	if cfg.MongoURI != "" {
		store, err := services.NewMongoFeedbackStore(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("[server] mongo init failed: %v", err)
		}
		feedbackStore = store
	} else {
		log.Printf("[server] MONGO_URI not set, using in-memory feedback store")
		feedbackStore = services.NewMemoryFeedbackStore()
	}
	feedbackService := services.NewFeedbackService(feedbackStore)

	// Weather cache is optional; the service runs uncached when Redis is down.
	var weatherCache *services.WeatherCache
	if cfg.RedisAddr != "" {
		cache, err := services.NewWeatherCache(ctx, cfg.RedisAddr, cfg.WeatherCacheTTL)
		if err != nil {
			log.Printf("[server] redis unavailable, weather cache disabled: %v", err)
		} else {
			weatherCache = cache
		}
	}

	primary := services.NewOpenWeatherClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, cfg.PrimaryTimeout)
	secondary := services.NewWeatherProxyClient(cfg.WeatherProxyURL, cfg.SecondaryTimeout)
	weatherService := services.NewWeatherService(primary, secondary, weatherCache, metrics)

	userService, err := services.NewUserService(cfg.DataDir)
	if err != nil {
		log.Fatalf("[server] user service init failed: %v", err)
	}

	reminderService, err := services.NewReminderService(cfg.DataDir)
	if err != nil {
		log.Fatalf("[server] reminder service init failed: %v", err)
	}

	recommendService := services.NewRecommendService(cfg.GeminiAPIKey, cfg.GeminiTimeout)

	authHandler := handlers.NewAuthHandler(userService, ledgerService, cfg.JWTSecret, cfg.JWTExpiration, cfg.DemoSecret)
	forumHandler := handlers.NewForumHandler(ledgerService, metrics)
	weatherHandler := handlers.NewWeatherHandler(weatherService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, metrics)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	recommendHandler := handlers.NewRecommendHandler(recommendService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "x-demo-secret"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/weather", weatherHandler.GetWeather)
	r.Post("/gemini-api", recommendHandler.Recommend)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/create-user", authHandler.CreateUser)

		r.Get("/forum/posts", forumHandler.ListPosts)
		r.Get("/forum/posts/{postId}/comments", forumHandler.ListComments)
		r.Get("/feedback", feedbackHandler.ListRecent)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))

			r.Get("/profile", authHandler.GetProfile)

			r.Post("/forum/posts", forumHandler.CreatePost)
			r.Post("/forum/posts/{postId}/like", forumHandler.LikePost)
			r.Post("/forum/posts/{postId}/star", forumHandler.StarPost)
			r.Post("/forum/posts/{postId}/comments", forumHandler.CreateComment)

			r.Post("/feedback", feedbackHandler.Submit)

			r.Route("/reminders", func(r chi.Router) {
				r.Get("/", reminderHandler.ListReminders)
				r.Post("/", reminderHandler.AddReminder)
				r.Post("/{id}/toggle", reminderHandler.ToggleReminder)
				r.Delete("/{id}", reminderHandler.RemoveReminder)
			})
		})
	})

	log.Printf("[server] Alertify API listening on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
