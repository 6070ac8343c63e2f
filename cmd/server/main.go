package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/trivia-wager/backend/internal/auth"
	"github.com/trivia-wager/backend/internal/bank"
	"github.com/trivia-wager/backend/internal/database"
	"github.com/trivia-wager/backend/internal/game"
	"github.com/trivia-wager/backend/internal/middleware"
	"github.com/trivia-wager/backend/internal/stats"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Load the question bank
	questionsDir := getEnv("QUESTIONS_DIR", "data/questions")
	questionBank, err := bank.Load(context.Background(), questionsDir)
	if err != nil {
		log.Fatalf("Failed to load questions: %v", err)
	}

	// Core services
	ledger := stats.NewLedger(db)
	history := game.NewHistory(db)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	selector := game.NewSelector(questionBank, history, rng)

	var pendingStore game.PendingStore = game.NewMemoryPendingStore()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		ttl := time.Duration(0)
		if raw := os.Getenv("PENDING_ROUND_TTL"); raw != "" {
			if d, err := time.ParseDuration(raw); err == nil {
				ttl = d
			}
		}
		pendingStore = game.NewRedisPendingStore(client, ttl)
		log.Printf("Using Redis pending-round store at %s (ttl=%s)", addr, ttl)
	}

	coordinator := game.NewCoordinator(selector, ledger, questionBank, history, pendingStore)

	// Initialize handlers
	authHandler := auth.NewHandler(db, ledger)
	gameHandler := game.NewHandler(coordinator, questionBank)
	statsHandler := stats.NewHandler(ledger)

	// Setup router
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")

	// Protected routes
	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")
	gameHandler.RegisterRoutes(protected)
	statsHandler.RegisterRoutes(protected)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := getEnv("PORT", "8080")

	log.Printf("Trivia server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
