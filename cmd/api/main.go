// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/peerlink/peerlink-backend/internal/auth"
	"github.com/peerlink/peerlink-backend/internal/common/database"
	"github.com/peerlink/peerlink-backend/internal/common/utils"
	"github.com/peerlink/peerlink-backend/internal/config"
	"github.com/peerlink/peerlink-backend/internal/matching"
	"github.com/peerlink/peerlink-backend/internal/profile"
	"github.com/peerlink/peerlink-backend/internal/reasoning"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting PeerLink Community Matching API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found (%v), using environment variables", err)
	}

	// 2. Load and validate configuration
	log.Println("📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed: ", err)
	}
	log.Println("✅ Configuration is valid")

	// 3. Connect to PostgreSQL
	log.Println("🗄️  Step 3: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL: ", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL")

	// 4. Connect to Redis (optional)
	log.Println("📮 Step 4: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without profile cache", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping profile cache")
	}

	// 5. Run database migrations
	log.Println("🔨 Step 5: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations: ", err)
	}
	log.Println("✅ Database migrations completed")

	// 6. Initialize profile store
	log.Println("👤 Step 6: Initializing profile store...")
	store := profile.NewCachedStore(profile.NewPostgresStore(db), redisClient, cfg.ProfileCacheTTL)
	profileService := profile.NewService(store)
	profileHandler := profile.NewHandler(profileService)
	log.Println("✅ Profile store initialized")

	// 7. Initialize matching engine
	log.Println("🤝 Step 7: Initializing matching engine...")
	scorer := matching.NewDeterministicScorer()

	var assisted *matching.AssistedScorer
	if cfg.ReasoningEnabled {
		reasoningClient := reasoning.NewHTTPClient(cfg.ReasoningURL, cfg.ReasoningAPIKey, cfg.ReasoningTimeout)
		assisted = matching.NewAssistedScorer(reasoningClient, cfg.ReasoningTimeout)
		log.Printf("   ✅ Assisted scoring enabled (%s, timeout %s)", cfg.ReasoningURL, cfg.ReasoningTimeout)
	} else {
		log.Println("   ⚠️  Assisted scoring disabled, deterministic path only")
	}

	orchestrator := matching.NewOrchestrator(store, scorer, assisted, cfg.MatchingWorkers, cfg.MatchingMaxCandidates)
	matchingService := matching.NewService(store, orchestrator, scorer, cfg.MatchingDefaultLimit, cfg.MatchingMinScore)
	matchingHandler := matching.NewHandler(matchingService)
	log.Printf("✅ Matching engine initialized (%d workers)", cfg.MatchingWorkers)

	// 8. Initialize auth middleware
	log.Println("🔐 Step 8: Initializing auth middleware...")
	tokenValidator := auth.NewTokenValidator(cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(tokenValidator)
	log.Println("✅ Auth middleware initialized")

	// 9. Setup routes
	log.Println("🛣️  Step 9: Setting up routes...")
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	profile.RegisterRoutes(router, profileHandler, authMiddleware)
	matching.RegisterRoutes(router, matchingHandler, authMiddleware)

	router.Use(requestIDMiddleware)
	router.Use(loggingMiddleware)
	log.Println("✅ Routes registered")

	// 10. Start ledger housekeeping
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	matching.NewScheduler(store, cfg.ConnectionIdleWindow).Start(schedulerCtx)

	// 11. Create and start HTTP server
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("⚠️  Shutdown signal received...")
	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server exited gracefully")
}

// healthCheck reports liveness
func healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "peerlink-api",
	})
}

// requestIDMiddleware tags every request with an ID for log correlation
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request with its duration
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s (%s)", r.Method, r.RequestURI, w.Header().Get("X-Request-ID"), time.Since(started))
	})
}

// runMigrations creates the schema if it does not exist
func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(100) UNIQUE NOT NULL,
			display_name VARCHAR(200) NOT NULL DEFAULT '',
			birth_date DATE,
			gender VARCHAR(50),
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS member_profiles (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT UNIQUE NOT NULL REFERENCES users(id),
			skills JSONB NOT NULL DEFAULT '[]',
			interests JSONB NOT NULL DEFAULT '[]',
			availability JSONB NOT NULL DEFAULT '{}',
			matching_preferences JSONB NOT NULL DEFAULT '{}',
			communication_style VARCHAR(30) NOT NULL DEFAULT 'friendly',
			is_available_for_matching BOOLEAN NOT NULL DEFAULT TRUE,
			last_active TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS member_connections (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			peer_user_id BIGINT NOT NULL REFERENCES users(id),
			type VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_interaction TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			interaction_count INT NOT NULL DEFAULT 0,
			UNIQUE (user_id, peer_user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_member_profiles_matching
			ON member_profiles (user_id) WHERE is_available_for_matching`,
		`CREATE INDEX IF NOT EXISTS idx_member_connections_user
			ON member_connections (user_id, status)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
