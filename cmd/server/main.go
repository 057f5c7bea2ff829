package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/hkale/quotes-api/internal/api"
	"github.com/hkale/quotes-api/internal/auth"
	"github.com/hkale/quotes-api/internal/bootstrap"
	"github.com/hkale/quotes-api/internal/config"
	"github.com/hkale/quotes-api/internal/middleware"
	"github.com/hkale/quotes-api/internal/quotes"
	"github.com/hkale/quotes-api/internal/store"
	"github.com/hkale/quotes-api/internal/token"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("postgres connect", zap.Error(err))
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		logger.Fatal("postgres migrate", zap.Error(err))
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)
	mongoStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()
	registry := auth.NewRefreshRegistry(rdb)

	// ── First-run seeding ────────────────────────────────────
	if err := bootstrap.Seed(ctx, pgStore, mongoStore, logger); err != nil {
		logger.Fatal("seed", zap.Error(err))
	}

	// ── Handlers ─────────────────────────────────────────────
	tokens := token.NewService(cfg.JWTSecret, cfg.RefreshTokenSecret, cfg.JWTExpiration, cfg.RefreshTokenExpiration)
	authHandler := auth.NewHandler(pgStore, mongoStore, registry, tokens, logger)
	quoteHandler := quotes.NewHandler(mongoStore, logger)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/sign-up", authHandler.SignUp)
		r.Post("/sign-in", authHandler.SignIn)
		r.Post("/sign-out", authHandler.SignOut)
		r.With(middleware.RequireAuth(tokens)).Delete("/delete", authHandler.DeleteAccount)
	})

	// Refresh route (cookie-authenticated)
	r.Post("/api/v1/refresh", authHandler.Refresh)

	// Quote routes
	r.Route("/api/v1/quotes", func(r chi.Router) {
		r.With(middleware.SoftTimeout(8 * time.Second)).Get("/", quoteHandler.List)
		r.Get("/random", quoteHandler.Random)
		r.With(middleware.RequireAuth(tokens)).Post("/", quoteHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))
			r.Use(middleware.RequireQuoteOwner(mongoStore))
			r.Put("/", quoteHandler.Update)
			r.Patch("/", quoteHandler.Update)
			r.Delete("/", quoteHandler.Delete)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSON(w, http.StatusNotFound, api.Response{Success: false, Message: "Route not found"})
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
