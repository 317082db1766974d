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
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/auth"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/cache"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/config"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/db"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/handlers"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/payment"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.LoadEnvFiles()
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []handlers.Option
	var st *store.Store
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Println("Using in-memory store; data is lost on exit")
		st = store.NewMemory()
	default:
		client, err := db.Connect(ctx, cfg.MongoURL)
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("mongo disconnect: %v", err)
			}
		}()
		database := client.Database(cfg.MongoDB)
		if err := store.EnsureIndexes(ctx, database); err != nil {
			log.Fatal(err)
		}
		st = store.NewMongo(database)
		opts = append(opts, handlers.WithPing(func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}))
	}

	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal(err)
		}
		defer rdb.Close()
		opts = append(opts, handlers.WithCache(cache.NewRedis(rdb, cfg.CacheTTL)))
	}

	if cfg.Braintree.Configured() {
		gw, err := payment.NewBraintree(cfg.Braintree)
		if err != nil {
			log.Fatal(err)
		}
		opts = append(opts, handlers.WithPayments(gw))
	} else {
		log.Println("WARN: Braintree credentials not set; payment endpoints will fail")
	}

	h := handlers.New(st, auth.NewIssuer(cfg.JWTSecret), opts...)

	r := gin.Default()
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	handlers.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
