package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/diewo77/zone-api/internal/config"
	"github.com/diewo77/zone-api/internal/db"
	"github.com/diewo77/zone-api/internal/geocode"
	"github.com/diewo77/zone-api/internal/server"
)

// simple middleware chain
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	if migrateOnlyFlag != nil && *migrateOnlyFlag {
		_ = godotenv.Load()
		if _, err := db.ConnectAndMigrate(); err != nil {
			log.Fatalf("migrate-only failed: %v", err)
		}
		log.Println("migrations completed; exiting as requested")
		return
	}
	_ = godotenv.Load()
	cfg := config.Load()
	dbConn, err := db.ConnectAndMigrate()
	if err != nil {
		log.Fatalf("Erreur connexion DB: %v", err)
	}
	log.Printf("Starting server env=%s port=%s", cfg.Env, cfg.Port)

	ban := geocode.NewClient(cfg.BANBaseURL, cfg.GeocodeTimeout)
	rdb := geocode.OpenRedisFromEnv()
	if rdb == nil {
		log.Println("geocode cache disabled (REDIS_ADDR unset)")
	} else if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis ping failed, cache will be bypassed: %v", err)
	}
	geocoder := geocode.NewCachedClient(ban, rdb)

	handler := withLogging(server.New(dbConn, geocoder))
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
