// File: src/PPApi/api.go

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/proposalpal/proposalpal/src/PPApi/config"
	"github.com/proposalpal/proposalpal/src/PPApi/data"
	"github.com/proposalpal/proposalpal/src/PPApi/store"
	"github.com/proposalpal/proposalpal/src/PPApi/webserver"
)

func main() {
	// Connect to database first
	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "proposalpal:proposalpal@tcp(localhost:3306)/proposalpal"
	}
	db := data.MustMySQL(mysqlDSN)

	if err := store.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Load config with database settings fallback
	cfg := config.Load(db)
	rdb := data.MustRedis(cfg.RedisURL)

	router := webserver.New(cfg, db, rdb)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	log.Printf("ProposalPal API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)

	if err := rdb.Close(); err != nil {
		log.Printf("redis close: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
