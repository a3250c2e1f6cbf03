package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/nhle/mailpane/internal/model"
	"github.com/nhle/mailpane/internal/server"
	"github.com/nhle/mailpane/internal/store"
)

func main() {
	configPath := flag.StringP("config", "c", model.DefaultConfigPath(), "path to config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Server.DBPath = *dbPath
	}

	st, err := store.NewSQLiteStore(cfg.Server.DBPath)
	if err != nil {
		log.Fatalf("FATAL: opening store: %v", err)
	}
	defer st.Close()
	log.Printf("INFO: database ready at %s", cfg.Server.DBPath)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(st, cfg.Server).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("INFO: starting HTTP server on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: HTTP server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("INFO: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: shutdown: %v", err)
	}
}
