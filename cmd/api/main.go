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

	"github.com/joho/godotenv"

	"github.com/lazy-care/backend/internal/config"
	"github.com/lazy-care/backend/internal/handler"
	"github.com/lazy-care/backend/internal/service/ai"
	chatservice "github.com/lazy-care/backend/internal/service/chat"
	userservice "github.com/lazy-care/backend/internal/service/user"
	"github.com/lazy-care/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	chatStore, userStore, cleanup, err := openStores(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to open stores: %v", err)
	}
	defer cleanup()

	completer := newCompleter(cfg.AI)

	chatSvc := chatservice.NewService(chatStore, completer, cfg.AI.HistoryLimit)
	userSvc := userservice.NewService(userStore)

	router := handler.NewRouter(chatSvc, userSvc, cfg.CORS.Origin)

	startServer(ctx, cfg.Server, router)
}

// openStores builds the two document stores according to the configured
// driver. The cleanup closes the shared SQLite handle when one was opened.
func openStores(cfg config.StorageConfig) (chatStore, userStore store.Store, cleanup func(), err error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Printf("[store] using sqlite driver at %s", cfg.SQLitePath)
		return store.NewSQLiteStore(db, "chatHistory"),
			store.NewSQLiteStore(db, "users"),
			func() { db.Close() },
			nil
	default:
		log.Printf("[store] using json driver (chat=%s, users=%s)", cfg.ChatPath, cfg.UserPath)
		return store.NewFileStore(cfg.ChatPath),
			store.NewFileStore(cfg.UserPath),
			func() {},
			nil
	}
}

func newCompleter(cfg config.AIConfig) ai.Completer {
	if cfg.Provider == config.ProviderHuggingFace {
		log.Printf("[ai] using Hugging Face completion endpoint %s", cfg.HFURL)
		return ai.NewHuggingFaceClient(cfg.HFURL, cfg.HFAPIKey, cfg.Timeout)
	}
	log.Printf("[ai] using TinyLlama completion endpoint %s", cfg.TinyLlamaURL)
	return ai.NewTinyLlamaClient(cfg.TinyLlamaURL, cfg.Timeout)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Lazy Care backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
