package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "almadash/internal/adapters/email"
	web "almadash/internal/adapters/http"
	"almadash/internal/adapters/storage"
	acudienteStorePkg "almadash/internal/adapters/storage/acudiente"
	mensualidadStorePkg "almadash/internal/adapters/storage/mensualidad"
	outboxStorePkg "almadash/internal/adapters/storage/outbox"
	participanteStorePkg "almadash/internal/adapters/storage/participante"
	sedeStorePkg "almadash/internal/adapters/storage/sede"
	usuarioStorePkg "almadash/internal/adapters/storage/usuario"
	"almadash/internal/application/orchestrators"
	outboxDomain "almadash/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// WAL mode, foreign keys, and busy timeout tuned for a single-process API
	dbPath := envOrDefault("ALMA_DB_PATH", "almadash.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Wrap DB with slow-query logging
	timedDB := storage.NewTimedDB(db)

	stores := &web.Stores{
		SedeStore:         sedeStorePkg.NewSQLiteStore(timedDB),
		ParticipanteStore: participanteStorePkg.NewSQLiteStore(timedDB),
		AcudienteStore:    acudienteStorePkg.NewSQLiteStore(timedDB),
		MensualidadStore:  mensualidadStorePkg.NewSQLiteStore(timedDB),
		UsuarioStore:      usuarioStorePkg.NewSQLiteStore(timedDB),
		OutboxStore:       outboxStorePkg.NewSQLiteStore(timedDB),
	}

	// Configure the receipt email sender
	resendKey := os.Getenv("RESEND_API_KEY")
	emailFrom := envOrDefault("ALMA_EMAIL_FROM", "Corporación Todo por un Alma <recibos@todoporunalma.org>")
	var sender emailPkg.Sender
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		log.Println("Email sender configured (noop — set RESEND_API_KEY for real delivery)")
	}

	// Receipt pipeline: mutations enqueue, the background worker delivers
	receiptQueue := orchestrators.NewReceiptQueue(stores.ParticipanteStore, stores.AcudienteStore, stores.OutboxStore)
	processor := orchestrators.NewOutboxProcessor(stores.OutboxStore, map[string]orchestrators.ActionExecutor{
		outboxDomain.ActionReciboEmail: &orchestrators.ReceiptEmailExecutor{Sender: sender},
	})
	outboxStopCh := make(chan struct{})
	orchestrators.StartBackgroundWorker(processor, 1*time.Minute, outboxStopCh)
	defer close(outboxStopCh)

	allowedOrigins := splitOrigins(envOrDefault("ALLOWED_ORIGINS", "http://localhost:3000"))
	mux := web.NewMux(stores, receiptQueue, processor, allowedOrigins)

	addr := envOrDefault("ALMA_ADDR", ":8000")
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("almadash %s starting on %s (db=%s)", version, addr, dbPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutdown_started")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	slog.Info("shutdown_complete")
}

func splitOrigins(v string) []string {
	var origins []string
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
