package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite"

	"github.com/NElyse/FPA-Project/internal/alert"
	"github.com/NElyse/FPA-Project/internal/api"
	"github.com/NElyse/FPA-Project/internal/auth"
	"github.com/NElyse/FPA-Project/internal/notify"
	"github.com/NElyse/FPA-Project/internal/predictor"
	"github.com/NElyse/FPA-Project/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Best effort; the usual deployment sets real environment variables.
	_ = godotenv.Load()

	dbPath := flag.String("db", envOr("DATABASE_PATH", "data/floodalert.db"), "path to SQLite database")
	port := flag.String("port", envOr("PORT", "5000"), "HTTP server port")
	flag.Parse()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable required")
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	inference := predictor.NewClient(envOr("INFERENCE_URL", "http://localhost:5001"))

	sms := notify.NewSMSClient(
		envOr("MISTA_API_URL", "https://api.mista.io/sms"),
		os.Getenv("MISTA_API_TOKEN"),
		envOr("SMS_SENDER_ID", "E-Notifier"),
	)

	smtpPort := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid SMTP_PORT %q: %v", v, err)
		}
		smtpPort = p
	}
	mailer := notify.NewMailer(
		envOr("SMTP_HOST", "smtp.gmail.com"),
		smtpPort,
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASS"),
		os.Getenv("SMTP_USER"),
	)
	if !mailer.Enabled() {
		log.Println("SMTP credentials not set, email delivery disabled")
	}

	dispatcher := alert.NewDispatcher(st, sms, mailer, envOr("PHONE_COUNTRY_PREFIX", alert.DefaultPhonePrefix))
	tokens := auth.NewTokenIssuer(jwtSecret)
	server := api.NewServer(st, inference, dispatcher, mailer, tokens,
		envOr("CLIENT_URL", "http://localhost:3000"), *port)

	c := cron.New()
	c.AddFunc("@hourly", func() {
		n, err := st.PurgeExpiredResetTokens(time.Now())
		if err != nil {
			log.Printf("purge expired reset tokens: %v", err)
			return
		}
		if n > 0 {
			log.Printf("purged %d expired reset tokens", n)
		}
	})
	c.Start()
	defer c.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("starting server on :%s", *port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
