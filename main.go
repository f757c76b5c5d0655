package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	apihttp "owner-portal/internal/api/http"
	"owner-portal/internal/audit"
	"owner-portal/internal/auth"
	"owner-portal/internal/automation"
	automationrepo "owner-portal/internal/automation/infrastructure/postgres"
	"owner-portal/internal/billing"
	"owner-portal/internal/booking"
	"owner-portal/internal/notify"
	"owner-portal/internal/observability/metrics"
	portfoliorepo "owner-portal/internal/portfolio/infrastructure/postgres"
	portfoliohttp "owner-portal/internal/portfolio/interfaces/http"
	"owner-portal/internal/statement/application"
	"owner-portal/internal/statement/infrastructure/storage"
	statementhttp "owner-portal/internal/statement/interfaces"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init()
	auditRepo := audit.NewRepository(db)
	ownerChecker := auth.NewOwnerChecker(db)

	automationCfg, err := automation.LoadConfig()
	if err != nil {
		logger.Fatalf("automation config error: %v", err)
	}

	propertyRepo := portfoliorepo.NewPropertyRepository(db)
	runRepo := automationrepo.NewRunRepository(db)

	billingClient, err := billing.NewClient(cfg.BillingBaseURL)
	if err != nil {
		logger.Fatalf("billing client error: %v", err)
	}

	artifactStore, err := storage.NewStore(automationCfg.StorageRoot)
	if err != nil {
		logger.Fatalf("artifact store error: %v", err)
	}

	statementService, err := application.NewService(billingClient, propertyRepo, artifactStore, statementhttp.ExportRenderer{}, logger)
	if err != nil {
		logger.Fatalf("statement service error: %v", err)
	}
	statementHandler, err := statementhttp.NewStatementHandler(statementService, artifactStore, ownerChecker, auditRepo, logger)
	if err != nil {
		logger.Fatalf("statement handler error: %v", err)
	}

	propertyHandler, err := portfoliohttp.NewHandler(propertyRepo, statementHandler, auditRepo)
	if err != nil {
		logger.Fatalf("property handler error: %v", err)
	}

	var mailer notify.Mailer
	if automationCfg.Mail.Addr != "" {
		smtpMailer, err := notify.NewSMTPMailer(automationCfg.Mail.Addr, automationCfg.Mail.From, automationCfg.Mail.Username, automationCfg.Mail.Password)
		if err != nil {
			logger.Fatalf("smtp mailer error: %v", err)
		}
		mailer = smtpMailer
	}

	var reservations automation.ReservationLister
	if cfg.BookingBaseURL != "" {
		bookingClient, err := booking.NewClient(cfg.BookingBaseURL, cfg.BookingToken)
		if err != nil {
			logger.Fatalf("booking client error: %v", err)
		}
		reservations = bookingClient
	}

	runner, err := automation.NewRunner(statementService, propertyRepo, reservations, mailer, runRepo, automationCfg.Properties, logger)
	if err != nil {
		logger.Fatalf("automation runner error: %v", err)
	}
	automationHandler, err := automation.NewHandler(runner, runRepo, logger)
	if err != nil {
		logger.Fatalf("automation handler error: %v", err)
	}
	scheduler := automation.NewScheduler(runner, automationCfg.Schedule, logger)
	go scheduler.Start(context.Background())

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/properties", propertyHandler)
	mux.Handle("/api/v1/properties/", propertyHandler)
	mux.Handle("/api/v1/automation/run", automationHandler)
	mux.Handle("/api/v1/automation/runs", automationHandler)
	mux.Handle("/api/v1/stats", apihttp.NewStatsHandler(db))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL    string
	HTTPAddr       string
	BillingBaseURL string
	BookingBaseURL string
	BookingToken   string
	JWTSecret      string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:    getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:       getenvDefault("HTTP_ADDR", ":8080"),
		BillingBaseURL: getenvDefault("BILLING_BASE_URL", ""),
		BookingBaseURL: getenvDefault("BOOKING_BASE_URL", ""),
		BookingToken:   getenvDefault("BOOKING_TOKEN", ""),
		JWTSecret:      getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.BillingBaseURL == "" {
		log.Fatal("BILLING_BASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
