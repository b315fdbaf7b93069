package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tandaclub/tanda/internal/api"
	"github.com/tandaclub/tanda/internal/auth"
	"github.com/tandaclub/tanda/internal/notify"
	"github.com/tandaclub/tanda/internal/service"
	"github.com/tandaclub/tanda/internal/storage/sqlite"
	"github.com/tandaclub/tanda/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/tanda.db")
	port := getEnv("PORT", "8080")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	tokens := auth.NewJWTManager(jwtSecret, 24*time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)
	notifier := notify.LogNotifier{}

	authSvc := service.NewAuthService(authenticator, tokens)
	tandaSvc := service.NewTandaService(store, notifier)
	adminSvc := service.NewAdminService(store)

	if err := bootstrap(context.Background(), store, authenticator, adminSvc); err != nil {
		slog.Error("Bootstrap failed", "error", err)
		os.Exit(1)
	}

	handler := api.New(api.Deps{
		Auth:   authSvc,
		Tandas: tandaSvc,
		Admin:  adminSvc,
		Tokens: tokens,
		Store:  store,
	})

	// h2c allows HTTP/2 without TLS for clients that want it.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// bootstrap initializes the admin configuration on first boot: it
// registers the admin account from ADMIN_EMAIL/ADMIN_PASSWORD and stores
// the commission settings. A no-op once initialized.
func bootstrap(ctx context.Context, store *sqlite.SQLiteStore, authenticator *auth.PasswordAuthenticator, adminSvc *service.AdminService) error {
	cfg, err := store.GetConfig(ctx)
	if err != nil {
		return err
	}
	if cfg != nil {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		slog.Warn("Not initialized and ADMIN_EMAIL/ADMIN_PASSWORD unset; deposits disabled until initialized")
		return nil
	}

	admin, err := authenticator.Register(ctx, email, "admin", password)
	if errors.Is(err, auth.ErrEmailExists) {
		admin, err = store.GetUserByEmail(ctx, email)
	}
	if err != nil {
		return fmt.Errorf("admin account: %w", err)
	}

	bps, err := strconv.Atoi(getEnv("COMMISSION_BPS", "50"))
	if err != nil {
		return fmt.Errorf("invalid COMMISSION_BPS: %w", err)
	}
	sink := getEnv("COMMISSION_ACCOUNT", admin.ID)

	if err := adminSvc.Initialize(ctx, admin.ID, sink, bps); err != nil {
		return err
	}
	slog.Info("Initialized", "admin", admin.ID, "commission_bps", bps)
	return nil
}
