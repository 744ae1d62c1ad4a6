package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"facturacion-backend/config"
	"facturacion-backend/logger"
	"facturacion-backend/migrations"
	"facturacion-backend/models"
	"facturacion-backend/repository"
	"facturacion-backend/routes"
	"facturacion-backend/services"
	"facturacion-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = zlog.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Database.AutoMigrate {
		if err := migrate(cfg.Database.URL, zlog); err != nil {
			zlog.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	db, err := config.ConnectDB(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zlog.Fatal("Failed to get database handle", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := utils.RegisterValidators(); err != nil {
		zlog.Fatal("Failed to register validators", zap.Error(err))
	}

	// Dummy hashes use the operator's cost so both login paths take as long.
	cost, err := bcrypt.Cost([]byte(cfg.Operator.PasswordHash))
	if err != nil {
		zlog.Fatal("OPERATOR_PASSWORD_HASH is not a bcrypt hash", zap.Error(err))
	}
	credentials, err := services.NewCredentialStore(
		services.NewStaticIdentities(models.Operator{
			Username:     cfg.Operator.Username,
			PasswordHash: cfg.Operator.PasswordHash,
		}),
		cost,
	)
	if err != nil {
		zlog.Fatal("Failed to build credential store", zap.Error(err))
	}
	tokens, err := services.NewTokenService(cfg.Token)
	if err != nil {
		zlog.Fatal("Failed to build token service", zap.Error(err))
	}
	if cfg.Token.TTL == 0 {
		zlog.Warn("TOKEN_TTL is 0; issued tokens never expire")
	}

	invoices := repository.NewInvoiceRepository(db)
	r := routes.SetupRouter(routes.Dependencies{
		Config:    cfg,
		Log:       zlog,
		DB:        sqlDB,
		Auth:      services.NewAuthService(credentials, tokens),
		Tokens:    tokens,
		Customers: repository.NewCustomerRepository(db),
		Products:  repository.NewProductRepository(db),
		Engine:    services.NewInvoiceEngine(invoices),
		Invoices:  invoices,
	})
	if !cfg.IsProduction() {
		printRoutes(r)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zlog.Info("Server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Forced shutdown", zap.Error(err))
	}
}

func migrate(url string, log *zap.Logger) error {
	m, err := migrations.Open(url, log)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
