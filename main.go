package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Garciabraganca/COSTABURGUER-sub001/config"
	"github.com/Garciabraganca/COSTABURGUER-sub001/database"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	utils.InitLogger()
	cfg := config.Load()

	if cfg.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWT.Secret == "" {
		utils.ErrorLogger.Warn("JWT_SECRET is not set, using the development secret")
	}
	utils.SetJWTSecret(cfg.JWT.Secret, cfg.JWT.TTL)

	db := openDatabase(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, db)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to initialise event publishers: %v", err)
	}
	defer a.Close()
	a.Start(ctx)

	if !a.payments.Enabled() {
		utils.InfoLogger.Println("MIDTRANS_SERVER_KEY not set, online payment disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.WithError(err).Error("server shutdown")
	}
}

// openDatabase connects, migrates and seeds. Without a configured database it
// returns nil and the service runs in degraded mode.
func openDatabase(cfg *config.Config) *gorm.DB {
	db, err := config.InitDB(cfg.Database)
	if errors.Is(err, config.ErrDatabaseNotConfigured) {
		utils.ErrorLogger.Warn("DATABASE_URL not set, running without a database")
		return nil
	}
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	if err := database.SeedCatalog(db); err != nil {
		utils.ErrorLogger.WithError(err).Error("seeding catalog")
	}
	if err := database.SeedAdmin(db, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		utils.ErrorLogger.WithError(err).Error("seeding admin user")
	}
	return db
}
