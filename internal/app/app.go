package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/covergrid/insurance-api/internal/config"
	"github.com/covergrid/insurance-api/internal/db"
	"github.com/covergrid/insurance-api/internal/http/api"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RunServer opens the database, migrates the schema, and serves the API
// until the context is cancelled.
func RunServer(ctx context.Context, cfg config.AppConfig, defaultPort int) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)

	dsn, errDSN := config.LoadDatabaseDSN(configPath)
	if errDSN != nil {
		return errDSN
	}
	srvCfg, errSrv := config.LoadServerConfig(configPath, defaultPort)
	if errSrv != nil {
		return errSrv
	}

	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	if srvCfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(api.RequestLogger())
	api.RegisterRoutes(engine, conn, srvCfg)

	addr := fmt.Sprintf("%s:%d", srvCfg.Host, srvCfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
			log.Errorf("server shutdown error: %v", errShutdown)
		}
	}()

	log.Infof("starting insurance api on %s", addr)
	if errListen := srv.ListenAndServe(); errListen != nil && !errors.Is(errListen, http.ErrServerClosed) {
		return errListen
	}
	return nil
}

// Seed opens the database, migrates the schema, and loads the initial
// catalog and sample users.
func Seed(ctx context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)

	dsn, errDSN := config.LoadDatabaseDSN(configPath)
	if errDSN != nil {
		return errDSN
	}
	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	return db.Seed(conn.WithContext(ctx))
}
