package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gabrielrosinski/devops-advanced-project/internal/config"
	"github.com/gabrielrosinski/devops-advanced-project/internal/httpapi"
	"github.com/gabrielrosinski/devops-advanced-project/internal/repository/mysql"
	"github.com/gabrielrosinski/devops-advanced-project/internal/service"
	"github.com/gabrielrosinski/devops-advanced-project/internal/shutdown"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := mysql.Open(mysql.Config{
		Host:         cfg.DBHost,
		Port:         cfg.DBPort,
		User:         cfg.DBUser,
		Password:     cfg.DBPassword,
		Name:         cfg.DBName,
		RootUser:     cfg.DBRootUser,
		RootPassword: cfg.DBRootPassword,
	})
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := mysql.NewUserRepository(db)
	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}

	userService := service.NewUserService(userRepo)
	coordinator := shutdown.NewCoordinator(cfg.Reload, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), httpapi.RequestID(), httpapi.RequestLogger(logger))
	handler := httpapi.NewWebHandler(userService, coordinator, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.WebListenAddr(),
		Handler: router,
	}

	go func() {
		logger.Infof("web app listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}
