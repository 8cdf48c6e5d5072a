package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/config"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/database"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/logger"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/models"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/server"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/services"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Logging with rotation, to stdout and file
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		log.Fatalf("ensure log directory: %v", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, "cedrus.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(cfg.Environment == "development", io.MultiWriter(os.Stdout, rotator))

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	if len(os.Args) > 1 && os.Args[1] == "create-admin" {
		if len(os.Args) != 4 {
			log.Fatalf("Usage: %s create-admin <email> <password>", os.Args[0])
		}
		createAdmin(db, os.Args[2], os.Args[3])
		return
	}

	srv, err := server.New(db, cfg)
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SchedulerEnabled {
		scheduler := services.NewSchedulerService(db, services.NewNotificationService(db))
		if err := scheduler.Start(); err != nil {
			log.Fatalf("start scheduler: %v", err)
		}
		defer scheduler.Stop()
	}

	logger.Log().Infof("starting %s %s on :%s", version.Name, version.Full(), cfg.HTTPPort)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// createAdmin provisions or resets the cb_admin account used to
// bootstrap a fresh installation.
func createAdmin(db *gorm.DB, email, password string) {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("migrate users: %v", err)
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{UUID: uuid.New().String(), Email: email, Role: models.RoleCBAdmin, Enabled: true}
	} else if err != nil {
		log.Fatalf("look up user: %v", err)
	}

	if err := user.SetPassword(password); err != nil {
		log.Fatalf("hash password: %v", err)
	}
	user.Role = models.RoleCBAdmin
	user.Enabled = true

	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("save user: %v", err)
	}
	log.Printf("admin account ready for %s", email)
}
