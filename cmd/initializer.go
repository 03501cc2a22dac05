package main

import (
	"database/sql"
	"log"
	"time"

	"firebase.google.com/go/messaging"
	"github.com/redis/go-redis/v9"

	"ustaBack/internal/config"
	"ustaBack/internal/geo"
	"ustaBack/internal/handlers"
	"ustaBack/internal/repositories"
	"ustaBack/internal/services"
	"ustaBack/utils"
)

type application struct {
	cfg      config.Config
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB

	tokens    *utils.Manager
	accessTTL time.Duration

	userRepo *repositories.UserRepository
	taskRepo *repositories.ServiceTaskRepository

	hub *NotificationHub

	userHandler         *handlers.UserHandler
	requestHandler      *handlers.ServiceRequestHandler
	jobHandler          *handlers.JobHandler
	applicationHandler  *handlers.ApplicationHandler
	notificationHandler *handlers.NotificationHandler
	fcmHandler          *handlers.FCMHandler
}

// serviceLogger adapts the application's stdlib loggers to the logging
// surface the service layer expects.
type serviceLogger struct {
	infoLog  *log.Logger
	errorLog *log.Logger
}

func (l serviceLogger) Infof(format string, args ...interface{}) {
	l.infoLog.Printf(format, args...)
}

func (l serviceLogger) Errorf(format string, args ...interface{}) {
	l.errorLog.Printf(format, args...)
}

func initializeApp(cfg config.Config, db *sql.DB, rdb *redis.Client, fcmClient *messaging.Client, errorLog, infoLog *log.Logger) *application {
	logAdapter := serviceLogger{infoLog: infoLog, errorLog: errorLog}

	// Repositories
	userRepo := &repositories.UserRepository{DB: db}
	addressRepo := &repositories.AddressRepository{DB: db}
	taskRepo := &repositories.ServiceTaskRepository{DB: db}
	requestRepo := &repositories.ServiceRequestRepository{DB: db}
	applicationRepo := &repositories.ApplicationRepository{DB: db}
	notificationRepo := &repositories.NotificationRepository{DB: db}
	tokenRepo := &repositories.NotifyTokenRepository{DB: db}

	artisanLocator := geo.NewArtisanLocator(rdb)
	requestLocator := geo.NewRequestLocator(rdb)

	uploader := utils.NewS3Uploader(utils.S3Config{
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		Bucket:        cfg.Storage.Bucket,
		Region:        cfg.Storage.Region,
		Endpoint:      cfg.Storage.Endpoint,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})

	tokens, err := utils.NewManager(cfg.Auth.JWTSecret)
	if err != nil {
		errorLog.Fatal(err)
	}

	hub := NewNotificationHub(errorLog)
	fcmHandler := handlers.NewFCMHandler(fcmClient, tokenRepo)

	// Services
	notificationService := &services.NotificationService{
		Notifications: notificationRepo,
		Tokens:        tokenRepo,
		Push:          fcmHandler,
		Hub:           hub,
		Log:           logAdapter,
	}
	requestService := &services.ServiceRequestService{
		Requests:       requestRepo,
		Tasks:          taskRepo,
		Addresses:      addressRepo,
		Applications:   applicationRepo,
		Uploader:       uploader,
		RequestIndex:   requestLocator,
		Artisans:       artisanLocator,
		Notifier:       notificationService,
		Log:            logAdapter,
		NotifyRadiusKm: cfg.Matching.NotifyRadiusKm,
	}
	matchingService := &services.JobMatchingService{
		Requests:        requestRepo,
		DefaultRadiusKm: cfg.Matching.DefaultRadiusKm,
	}
	applicationService := &services.ApplicationService{
		Applications: applicationRepo,
		Requests:     requestRepo,
		Tasks:        taskRepo,
		Notifier:     notificationService,
		Log:          logAdapter,
	}
	userService := &services.UserService{
		Users:      userRepo,
		Tokens:     tokens,
		AccessTTL:  time.Duration(cfg.Auth.AccessTTLMinutes) * time.Minute,
		RefreshTTL: time.Duration(cfg.Auth.RefreshTTLHours) * time.Hour,
	}

	return &application{
		cfg:       cfg,
		errorLog:  errorLog,
		infoLog:   infoLog,
		db:        db,
		tokens:    tokens,
		accessTTL: time.Duration(cfg.Auth.AccessTTLMinutes) * time.Minute,
		userRepo:  userRepo,
		taskRepo:  taskRepo,
		hub:       hub,

		userHandler:         &handlers.UserHandler{Service: userService, Artisans: artisanLocator},
		requestHandler:      &handlers.ServiceRequestHandler{Service: requestService},
		jobHandler:          &handlers.JobHandler{Matching: matchingService, Applications: applicationService},
		applicationHandler:  &handlers.ApplicationHandler{Service: applicationService},
		notificationHandler: &handlers.NotificationHandler{Service: notificationService},
		fcmHandler:          fcmHandler,
	}
}
