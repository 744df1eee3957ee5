package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"salonbook-backend/config"
	"salonbook-backend/models"
	"salonbook-backend/routes"
	"salonbook-backend/services"
	"salonbook-backend/store"
	"salonbook-backend/utils"
)

func main() {
	config.LoadDotenv()
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	log := config.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := config.ConnectDB(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Database connection failed")
	}
	if err := config.Migrate(db); err != nil {
		log.WithError(err).Fatal("Migration failed")
	}
	st := store.New(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seedAdmin(ctx, st, cfg, log); err != nil {
		log.WithError(err).Fatal("Failed to seed admin user")
	}

	metrics := config.NewMetrics()
	images, err := services.NewS3ImageStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Image storage setup failed")
	}
	notifier := services.NewNotifier(
		services.NewSMSSender(cfg, log),
		services.NewMailer(cfg, log),
		st, metrics, log, cfg.Location,
	)

	reminders := services.NewReminderService(st, notifier, log, cfg.Location)
	if err := reminders.StartScheduler(cfg.ReminderCron, cfg.ExpiryCron); err != nil {
		log.WithError(err).Fatal("Invalid scheduler spec")
	}

	limiter := utils.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter.StartCleanup(ctx, 10*time.Minute)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := routes.SetupRouter(routes.Deps{
		Config:   cfg,
		Log:      log,
		Metrics:  metrics,
		Store:    st,
		DB:       st,
		Tokens:   utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		Limiter:  limiter,
		Notifier: notifier,
		Images:   images,
	})
	printRoutes(r, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("port", cfg.Port).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
	<-reminders.Stop().Done()
}

// seedAdmin creates the ADMIN_EMAIL account on first start.
func seedAdmin(ctx context.Context, st *store.Store, cfg *config.Config, log logrus.FieldLogger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	email := utils.NormalizeEmail(cfg.AdminEmail)
	_, err := st.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin := models.User{Email: email, Password: hash, Name: "Administrator", Role: models.RoleAdmin, IsActive: true}
	if err := st.CreateUser(ctx, &admin); err != nil {
		return err
	}
	log.WithField("email", email).Info("Admin user created")
	return nil
}

func printRoutes(r *gin.Engine, log logrus.FieldLogger) {
	for _, route := range r.Routes() {
		log.Debugf("%-6s %s", route.Method, route.Path)
	}
}
