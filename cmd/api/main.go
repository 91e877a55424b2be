package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/atempo-app/atempo-api/internal/config"
	dbpkg "github.com/atempo-app/atempo-api/internal/db"
	infraRepo "github.com/atempo-app/atempo-api/internal/infra/repository"
	"github.com/atempo-app/atempo-api/internal/mailer"
	"github.com/atempo-app/atempo-api/internal/reminder"
	"github.com/atempo-app/atempo-api/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)

	sender := mailer.NewSMTPSender(
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom,
	)
	m := mailer.New(sender)

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	// Proceso singleton de recordatorios. Un solo Run por despliegue.
	scheduler := reminder.New(
		infraRepo.NewAppointmentGormRepository(db),
		m,
		slog.New(slog.NewJSONHandler(os.Stdout, nil)),
		reminder.Config{
			Interval: cfg.ReminderInterval,
			Timezone: cfg.Timezone,
		},
	)
	go scheduler.Run(ctx)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, cfg, m)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
