package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ameblo/vouch"
	fiberadapter "github.com/ameblo/vouch/adapters/fiber"
	mailadapter "github.com/ameblo/vouch/adapters/mail"
	pgxadapter "github.com/ameblo/vouch/adapters/pgx"
	"github.com/ameblo/vouch/config"
)

func logFormat() string {
	format := []string{
		"${time}",
		"${status}|${latency}",
		"${ip}:${port}",
		"${method}|${path}",
	}
	return strings.Join(format, " ") + "\n"
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	defer pool.Close()

	app := fiber.New()
	app.Use(logger.New(logger.Config{
		Format:     logFormat(),
		TimeFormat: "2006/01/02 15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	var mailer vouch.Mailer
	if cfg.EmailUser == "" {
		// No mail credentials configured; log codes locally instead.
		mailer = mailadapter.NewConsole()
	} else {
		mailer, err = mailadapter.NewSMTP(mailadapter.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.EmailUser,
			Password: cfg.EmailPass,
			From:     cfg.MailFrom,
		})
		if err != nil {
			log.Fatalf("could not create mailer: %v", err)
		}
	}

	_, err = vouch.New(vouch.Config{
		Secret:       cfg.JWTSecret,
		Database:     pgxadapter.New(pool),
		Mailer:       mailer,
		HTTP:         fiberadapter.New(app),
		ChallengeTTL: cfg.ChallengeTTL,
		TokenTTL:     cfg.TokenTTL,
	})
	if err != nil {
		log.Fatalf("could not create vouch instance: %v", err)
	}

	go func() {
		if err := app.Listen(cfg.Addr); err != nil {
			log.Fatalf("app.Listen: %v", err)
		}
	}()

	<-ctx.Done()
	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
