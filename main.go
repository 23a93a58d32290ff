package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/personal-blog-backend/api"
	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/rpupo63/personal-blog-backend/services"
)

func main() {
	c := config.Load()
	setupLogging(c)

	log.Info().Msg("Initializing app...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if parameterPath := config.GetString(c, "SSM_PARAMETER_PATH", ""); parameterPath != "" {
		client, err := config.NewSSMClient(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating SSM client")
		}
		applied, err := config.OverlayParameters(ctx, client, parameterPath, c)
		if err != nil {
			log.Fatal().Err(err).Str("path", parameterPath).Msg("Error loading SSM parameters")
		}
		log.Info().Int("applied", applied).Str("path", parameterPath).Msg("Loaded configuration from SSM")
	}

	log.Info().Str("DB_TYPE", config.GetString(c, "DB_TYPE", "postgres")).Msg("Connecting to database...")
	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	currentDB := database.New(db)
	defer currentDB.Close()

	if err := currentDB.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error testing database connection")
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		if err := models.GenerateColumnMismatchReport(db, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("Error generating column mismatch report")
		}
		return
	}

	if err := models.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	mailer, err := services.NewMailer(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring email")
	}
	store, err := services.NewFileStore(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring upload storage")
	}

	svc := services.New(
		currentDB,
		services.NewEmailService(mailer, services.FromAddress(c), services.GetBaseURL(c)),
		services.NewAdminServiceFromConfig(c),
		store,
	)

	server, err := api.NewServer(c, currentDB, svc)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		// Wait for SIGINT/SIGTERM or a failed listener
		<-gctx.Done()
		server.ShutdownGracefully(30 * time.Second)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Closing server")
		os.Exit(1)
	}
	fmt.Println("Server stopped")
}

// setupLogging applies LOG_LEVEL and, unless LOG_FORMAT=json, switches to console output.
func setupLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(c, "LOG_FORMAT", "console") != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
