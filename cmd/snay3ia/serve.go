package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/salemkamoundev/Snay3ia/internal/annotate"
	"github.com/salemkamoundev/Snay3ia/internal/blob"
	"github.com/salemkamoundev/Snay3ia/internal/db"
	"github.com/salemkamoundev/Snay3ia/internal/httpapi"
	"github.com/salemkamoundev/Snay3ia/internal/identity"
	"github.com/salemkamoundev/Snay3ia/internal/notify"
	"github.com/salemkamoundev/Snay3ia/internal/stream"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Snay3ia API server",
		Long:  "Starts the HTTP API, the annotation dispatcher, and the stale-claim sweep. Runs until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "snay3ia.yaml", "path to Snay3ia config file")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := openFromConfig(configPath)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	hub := stream.NewHub()
	media := &blob.LocalFS{Root: cfg.Storage.Root, BaseURL: cfg.HTTP.BaseURL}
	provider := &identity.DBProvider{DB: gormDB}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AI.Enabled {
		apiKey := os.Getenv(cfg.AI.APIKeyEnv)
		if apiKey == "" {
			return fmt.Errorf("ai.enabled is set but %s is empty", cfg.AI.APIKeyEnv)
		}

		annotator := &annotate.Gemini{
			Client:   &http.Client{Timeout: time.Duration(cfg.AI.TimeoutSec) * time.Second},
			Endpoint: cfg.AI.Endpoint,
			Model:    cfg.AI.Model,
			APIKey:   apiKey,
		}
		dispatcher, err := annotate.NewDispatcher(annotate.DispatcherOpts{
			DB:           gormDB,
			Hub:          hub,
			Annotator:    annotator,
			Timeout:      time.Duration(cfg.AI.TimeoutSec) * time.Second,
			PollInterval: time.Duration(cfg.AI.PollIntervalSec) * time.Second,
		})
		if err != nil {
			return err
		}
		go dispatcher.Run(ctx)
		go runSweep(ctx, cfg.AI.SweepCron, time.Duration(cfg.AI.ClaimTimeoutSec)*time.Second, gormDB)
		fmt.Fprintf(out, "Annotation dispatcher running (model %s)\n", cfg.AI.Model)
	} else {
		fmt.Fprintln(out, "Annotation dispatcher disabled (ai.enabled: false)")
	}

	return httpapi.Start(ctx, httpapi.ServerOpts{
		DB:             gormDB,
		Hub:            hub,
		Provider:       provider,
		Media:          media,
		MaxUploadBytes: int64(cfg.Storage.MaxUploadMB) << 20,
		Webhook:        notify.WebhookConfig{URL: cfg.Notify.SlackWebhook},
		Port:           cfg.HTTP.Port,
		Out:            out,
	})
}

// runSweep releases stale annotation claims on the configured cron
// schedule. A zero wait means the expression failed to parse; fall back to
// the claim timeout so a typo never disables the sweep entirely.
func runSweep(ctx context.Context, cronExpr string, claimTimeout time.Duration, gormDB *gorm.DB) {
	for {
		wait := annotate.NextSweepDuration(cronExpr)
		if wait <= 0 {
			wait = claimTimeout
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
			if _, err := annotate.ReleaseStale(gormDB, claimTimeout); err != nil {
				log.Printf("sweep: %v", err)
			}
		}
	}
}
