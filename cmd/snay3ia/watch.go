package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/salemkamoundev/Snay3ia/internal/models"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		configPath string
		user       string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream a user's notifications in real-time",
		Long:  "Polls for new notifications and displays them as they arrive.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, configPath, user)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "snay3ia.yaml", "path to Snay3ia config file")
	cmd.Flags().StringVar(&user, "user", "", "user ID whose inbox to watch (required)")
	cmd.MarkFlagRequired("user")
	return cmd
}

func runWatch(cmd *cobra.Command, configPath, user string) error {
	_, gormDB, err := openFromConfig(configPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching notifications for %q... (Ctrl+C to stop)\n", user)

	// Show recent notifications first.
	var recent []models.Notification
	if err := gormDB.Where("recipient_id = ?", user).
		Order("id DESC").Limit(10).Find(&recent).Error; err != nil {
		return fmt.Errorf("query notifications: %w", err)
	}

	// Reverse for chronological display.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}

	for _, n := range recent {
		printNotification(out, n)
	}

	// Follow mode: poll for new notifications.
	var lastID uint
	if len(recent) > 0 {
		lastID = recent[len(recent)-1].ID
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			var fresh []models.Notification
			if err := gormDB.Where("recipient_id = ? AND id > ?", user, lastID).
				Order("id ASC").Find(&fresh).Error; err != nil {
				fmt.Fprintf(out, "poll error: %v\n", err)
				continue
			}
			for _, n := range fresh {
				printNotification(out, n)
				lastID = n.ID
			}
		}
	}
}

func printNotification(out io.Writer, n models.Notification) {
	ts := n.CreatedAt.Format("15:04:05")
	tag := n.Type
	if tag == "" {
		tag = "info"
	}
	fmt.Fprintf(out, "[%s] %-10s %s", ts, tag, n.Message)
	if n.JobID != "" {
		fmt.Fprintf(out, " (%s)", n.JobID)
	}
	fmt.Fprintln(out)
}
