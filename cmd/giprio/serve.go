package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/steiner385/mcp-git-issue-priority/internal/bootstrap"
	"github.com/steiner385/mcp-git-issue-priority/internal/rpc"
)

var (
	flagToken      string
	flagRepository string
	flagOwner      string
	flagRepo       string
	flagLogPath    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the coordination engine and read tool requests from stdin",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagToken, "token", "", "GitHub token (falls back to GITHUB_TOKEN)")
	serveCmd.Flags().StringVar(&flagRepository, "repository", "", "default owner/repo")
	serveCmd.Flags().StringVar(&flagOwner, "owner", "", "default owner (paired with --repo)")
	serveCmd.Flags().StringVar(&flagRepo, "repo", "", "default repo (paired with --owner)")
	serveCmd.Flags().StringVar(&flagLogPath, "log-path", "", "override audit/engine log path")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	eng, closeLogger, err := bootstrap.Bootstrap(bootstrap.Options{
		Token:      flagToken,
		Repository: flagRepository,
		Owner:      flagOwner,
		Repo:       flagRepo,
		LogPath:    flagLogPath,
	})
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer closeLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := rpc.NewServer(eng)
	if err := server.Serve(ctx, os.Stdin, os.Stdout); err != nil && err != context.Canceled {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
