// Package bootstrap implements C8: credential resolution, session
// identity, directory layout, and wiring a process-wide logger and remote
// client into an explicit Engine value. Per spec §9 Design Notes, there is
// deliberately no global mutable singleton here — Bootstrap returns a
// value the caller threads through every tool operation.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/steiner385/mcp-git-issue-priority/internal/audit"
	"github.com/steiner385/mcp-git-issue-priority/internal/batchstore"
	"github.com/steiner385/mcp-git-issue-priority/internal/config"
	"github.com/steiner385/mcp-git-issue-priority/internal/engine"
	"github.com/steiner385/mcp-git-issue-priority/internal/ghclient"
	"github.com/steiner385/mcp-git-issue-priority/internal/lockstore"
	"github.com/steiner385/mcp-git-issue-priority/internal/workflowstore"
)

var subdirs = []string{"locks", "workflow", "batches", "logs"}

// Options lets a caller override flag-sourced values before resolution.
type Options struct {
	Token      string
	Repository string
	Owner      string
	Repo       string
	LogPath    string
}

// Bootstrap resolves configuration, ensures the directory layout exists,
// builds a session-scoped logger and GitHub client, and returns a fully
// wired engine.Engine. Fails fast with guidance if no credential can be
// resolved, per spec §4.8. The credential comes from the --token flag,
// GITHUB_TOKEN, or the configured github_token; no CLI credential helper
// is consulted. Each call also runs the audit retention sweep once.
func Bootstrap(opts Options) (*engine.Engine, func(), error) {
	resolver, err := config.New()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	cfg := resolver.Resolve(opts.Token, opts.Repository, opts.Owner, opts.Repo)

	if cfg.GitHubToken == "" {
		return nil, nil, fmt.Errorf("no GitHub credential resolved: set --token, GITHUB_TOKEN, or github_token in the config file")
	}

	for _, d := range subdirs {
		if err := os.MkdirAll(filepath.Join(cfg.BaseDir, d), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create %s directory: %w", d, err)
		}
	}

	sessionID := uuid.NewString()

	logger, closeLogger := newLogger(cfg.BaseDir, opts.LogPath, sessionID)

	client := ghclient.New(cfg.GitHubToken)

	auditLog := audit.New(cfg.BaseDir)
	if err := auditLog.Sweep(time.Now()); err != nil {
		logger.Warnw("audit retention sweep failed", "error", err)
	}

	eng := &engine.Engine{
		Client:          client,
		Locks:           lockstore.New(cfg.BaseDir),
		Workflows:       workflowstore.New(cfg.BaseDir),
		Batches:         batchstore.New(cfg.BaseDir),
		Audit:           auditLog,
		Logger:          logger,
		SessionID:       sessionID,
		PID:             os.Getpid(),
		DefaultOwner:    cfg.Owner,
		DefaultRepo:     cfg.Repo,
		DefaultRepoFull: cfg.Repository,
		DefaultPriority: cfg.DefaultPriority,
		DefaultType:     cfg.DefaultType,
	}

	logger.Infow("engine bootstrapped", "sessionId", sessionID, "baseDir", cfg.BaseDir)

	return eng, closeLogger, nil
}

func newLogger(baseDir, explicitPath, sessionID string) (*zap.SugaredLogger, func()) {
	logPath := explicitPath
	if logPath == "" {
		logPath = filepath.Join(baseDir, "logs", "engine.log")
	}

	rotator := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days, matches the general audit retention floor
		Compress:   true,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(rotator),
		zapcore.InfoLevel,
	)

	base := zap.New(core).With(zap.String("sessionId", sessionID))
	sugared := base.Sugar()

	return sugared, func() {
		_ = sugared.Sync()
		_ = rotator.Close()
	}
}
