// Package config resolves engine configuration through the precedence
// chain explicit value > environment variable > config file > default,
// following BeadsLog's internal/config/config.go viper singleton pattern.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "GIPRIO"

// Config is the resolved set of values the engine needs at bootstrap.
type Config struct {
	GitHubToken     string
	Owner           string
	Repo            string
	Repository      string // "owner/repo", takes precedence over Owner/Repo
	BaseDir         string
	DefaultPriority string
	DefaultType     string
}

// Source names the places a resolved value can come from. Nothing in this
// package records or reports the source of a resolved value.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceFile    Source = "file"
	SourceDefault Source = "default"
)

// Resolver wraps a *viper.Viper with the engine's defaults and discovery.
type Resolver struct {
	v *viper.Viper
}

// New builds a Resolver: sets defaults, binds the GIPRIO_ env prefix, and
// walks up from the current working directory looking for
// .giprio/config.yaml, mirroring config.go's directory walk.
func New() (*Resolver, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("base_dir", defaultBaseDir())
	v.SetDefault("default_priority", "medium")
	v.SetDefault("default_type", "feature")

	if configPath := discoverConfigFile(); configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configPath, err)
		}
	}

	return &Resolver{v: v}, nil
}

func defaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".giprio"
	}
	return filepath.Join(home, ".giprio")
}

// discoverConfigFile walks up from the working directory looking for
// .giprio/config.yaml, falling back to ~/.config/giprio/config.yaml.
func discoverConfigFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ".giprio", "config.yaml")
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ".config", "giprio", "config.yaml")
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate
		}
	}
	return ""
}

// Resolve builds a Config from explicit flag overrides (any may be empty),
// environment variables, the discovered config file, and defaults, in
// that precedence order.
func (r *Resolver) Resolve(flagToken, flagRepository, flagOwner, flagRepo string) Config {
	cfg := Config{
		GitHubToken:     firstNonEmpty(flagToken, os.Getenv("GITHUB_TOKEN"), r.v.GetString("github_token")),
		Repository:      firstNonEmpty(flagRepository, os.Getenv("GITHUB_REPOSITORY"), r.v.GetString("github_repository")),
		Owner:           firstNonEmpty(flagOwner, os.Getenv("GITHUB_OWNER"), r.v.GetString("github_owner")),
		Repo:            firstNonEmpty(flagRepo, os.Getenv("GITHUB_REPO"), r.v.GetString("github_repo")),
		BaseDir:         r.v.GetString("base_dir"),
		DefaultPriority: r.v.GetString("default_priority"),
		DefaultType:     r.v.GetString("default_type"),
	}
	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ResolveRepository applies spec §4.7's repository resolution order:
// explicit argument -> GITHUB_REPOSITORY -> GITHUB_OWNER+GITHUB_REPO pair
// -> error.
func (c Config) ResolveRepository(explicit string) (owner, repo string, err error) {
	if explicit != "" {
		return splitRepository(explicit)
	}
	if c.Repository != "" {
		return splitRepository(c.Repository)
	}
	if c.Owner != "" && c.Repo != "" {
		return c.Owner, c.Repo, nil
	}
	return "", "", fmt.Errorf("repository not resolved: pass owner/repo, set GITHUB_REPOSITORY, or set GITHUB_OWNER and GITHUB_REPO")
}

func splitRepository(full string) (owner, repo string, err error) {
	parts := strings.SplitN(full, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/repo", full)
	}
	return parts[0], parts[1], nil
}

// IdentityFromGit shells out to `git config user.name`, falling back to
// the OS hostname, for operational logging context only (never used as a
// session identifier — sessions always get a fresh UUID per spec §4.8).
func IdentityFromGit() string {
	out, err := exec.Command("git", "config", "user.name").Output() // #nosec G204 -- fixed argv, no user input
	if err == nil {
		if name := strings.TrimSpace(string(out)); name != "" {
			return name
		}
	}
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "unknown"
}
