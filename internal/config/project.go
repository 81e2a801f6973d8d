package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rshade/resinhook/internal/logging"
)

// EnvProjectDir points at a project directory explicitly.
const EnvProjectDir = "RESINHOOK_PROJECT_DIR"

const projectDirName = ".resinhook"

// ResolveProjectDir finds the project-local .resinhook directory. It checks,
// in order:
//  1. flagValue
//  2. RESINHOOK_PROJECT_DIR
//  3. the nearest ancestor of startDir holding .resinhook/config.yaml
//
// It returns an absolute path, or "" when no project is found.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}
	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, projectDirName)
		if _, statErr := os.Stat(filepath.Join(candidate, FileName)); statErr == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// NewWithProjectDir builds the global config and shallow-merges the project
// config on top. An empty projectDir behaves like New.
func NewWithProjectDir(ctx context.Context, projectDir string) *Config {
	cfg := New()
	if projectDir == "" {
		return cfg
	}

	overlayPath := filepath.Join(projectDir, FileName)
	if _, err := os.Stat(overlayPath); err != nil {
		return cfg
	}

	merged := New()
	if err := ShallowMergeYAML(merged, overlayPath); err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using global defaults")
		return cfg
	}
	merged.ApplyEnv()
	return merged
}

func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}

	if filepath.Base(abs) == projectDirName {
		return abs
	}
	return filepath.Join(abs, projectDirName)
}
