package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/resinhook/internal/config"
	"github.com/rshade/resinhook/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the resinhook CLI.
// It loads configuration, wires up logging and registers the subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		configPath string
		projectDir string
	)

	cmd := &cobra.Command{
		Use:   "resinhook",
		Short: "Chunked spreadsheet exports and virtual row browsing",
		Long: `resinhook turns row data from files, URLs or the built-in mock bank API
into .xlsx workbooks. Rows are written in chunks so long exports stay
cancellable, and large row sets can be browsed through a virtual list.`,
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, configPath, projectDir)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd, cfg)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"extra config file merged over the user and project config")
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", "",
		"project directory holding .resinhook/config.yaml (default: search upwards)")

	cmd.AddCommand(
		NewExportCmd(), NewBrowseCmd(), NewServeCmd(), NewJobsCmd(), newConfigCmd(),
	)
	return cmd
}

// loadConfig builds the effective configuration: defaults, the user file,
// the project overlay, the --config overlay and finally the environment.
func loadConfig(cmd *cobra.Command, configPath, projectFlag string) (*config.Config, error) {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg := config.NewWithProjectDir(ctx, config.ResolveProjectDir(ctx, projectFlag, cwd))

	if configPath != "" {
		if err = config.ShallowMergeYAML(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading --config: %w", err)
		}
		cfg.ApplyEnv()
	}

	// The config commands must run even when the file is invalid.
	if cmd.HasParent() && cmd.Parent().Name() == "config" {
		return cfg, nil
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

const rootCmdExample = `  # Export generated bank transactions
  resinhook export --mock 5000 --out-dir ./out

  # Export a JSON file with selected columns and English labels
  resinhook export --input rows.json --columns id,amount --header-map amount=Amount

  # Export with a grouped header tree
  resinhook export --input rows.json --headers-file headers.yaml

  # Browse rows fetched from a URL
  resinhook browse --url http://127.0.0.1:3001/api/excel/export

  # Start the mock API
  resinhook serve --addr 127.0.0.1:3001

  # Show recent export jobs
  resinhook jobs --sort rows:desc`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
