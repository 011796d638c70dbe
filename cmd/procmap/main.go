package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/rendis/procmap/internal/logging"
	"github.com/rendis/procmap/internal/sdcrs"
	"github.com/rendis/procmap/internal/validation"
	"github.com/rendis/procmap/pkg/schema"
	"github.com/spf13/cobra"
)

var (
	definitionPath string
	envFile        string
	logLevel       string
	logFormat      string
	toolsDir       string

	cfg    Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "procmap",
	Short:         "Model, validate and render swimlane process diagrams",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(settingsPath(), envFile, os.LookupEnv)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			loaded.LogFormat = logFormat
		}
		if cmd.Flags().Changed("tools-dir") {
			loaded.ToolsDir = toolsDir
		}

		l, err := logging.NewLogger(os.Stderr, loaded.LogLevel, loaded.LogFormat)
		if err != nil {
			return err
		}
		cfg, logger = loaded, l

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(logging.WithRunID(ctx, uuid.NewString()))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&definitionPath, "definition", "d", "", "process definition file (.yaml/.json); built-in SDCRS process if empty")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file layered under PROCMAP_* environment variables")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json")
	rootCmd.PersistentFlags().StringVar(&toolsDir, "tools-dir", "", "directory holding the mermaid-ascii binary (default ~/.procmap/bin)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadDefinition returns the definition named by --definition, or the
// built-in SDCRS process.
func loadDefinition(path string) (*schema.ProcessDefinition, error) {
	if path == "" {
		return sdcrs.Definition(), nil
	}
	return validation.LoadDefinition(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
