// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fitcron/cli/cmd/collectcmd"
	"github.com/fitcron/cli/cmd/prunecmd"
	"github.com/fitcron/cli/cmd/runcmd"
	"github.com/fitcron/cli/cmd/sessioncmd"
	"github.com/fitcron/cli/cmd/statuscmd"
	"github.com/fitcron/cli/pkg/application"
	"github.com/fitcron/cli/pkg/config"
	"github.com/fitcron/cli/pkg/constants"
	"github.com/fitcron/cli/pkg/utils"
	"github.com/fitcron/cli/pkg/ux"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	app *application.Fitcron

	logLevel    string
	Version     = "1.3.0"
	cfgFile     string
	workdirFlag string
)

func NewRootCmd() *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use: "fitcron",
		Long: `fitcron - scheduled maintenance for a Garmin metrics pipeline.

fitcron keeps a Garmin data pipeline healthy between collection runs. It
evicts expired API sessions, prunes stale exporter output, and invokes the
collector binary for yesterday's metrics, all relative to a single pipeline
working directory.

COMMAND OVERVIEW:

  run       Full maintenance cycle (evict session, prune, collect)
  session   Inspect or evict the cached Garmin session
  prune     Delete stale exporter output files
  collect   Invoke the collector for yesterday's metrics
  status    Show pipeline state without changing anything

WORKING DIRECTORY:

  Every command operates relative to one working directory, resolved in
  order from: the positional argument, --workdir, FITCRON_WORKDIR, then
  the current directory. The directory must already exist; fitcron never
  creates it.

TYPICAL USE:

  # from cron, with the pipeline checkout as working directory
  fitcron run /opt/garmin-pipeline

  # inspect before touching anything
  fitcron status /opt/garmin-pipeline

For detailed command help, use: fitcron <command> --help`,
		PersistentPreRunE: createApp,
		Version:           Version,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <workdir>/fitcron.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, constants.ConfigLogLevelKey, "warn", "log level for console output")
	rootCmd.PersistentFlags().StringVar(&workdirFlag, constants.ConfigWorkdirKey, "",
		"pipeline working directory (defaults to $FITCRON_WORKDIR, then the current directory)")

	// add sub commands
	rootCmd.AddCommand(runcmd.NewCmd(app))
	rootCmd.AddCommand(sessioncmd.NewCmd(app))
	rootCmd.AddCommand(prunecmd.NewCmd(app))
	rootCmd.AddCommand(collectcmd.NewCmd(app))
	rootCmd.AddCommand(statuscmd.NewCmd(app))

	return rootCmd
}

func createApp(cmd *cobra.Command, args []string) error {
	// help and shell completion receive positionals that are not working
	// directories
	switch cmd.Name() {
	case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		args = nil
	}

	baseDir, err := setupEnv(args)
	if err != nil {
		return err
	}
	log, err := setupLogging(baseDir)
	if err != nil {
		return err
	}

	cf := config.New()
	app.Setup(baseDir, log, cf)

	initConfig(baseDir)
	bindFlags(cmd)

	return nil
}

// setupEnv resolves the pipeline working directory. Commands that take a
// positional working directory pass it through cobra args; it wins over
// --workdir, which wins over FITCRON_WORKDIR, which wins over the current
// directory.
func setupEnv(args []string) (string, error) {
	var baseDir string
	switch {
	case len(args) == 1:
		baseDir = args[0]
	case workdirFlag != "":
		baseDir = workdirFlag
	case os.Getenv(constants.WorkdirEnvVar) != "":
		baseDir = os.Getenv(constants.WorkdirEnvVar)
	default:
		cwd, err := os.Getwd()
		if err != nil {
			// no logger here yet
			fmt.Printf("unable to get current directory %s\n", err)
			return "", err
		}
		baseDir = cwd
	}

	baseDir = utils.ExpandHome(baseDir)
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed resolving working directory %s: %w", baseDir, err)
	}
	if !utils.DirExists(baseDir) {
		return "", fmt.Errorf("working directory %s does not exist", baseDir)
	}
	return baseDir, nil
}

func setupLogging(baseDir string) (*zap.Logger, error) {
	logDir := filepath.Join(baseDir, constants.LogDir)
	if err := os.MkdirAll(logDir, constants.DefaultPerms755); err != nil {
		return nil, fmt.Errorf("failed creating log directory: %w", err)
	}

	logFile, err := os.OpenFile(
		filepath.Join(logDir, constants.LogFileName),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		constants.WriteReadReadPerms,
	)
	if err != nil {
		return nil, fmt.Errorf("failed setting up logging, exiting: %w", err)
	}

	displayLevel, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", logLevel, err)
	}

	fileEncoderCfg := zap.NewProductionEncoderConfig()
	fileEncoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(fileEncoderCfg),
		zapcore.AddSync(logFile),
		zapcore.InfoLevel,
	)
	// user output goes to stdout, diagnostics to stderr
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(os.Stderr),
		displayLevel,
	)
	log := zap.New(zapcore.NewTee(fileCore, consoleCore))

	// create the user facing logger as a global var
	ux.NewUserLog(log, os.Stdout)
	return log, nil
}

// initConfig reads in the config file and ENV variables if set.
// Priority: flags > env vars > config file > defaults
func initConfig(baseDir string) {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in the working directory
		viper.AddConfigPath(baseDir)
		viper.SetConfigType(constants.DefaultConfigFileType)
		viper.SetConfigName(constants.DefaultConfigFileName) // fitcron.json
	}

	// Bind environment variables for overrides
	// FITCRON_COLLECTOR_PATH -> collector-path, etc.
	_ = viper.BindEnv(constants.ConfigCollectorPathKey, constants.CollectorPathEnvVar)
	_ = viper.BindEnv(constants.ConfigWorkdirKey, constants.WorkdirEnvVar)

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		app.Log.Debug("using config file", zap.String("config-file", viper.ConfigFileUsed()))
	}
	// No config file is normal - most installs don't have one, so we silently continue
}

// bindFlags exposes changed flags through viper so command code reads one
// source of truth for settings.
func bindFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = viper.BindPFlag(f.Name, f)
		}
	})
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	app = application.New()
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// ux.Logger is nil when the failure precedes logging setup
		if ux.Logger != nil {
			ux.Logger.PrintError("%s", err)
		} else {
			fmt.Fprintf(os.Stderr, "\nERROR: %s\n", err)
		}
		os.Exit(1)
	}
}
