package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/systemstart/collection-check/pkg/api"
	"github.com/systemstart/collection-check/pkg/logging"
	"github.com/systemstart/collection-check/pkg/processing"
	"github.com/systemstart/collection-check/pkg/steps"
)

var version = "dev"

// A failing step exits with the failing tool's own exit code instead.
const (
	_ = iota
	exitStepFailed
	exitLoggingSetupFailed
	exitDotenvError
	exitLoadConfigurationFileFailed
	exitMarkerFileMissing
	exitListFailed
)

var (
	rootDirectory string
	configFile    string
	listSteps     bool
	loggingType   string
	logLevel      string
	showVersion   bool
)

func init() {
	flag.StringVar(
		&rootDirectory,
		"root",
		".",
		"collection root directory")
	flag.StringVar(
		&configFile,
		"config",
		"",
		"config file (default: .collection-check.{yaml,yml,toml} in the root)")
	flag.BoolVar(
		&listSteps,
		"list",
		false,
		"print the resolved pipeline and exit")
	flag.StringVar(
		&loggingType,
		"logging-type",
		"tint",
		"logging type: json, text or tint")
	flag.StringVar(
		&logLevel,
		"log-level",
		"info",
		"logging level: debug, info, warn, error")
	flag.BoolVar(
		&showVersion,
		"version",
		false,
		"print version and exit")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := logging.Initialize(os.Stderr, loggingType, logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "logging setup failed: %v\n", err)
		os.Exit(exitLoggingSetupFailed)
	}

	includeEnv()

	pipeline := loadPipeline()

	if listSteps {
		if err := processing.WritePlan(os.Stdout, pipeline); err != nil {
			slog.Error("failed to print pipeline", "error", err)
			os.Exit(exitListFailed)
		}
		os.Exit(0)
	}

	os.Exit(run(pipeline))
}

func run(pipeline *api.Pipeline) int {
	_, err := processing.Run(pipeline, processing.Options{
		Root:     rootDirectory,
		Executor: steps.NewExecExecutor(),
		Out:      os.Stdout,
	})
	if err == nil {
		return 0
	}

	var (
		cfgErr  *processing.ConfigurationError
		stepErr *processing.StepFailure
	)
	switch {
	case errors.As(err, &cfgErr):
		slog.Error("wrong invocation directory", "root", rootDirectory, "error", err)
		return exitMarkerFileMissing
	case errors.As(err, &stepErr):
		slog.Error("validation failed", "step", stepErr.Step, "category", stepErr.Category, "exitCode", stepErr.ExitCode)
		return stepErr.ExitCode
	default:
		slog.Error("validation failed", "error", err)
		return exitStepFailed
	}
}

func loadPipeline() *api.Pipeline {
	pipeline, err := api.LoadPipeline(rootDirectory, configFile)
	if err != nil {
		slog.Error("failed to load configuration", "filename", configFile, "error", err)
		os.Exit(exitLoadConfigurationFileFailed)
	}
	if pipeline.FilePath != "" {
		slog.Info("using configuration file", "filename", pipeline.FilePath)
	}
	return pipeline
}

func includeEnv() {
	err := godotenv.Load(filepath.Join(rootDirectory, ".env"))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to load .env", "error", err)
			os.Exit(exitDotenvError)
		}
		slog.Debug("no .env file found")
	} else {
		slog.Info("using .env file")
	}
}
