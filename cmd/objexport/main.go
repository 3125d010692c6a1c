package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/minin64/objexport/internal/config"
	"github.com/minin64/objexport/internal/logging"
	intOtel "github.com/minin64/objexport/internal/otel"
)

// Version can be set at build time via ldflags.
var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"

	AppName string = "objexport"
)

var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	RunStartTime time.Time = time.Now()

	LogFilePath string
	LogFile     *os.File

	// run state stamped onto every log record
	currentScene string
	currentMode  string
)

func main() {
	configDir := flag.String("config", ".", "directory containing objexport.cfg.json")
	sceneFile := flag.String("scene", "", "scene document path (overrides config)")
	outDir := flag.String("out", "", "output directory (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s (built %s)\n", AppName, Version, BuildDate)
		return
	}

	// Console-only logging until the config names a logs dir
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, "info", nil, nil)
	Logger = SlogManager.Logger()

	if err := config.Load(*configDir); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config", "dir", *configDir)
	}
	if *sceneFile != "" {
		viper.Set("scene", *sceneFile)
	}
	if *outDir != "" {
		viper.Set("output.dir", *outDir)
	}

	setupLogging()

	exitCode := 0
	if err := run(); err != nil {
		Logger.Error("Export failed", "error", err)
		exitCode = 1
	}

	shutdown()
	os.Exit(exitCode)
}

// setupLogging opens the per-run log file, brings up OTel when enabled, and
// re-points slog at both.
func setupLogging() {
	var err error

	logsDir := config.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.Mkdir(logsDir, 0755)
	}

	LogFilePath = logging.LogFilePath(logsDir, AppName, RunStartTime)
	LogFile, err = os.OpenFile(LogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", LogFilePath)
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    LogFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
			OTelProvider = nil
		}
	}

	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}

	SlogManager.Setup(LogFile, config.GetString("logLevel"), otelLogProvider, runContext)
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", LogFilePath)
}

// runContext supplies the dynamic attributes stamped on every record.
func runContext() []slog.Attr {
	attrs := make([]slog.Attr, 0, 2)
	if currentScene != "" {
		attrs = append(attrs, slog.String("scene", currentScene))
	}
	if currentMode != "" {
		attrs = append(attrs, slog.String("mode", currentMode))
	}
	return attrs
}

func shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := SlogManager.Flush(ctx); err != nil {
		Logger.Warn("Log flush failed", "error", err)
	}
	if OTelProvider != nil {
		if err := OTelProvider.Shutdown(ctx); err != nil {
			Logger.Warn("OTel shutdown failed", "error", err)
		}
	}
	if LogFile != nil {
		LogFile.Close()
	}
}
