package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/datatypes"

	"github.com/minin64/objexport/internal/config"
	"github.com/minin64/objexport/internal/export"
	"github.com/minin64/objexport/internal/manifest"
	"github.com/minin64/objexport/internal/telemetry"
	"github.com/minin64/objexport/pkg/scene"
)

// run executes one export: load the scene, render declarations, write the
// files, then record the run in the manifest and telemetry sinks.
func run() error {
	cfg, mode, err := config.GetExportConfig()
	if err != nil {
		return fmt.Errorf("export config: %w", err)
	}

	currentScene = config.GetString("scene")
	currentMode = mode

	doc, err := scene.LoadDocument(currentScene)
	if err != nil {
		return err
	}
	Logger.Info("Loaded scene", "objects", len(doc.Objects()))

	start := time.Now()
	var rendered export.Rendered
	switch mode {
	case config.ModeAnimation:
		rendered, err = export.Animation(doc, cfg)
	default:
		rendered, err = export.Property(doc, cfg)
	}
	if err != nil {
		return err
	}
	duration := time.Since(start)

	sourcePath, headerPath, err := writeFiles(rendered)
	if err != nil {
		return err
	}
	Logger.Info("Wrote export", "source", sourcePath, "header", headerPath, "duration", duration)

	frames := 1
	if mode == config.ModeAnimation {
		frames = cfg.FrameEnd - cfg.FrameStart + 1
	}

	if config.GetDBConfig().Enabled {
		if err := recordManifest(cfg, mode, sourcePath, headerPath, duration); err != nil {
			Logger.Warn("Manifest record failed", "error", err)
		}
	}
	if config.GetInfluxConfig().Enabled {
		if err := reportTelemetry(cfg, mode, frames, duration); err != nil {
			Logger.Warn("Telemetry report failed", "error", err)
		}
	}

	return nil
}

// writeFiles writes the .c file and, when configured, the matching .h file.
func writeFiles(rendered export.Rendered) (sourcePath, headerPath string, err error) {
	out := config.GetOutputConfig()
	if _, err := os.Stat(out.Dir); os.IsNotExist(err) {
		os.MkdirAll(out.Dir, 0755)
	}

	sourcePath = filepath.Join(out.Dir, out.Name+".c")
	if err := os.WriteFile(sourcePath, []byte(rendered.SourceFile()), 0644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", sourcePath, err)
	}

	if out.Header {
		headerPath = filepath.Join(out.Dir, out.Name+".h")
		if err := os.WriteFile(headerPath, []byte(rendered.HeaderFile()), 0644); err != nil {
			return "", "", fmt.Errorf("write %s: %w", headerPath, err)
		}
	}

	return sourcePath, headerPath, nil
}

// recordManifest stores the run in the manifest database with the settings
// snapshot that produced it.
func recordManifest(cfg *export.Config, mode, sourcePath, headerPath string, duration time.Duration) error {
	zlog := zerolog.New(LogFile).With().Timestamp().Logger()
	if LogFile == nil {
		zlog = zerolog.Nop()
	}

	m := manifest.NewManager(zlog, config.GetDBConfig(), manifestDBPath())
	if err := m.Connect(); err != nil {
		return err
	}
	defer m.Close()
	if err := m.Setup(); err != nil {
		return err
	}

	snapshot, err := json.Marshal(viper.Get("export"))
	if err != nil {
		return fmt.Errorf("config snapshot: %w", err)
	}

	return m.Record(&manifest.ExportRecord{
		Mode:        mode,
		Variable:    cfg.Variable,
		SceneFile:   currentScene,
		SourceFile:  sourcePath,
		HeaderFile:  headerPath,
		ObjectCount: len(cfg.Objects),
		FrameStart:  cfg.FrameStart,
		FrameEnd:    cfg.FrameEnd,
		DurationMs:  duration.Milliseconds(),
		Config:      datatypes.JSON(snapshot),
	})
}

func manifestDBPath() string {
	return filepath.Join(config.GetString("logsDir"),
		fmt.Sprintf("%s_manifest.db", AppName))
}

// reportTelemetry sends the per-run point to InfluxDB (or its backup file).
func reportTelemetry(cfg *export.Config, mode string, frames int, duration time.Duration) error {
	zlog := zerolog.New(LogFile).With().Timestamp().Logger()
	if LogFile == nil {
		zlog = zerolog.Nop()
	}

	backup := filepath.Join(config.GetString("logsDir"),
		fmt.Sprintf("%s_metrics.log.gz", AppName))
	m := telemetry.NewManager(zlog, config.GetInfluxConfig(), backup)
	if err := m.Connect(); err != nil {
		return err
	}
	defer m.Close()

	point := telemetry.ExportPoint(mode, cfg.Variable, len(cfg.Objects), frames, duration)
	return m.WritePoint(context.Background(), telemetry.ExportBucket, point)
}
