package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and binary location configuration.
type Paths struct {
	ProjectDir string `toml:"project_dir"`
	LogDir     string `toml:"log_dir"`
	FFmpegBin  string `toml:"ffmpeg_bin"`
	FFprobeBin string `toml:"ffprobe_bin"`
}

// Export contains tuning for the export pipeline.
type Export struct {
	IncludeGaps              bool    `toml:"include_gaps"`
	GapSpeed                 float64 `toml:"gap_speed"`
	Workers                  int     `toml:"workers"`
	JobTimeoutSeconds        int     `toml:"job_timeout_seconds"`
	Width                    int     `toml:"width"`
	Height                   int     `toml:"height"`
	OnDuplicateLabel         string  `toml:"on_duplicate_label"`
	LeadingChapterLabel      string  `toml:"leading_chapter_label"`
	MinChapterSpacingSeconds float64 `toml:"min_chapter_spacing_seconds"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root configuration document.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Export  Export  `toml:"export"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the user-level configuration file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "boutreview", "config.toml"), nil
}

// Load reads the configuration at path, or the default location when path is
// empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the directories the tool writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// JobTimeout returns the per-extraction-job timeout.
func (c *Config) JobTimeout() time.Duration {
	return time.Duration(c.Export.JobTimeoutSeconds) * time.Second
}

// WorkerCount resolves the extraction worker pool size, defaulting to the
// available CPU parallelism.
func (c *Config) WorkerCount() int {
	if c.Export.Workers > 0 {
		return c.Export.Workers
	}
	return runtime.NumCPU()
}

func (c *Config) normalize() {
	c.Paths.ProjectDir = expandHome(strings.TrimSpace(c.Paths.ProjectDir))
	c.Paths.LogDir = expandHome(strings.TrimSpace(c.Paths.LogDir))
	c.Paths.FFmpegBin = strings.TrimSpace(c.Paths.FFmpegBin)
	c.Paths.FFprobeBin = strings.TrimSpace(c.Paths.FFprobeBin)
	if c.Paths.FFmpegBin == "" {
		c.Paths.FFmpegBin = defaultFFmpegBin
	}
	if c.Paths.FFprobeBin == "" {
		c.Paths.FFprobeBin = defaultFFprobeBin
	}
	if c.Paths.LogDir == "" {
		c.Paths.LogDir = expandHome(defaultLogDir)
	}
	if c.Export.GapSpeed == 0 {
		c.Export.GapSpeed = defaultGapSpeed
	}
	if c.Export.JobTimeoutSeconds == 0 {
		c.Export.JobTimeoutSeconds = defaultJobTimeoutSeconds
	}
	if c.Export.Width == 0 {
		c.Export.Width = defaultExportWidth
	}
	if c.Export.Height == 0 {
		c.Export.Height = defaultExportHeight
	}
	if strings.TrimSpace(c.Export.OnDuplicateLabel) == "" {
		c.Export.OnDuplicateLabel = defaultOnDuplicateLabel
	}
	if c.Export.MinChapterSpacingSeconds == 0 {
		c.Export.MinChapterSpacingSeconds = defaultMinChapterSpacing
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
