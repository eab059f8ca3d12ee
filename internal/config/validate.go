package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateExport() error {
	if c.Export.GapSpeed < 1.0 {
		return fmt.Errorf("export.gap_speed must be >= 1.0, got %g", c.Export.GapSpeed)
	}
	if c.Export.Workers < 0 {
		return errors.New("export.workers must not be negative")
	}
	if c.Export.JobTimeoutSeconds <= 0 {
		return errors.New("export.job_timeout_seconds must be positive")
	}
	if c.Export.Width <= 0 || c.Export.Height <= 0 {
		return errors.New("export.width and export.height must be positive")
	}
	switch c.Export.OnDuplicateLabel {
	case "suffix", "newest":
	default:
		return fmt.Errorf("export.on_duplicate_label must be %q or %q, got %q", "suffix", "newest", c.Export.OnDuplicateLabel)
	}
	if c.Export.MinChapterSpacingSeconds < 0 {
		return errors.New("export.min_chapter_spacing_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
