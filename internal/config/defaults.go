package config

const (
	defaultLogDir            = "~/.local/share/boutreview/logs"
	defaultFFmpegBin         = "ffmpeg"
	defaultFFprobeBin        = "ffprobe"
	defaultGapSpeed          = 3.0
	defaultJobTimeoutSeconds = 900
	defaultExportWidth       = 1920
	defaultExportHeight      = 1080
	defaultOnDuplicateLabel  = "suffix"
	defaultMinChapterSpacing = 10.0
	defaultLogLevel          = "info"
	defaultLogFormat         = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:     defaultLogDir,
			FFmpegBin:  defaultFFmpegBin,
			FFprobeBin: defaultFFprobeBin,
		},
		Export: Export{
			IncludeGaps:              false,
			GapSpeed:                 defaultGapSpeed,
			JobTimeoutSeconds:        defaultJobTimeoutSeconds,
			Width:                    defaultExportWidth,
			Height:                   defaultExportHeight,
			OnDuplicateLabel:         defaultOnDuplicateLabel,
			MinChapterSpacingSeconds: defaultMinChapterSpacing,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
