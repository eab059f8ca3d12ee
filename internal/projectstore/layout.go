package projectstore

import "path/filepath"

// Layout resolves the on-disk structure of a project directory.
type Layout struct {
	Base string
}

// NewLayout wraps a project base directory.
func NewLayout(base string) Layout {
	return Layout{Base: base}
}

// ProjectFile is the project document path.
func (l Layout) ProjectFile() string {
	return filepath.Join(l.Base, "project.json")
}

// VideosDir holds the imported source recordings.
func (l Layout) VideosDir() string {
	return filepath.Join(l.Base, "videos")
}

// VideoPath resolves an imported recording by filename.
func (l Layout) VideoPath(filename string) string {
	return filepath.Join(l.VideosDir(), filename)
}

// ExportsDir holds the produced artifacts.
func (l Layout) ExportsDir() string {
	return filepath.Join(l.Base, "exports")
}

// ClipsDir holds the per-segment clip files.
func (l Layout) ClipsDir() string {
	return filepath.Join(l.ExportsDir(), "clips")
}

// LogsDir holds export logs.
func (l Layout) LogsDir() string {
	return filepath.Join(l.ExportsDir(), "logs")
}
