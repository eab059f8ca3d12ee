// Package annotate remaps project notes into output-time coordinates and
// validates chapter constraints before the text artifacts are written.
package annotate
