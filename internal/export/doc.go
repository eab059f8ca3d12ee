// Package export turns a compiled plan into files on disk: one encoded clip
// per plan unit, the chapter and comment text artifacts, and the assembled
// highlights reel. Extraction runs on a bounded worker pool and is
// best-effort; assembly runs once, sequentially, and only when every
// extraction job succeeded. A file lock on the output directory keeps
// concurrent exports from interleaving writes.
package export
