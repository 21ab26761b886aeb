// Package rowfile provides a minimal document store backed by flat files.
// Each collection lives in a single file of newline-delimited JSON objects,
// one document per line, identified by an auto-incrementing integer id.
//
// The file engine underneath is deliberately simple. Reads stream the file
// in fixed-size chunks and reassemble lines that straddle chunk boundaries.
// Rewrites move the live file aside to <path>_temp, stream its lines back
// into the original path through a per-line edit function (keep, replace
// or drop), then remove the temp file. There are no indexes: every lookup
// is a linear scan, and next-id is max(id)+1 computed by a full scan.
//
// Only one logical writer per collection is supported. Concurrent scans
// and rewrites of the same collection are not coordinated.
package rowfile

import "errors"

// Sentinel errors for programmatic handling. Callers can use errors.Is to
// distinguish recoverable conditions (ErrNotFound, ErrNoID) from corruption
// (ErrCorruptRow) or an interrupted rewrite (ErrTempExists).
var (
	ErrNotFound       = errors.New("row not found")
	ErrNoID           = errors.New("row has no id")
	ErrInvalidID      = errors.New("row id is not a positive integer")
	ErrInvalidName    = errors.New("invalid collection name")
	ErrCorruptRow     = errors.New("corrupt row")
	ErrTempExists     = errors.New("temp file already exists")
	ErrInvalidPattern = errors.New("invalid regex pattern")
	ErrDecompress     = errors.New("decompression failed")
	ErrMultiline      = errors.New("line contains a newline")
)

// ErrStop can be returned from a line or row callback to end iteration
// early. It is never returned to the caller.
var ErrStop = errors.New("stop iteration")
