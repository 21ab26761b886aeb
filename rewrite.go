// Rewrite transforms every line of a file through a temp sibling.
//
// The live file is renamed to <path>_temp, which frees the original path
// for the output while keeping the original bytes intact. A reader
// goroutine streams lines out of the temp file into a bounded queue; the
// writer truncates the original path and pulls from the queue one line at
// a time, asking the edit function what to do with each:
//
//   - KeepLine writes the original text back unchanged.
//   - ReplaceLine writes the supplied text instead.
//   - DropLine writes nothing for that line.
//
// The queue is the only handoff between the two sides. The writer never
// runs ahead of the reader, and memory is bounded by Config.RewriteQueue
// rather than by file size. When both sides finish the temp file is
// removed.
//
// There is no rollback. If anything fails after the rename, the temp file
// is left in place holding the original content and the original path may
// be partial. Recover restores the temp file; until then further rewrites
// refuse to start with ErrTempExists.
package rowfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
)

// EditOp selects what happens to a line during a rewrite.
type EditOp int

// Edit operations.
const (
	OpKeep    EditOp = iota // Write the original line
	OpDrop                  // Omit the line
	OpReplace               // Write replacement text
)

// Edit is the result of a per-line rewrite decision.
type Edit struct {
	Op   EditOp
	Line string // Replacement text, OpReplace only
}

// KeepLine leaves a line unchanged.
func KeepLine() Edit { return Edit{Op: OpKeep} }

// DropLine removes a line.
func DropLine() Edit { return Edit{Op: OpDrop} }

// ReplaceLine substitutes line for the original. It must not contain '\n'.
func ReplaceLine(line string) Edit { return Edit{Op: OpReplace, Line: line} }

// Rewrite passes every line of the file through fn and writes the result
// back to the same path, in order. It returns the number of original lines
// processed, not the number written. A missing file is not an error and
// processes nothing.
//
// Returning ErrStop from fn keeps that line and every line after it
// unchanged without further calls.
func (f *File) Rewrite(fn func(string) (Edit, error)) (int, error) {
	log := f.config.Logger.With("path", f.path)

	if err := f.checkTemp(); err != nil {
		return 0, fmt.Errorf("rewrite: %w", err)
	}

	exists, err := f.Exists()
	if err != nil {
		return 0, fmt.Errorf("rewrite: %w", err)
	}
	if !exists {
		return 0, nil
	}

	// The temp handle stays out of the registry; it lives only for this call.
	src := &File{path: f.TempPath(), config: f.config}
	if err := os.Rename(f.path, src.path); err != nil {
		return 0, fmt.Errorf("rewrite: rename: %w", err)
	}
	log.Debug("rewrite: renamed", "temp", src.Path())

	g, ctx := errgroup.WithContext(context.Background())
	queue := make(chan string, f.config.RewriteQueue)

	var read int
	g.Go(func() error {
		defer close(queue)
		n, err := src.Lines(func(line string) error {
			select {
			case queue <- line:
				return nil
			case <-ctx.Done():
				return context.Cause(ctx)
			}
		})
		read = n
		if err != nil {
			return fmt.Errorf("rewrite: read temp: %w", err)
		}
		return nil
	})

	var written int
	g.Go(func() error {
		stopped := false
		n, err := f.Stream(func() (string, bool, error) {
			for {
				var line string
				var ok bool
				select {
				case line, ok = <-queue:
				case <-ctx.Done():
					return "", false, context.Cause(ctx)
				}
				if !ok {
					return "", false, nil
				}
				if stopped {
					return line, true, nil
				}

				edit, err := fn(line)
				if errors.Is(err, ErrStop) {
					stopped = true
					return line, true, nil
				}
				if err != nil {
					return "", false, err
				}
				switch edit.Op {
				case OpKeep:
					return line, true, nil
				case OpDrop:
					continue
				case OpReplace:
					if strings.ContainsRune(edit.Line, '\n') {
						return "", false, ErrMultiline
					}
					return edit.Line, true, nil
				default:
					return "", false, fmt.Errorf("unknown edit op %d", edit.Op)
				}
			}
		})
		written = n
		if err != nil {
			return fmt.Errorf("rewrite: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Debug("rewrite: failed, original kept at temp path", "temp", src.Path(), "err", err)
		return read, err
	}
	log.Debug("rewrite: streamed", "read", read, "written", written)

	if err := src.Remove(); err != nil {
		return read, fmt.Errorf("rewrite: cleanup: %w", err)
	}
	log.Debug("rewrite: cleaned")
	return read, nil
}

// checkTemp reports ErrTempExists while an interrupted rewrite's temp
// file is present.
func (f *File) checkTemp() error {
	temp := f.TempPath()
	_, err := os.Lstat(temp)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrTempExists, temp)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat temp: %w", err)
	}
	return nil
}

// Recover moves an orphaned temp file back over the file's path, undoing
// a rewrite that did not finish. It reports whether anything was restored.
// Rewrite and Import refuse to run while the temp file exists, but Append
// does not: anything appended to the live path since the failure is
// discarded.
func (f *File) Recover() (bool, error) {
	temp := f.TempPath()
	if _, err := os.Lstat(temp); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("recover: stat temp: %w", err)
	}
	if err := os.Rename(temp, f.path); err != nil {
		return false, fmt.Errorf("recover: %w", err)
	}
	f.config.Logger.Debug("recover: restored", "path", f.path)
	return true, nil
}
