// Write primitives: append, streaming overwrite and write-all.
//
// Append never disturbs existing bytes. Stream and Write truncate the
// path first, so calling either discards prior content. When
// Config.SyncWrites is set each call fsyncs before closing.
package rowfile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Append writes text at the end of the file, creating it if needed. The
// text is written verbatim; callers add their own terminator.
func (f *File) Append(text string) error {
	fd, err := os.OpenFile(f.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("append: open: %w", err)
	}
	if _, err := fd.WriteString(text); err != nil {
		fd.Close()
		return fmt.Errorf("append: write: %w", err)
	}
	return f.finish(fd, "append")
}

// Write replaces the entire file content with text.
func (f *File) Write(text string) error {
	fd, err := os.OpenFile(f.path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("write: open: %w", err)
	}
	if _, err := fd.WriteString(text); err != nil {
		fd.Close()
		return fmt.Errorf("write: %w", err)
	}
	return f.finish(fd, "write")
}

// Stream truncates the file and writes one line per call to next, each
// followed by '\n', until next reports ok == false. It returns the number
// of lines written. An error from next aborts the stream; lines already
// produced are flushed so the file reflects everything written so far.
func (f *File) Stream(next func() (line string, ok bool, err error)) (int, error) {
	fd, err := os.OpenFile(f.path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return 0, fmt.Errorf("stream: open: %w", err)
	}
	w := bufio.NewWriterSize(fd, f.config.ChunkSize)

	count := 0
	var produceErr error
	for {
		line, ok, err := next()
		if err != nil {
			produceErr = err
			break
		}
		if !ok {
			break
		}
		if _, err := w.WriteString(line); err != nil {
			fd.Close()
			return count, fmt.Errorf("stream: write: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			fd.Close()
			return count, fmt.Errorf("stream: write newline: %w", err)
		}
		count++
	}

	if err := w.Flush(); err != nil {
		fd.Close()
		return count, fmt.Errorf("stream: flush: %w", err)
	}
	if err := f.finish(fd, "stream"); err != nil {
		return count, err
	}
	return count, produceErr
}

// terminated reports whether the file is missing, empty, or ends in '\n',
// i.e. whether appending a line can start directly at the end.
func (f *File) terminated() (bool, error) {
	fd, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("append: open: %w", err)
	}
	defer fd.Close()

	info, err := fd.Stat()
	if err != nil {
		return false, fmt.Errorf("append: stat: %w", err)
	}
	if info.Size() == 0 {
		return true, nil
	}
	last := make([]byte, 1)
	if _, err := fd.ReadAt(last, info.Size()-1); err != nil {
		return false, fmt.Errorf("append: read tail: %w", err)
	}
	return last[0] == '\n', nil
}

// finish syncs (when configured) and closes a file opened for writing.
func (f *File) finish(fd *os.File, op string) error {
	if f.config.SyncWrites {
		if err := fd.Sync(); err != nil {
			fd.Close()
			return fmt.Errorf("%s: sync: %w", op, err)
		}
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("%s: close: %w", op, err)
	}
	return nil
}
