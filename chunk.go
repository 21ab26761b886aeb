// Fixed-size window reads.
//
// Chunks is the only primitive that touches file bytes on the read path.
// Windows are read with ReadAt at explicit offsets, so the reader never
// depends on the descriptor's seek position.
package rowfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Chunks calls fn with successive windows of up to ChunkSize bytes, from
// offset 0 to end of file, and returns the number of windows delivered.
// The last window may be shorter. The slice passed to fn is reused between
// calls and must not be retained.
//
// A missing file, an empty file, or a file of a single byte yields no
// windows and a nil error. An error from fn stops the read and is returned
// unchanged.
func (f *File) Chunks(fn func([]byte) error) (int, error) {
	fd, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("chunks: open: %w", err)
	}
	defer fd.Close()

	info, err := fd.Stat()
	if err != nil {
		return 0, fmt.Errorf("chunks: stat: %w", err)
	}
	total := info.Size()
	if total <= 1 {
		return 0, nil
	}

	buf := make([]byte, min(int64(f.config.ChunkSize), total))
	var off int64
	count := 0
	for off < total {
		want := min(int64(len(buf)), total-off)
		n, err := fd.ReadAt(buf[:want], off)
		if n > 0 {
			off += int64(n)
			count++
			if cbErr := fn(buf[:n]); cbErr != nil {
				return count, cbErr
			}
		}
		if err == io.EOF {
			// Truncated underneath us; deliver what was there.
			break
		}
		if err != nil {
			return count, fmt.Errorf("chunks: read at %d: %w", off, err)
		}
	}
	return count, nil
}
