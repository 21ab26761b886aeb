// Compressed export and import of a file's lines.
//
// Export writes every line, terminated by '\n', through a Zstd stream.
// Import reads such a stream into a sibling <path>_import file and renames
// it over the original once complete, so a truncated or corrupt archive
// never leaves the collection half-written.
package rowfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// importSuffix names the staging file used by Import.
const importSuffix = "_import"

// Export writes the file's lines to w as a Zstd stream and returns the
// number of lines written. Blank lines are skipped.
func (f *File) Export(w io.Writer) (int, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}

	count := 0
	if _, err := f.Lines(func(line string) error {
		if line == "" {
			return nil
		}
		if _, err := io.WriteString(enc, line+"\n"); err != nil {
			return err
		}
		count++
		return nil
	}); err != nil {
		enc.Close()
		return count, fmt.Errorf("export: %w", err)
	}

	if err := enc.Close(); err != nil {
		return count, fmt.Errorf("export: flush: %w", err)
	}
	return count, nil
}

// Import replaces the file content with the lines of a Zstd stream
// produced by Export. It returns the number of lines written. It fails
// with ErrTempExists while an interrupted rewrite awaits Recover.
func (f *File) Import(r io.Reader) (int, error) {
	return f.importLines(r, nil)
}

// importLines is Import with an optional per-line check. A check failure
// aborts before the original file is touched.
func (f *File) importLines(r io.Reader, check func(n int, line string) error) (int, error) {
	if err := f.checkTemp(); err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("import: %w: %w", ErrDecompress, err)
	}
	defer dec.Close()

	stage := &File{path: f.path + importSuffix, config: f.config}
	br := bufio.NewReaderSize(dec, f.config.ChunkSize)
	n := 0

	count, err := stage.Stream(func() (string, bool, error) {
		for {
			raw, err := br.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return "", false, fmt.Errorf("%w: %w", ErrDecompress, err)
			}
			if raw == "" && errors.Is(err, io.EOF) {
				return "", false, nil
			}
			n++
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}
			if check != nil {
				if cerr := check(n, line); cerr != nil {
					return "", false, cerr
				}
			}
			return line, true, nil
		}
	})
	if err != nil {
		os.Remove(stage.path)
		return 0, fmt.Errorf("import: %w", err)
	}

	if err := os.Rename(stage.path, f.path); err != nil {
		os.Remove(stage.path)
		return 0, fmt.Errorf("import: rename: %w", err)
	}
	return count, nil
}
