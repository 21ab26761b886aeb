// Line reassembly on top of Chunks.
//
// Chunk windows are appended to a pending buffer and split on '\n'. Only
// the unterminated tail is carried into the next window, so a terminator
// sitting on the last byte of a window ends its line there and the next
// window starts clean. Splitting works on bytes rather than decoded text,
// so a UTF-8 sequence cut by a window boundary is rejoined intact.
package rowfile

import (
	"bytes"
	"errors"
	"iter"
)

// Lines calls fn for every line in file order, with surrounding whitespace
// trimmed, and returns the number of lines delivered. A final line without
// a terminator is still delivered. A missing or empty file delivers
// nothing and returns 0.
//
// Returning ErrStop from fn ends the iteration early with a nil error.
func (f *File) Lines(fn func(string) error) (int, error) {
	var pending []byte
	count := 0

	emit := func(b []byte) error {
		count++
		return fn(string(bytes.TrimSpace(b)))
	}

	_, err := f.Chunks(func(chunk []byte) error {
		// Everything before from has already been searched.
		from := len(pending)
		pending = append(pending, chunk...)

		start := 0
		for {
			i := bytes.IndexByte(pending[from:], '\n')
			if i < 0 {
				break
			}
			end := from + i
			if err := emit(pending[start:end]); err != nil {
				return err
			}
			start = end + 1
			from = start
		}
		pending = pending[:copy(pending, pending[start:])]
		return nil
	})
	if errors.Is(err, ErrStop) {
		return count, nil
	}
	if err != nil {
		return count, err
	}

	if len(pending) > 0 {
		if err := emit(pending); err != nil && !errors.Is(err, ErrStop) {
			return count, err
		}
	}
	return count, nil
}

// All yields every line in file order. Callers consume results lazily via
// range and can break early to stop the read.
func (f *File) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		_, err := f.Lines(func(line string) error {
			if !yield(line, nil) {
				return ErrStop
			}
			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}
