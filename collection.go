// Collections: typed row operations over one collection file.
//
// Every operation is a linear pass over the file. Select and Load read
// through Lines; Update goes through Rewrite; Insert appends one line.
// Blank lines are skipped on read and dropped on rewrite. A line that
// fails to decode aborts the enclosing pass with ErrCorruptRow.
package rowfile

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Collection is a named set of rows stored in one file.
type Collection[R Row] struct {
	name   string
	file   *File
	newRow func() R
	log    *slog.Logger
}

// OpenCollection binds the named collection in db to row type R. newRow
// must return a fresh, empty row on every call.
func OpenCollection[R Row](db *DB, name string, newRow func() R) (*Collection[R], error) {
	file, err := db.File(name)
	if err != nil {
		return nil, err
	}
	return &Collection[R]{
		name:   name,
		file:   file,
		newRow: newRow,
		log:    db.config.Logger.With("collection", name),
	}, nil
}

// Name returns the collection name as given.
func (c *Collection[R]) Name() string {
	return c.name
}

// File returns the collection's file handle.
func (c *Collection[R]) File() *File {
	return c.file
}

// decode parses line n. Blank lines report ok == false.
func (c *Collection[R]) decode(n int, line string) (R, bool, error) {
	var zero R
	if line == "" {
		return zero, false, nil
	}
	row := c.newRow()
	if err := row.Decode([]byte(line)); err != nil {
		return zero, false, fmt.Errorf("%w: %s line %d: %w", ErrCorruptRow, c.name, n, err)
	}
	return row, true, nil
}

// check validates an imported line.
func (c *Collection[R]) check(n int, line string) error {
	_, _, err := c.decode(n, line)
	return err
}

// Select calls fn for every row in file order and returns the number of
// rows visited. A missing collection has no rows. Returning ErrStop from
// fn ends the scan early.
func (c *Collection[R]) Select(fn func(R) error) (int, error) {
	rows, n := 0, 0
	_, err := c.file.Lines(func(line string) error {
		n++
		row, ok, err := c.decode(n, line)
		if err != nil || !ok {
			return err
		}
		rows++
		return fn(row)
	})
	if err != nil {
		return rows, fmt.Errorf("select: %w", err)
	}
	return rows, nil
}

// Update rewrites the collection, passing every row to fn and applying
// the returned Change. It returns the number of lines processed.
// Returning ErrStop from fn keeps the current and remaining rows as they
// are.
func (c *Collection[R]) Update(fn func(R) (Change, error)) (int, error) {
	n := 0
	count, err := c.file.Rewrite(func(line string) (Edit, error) {
		n++
		row, ok, err := c.decode(n, line)
		if err != nil {
			return Edit{}, err
		}
		if !ok {
			return DropLine(), nil
		}

		change, err := fn(row)
		if err != nil {
			return Edit{}, err
		}
		switch change.op {
		case OpKeep:
			return KeepLine(), nil
		case OpDrop:
			return DropLine(), nil
		}
		if change.row == nil {
			return Edit{}, fmt.Errorf("%s line %d: replace with nil row", c.name, n)
		}
		data, err := change.row.Encode()
		if err != nil {
			return Edit{}, fmt.Errorf("%s line %d: encode: %w", c.name, n, err)
		}
		return ReplaceLine(string(data)), nil
	})
	if err != nil {
		return count, fmt.Errorf("update: %w", err)
	}
	c.log.Debug("update", "lines", count)
	return count, nil
}

// Count returns the number of rows.
func (c *Collection[R]) Count() (int, error) {
	return c.Select(func(R) error { return nil })
}

// Checksum returns the digest of the collection file.
func (c *Collection[R]) Checksum() (string, error) {
	return c.file.Checksum()
}

// Export writes the collection to w as a Zstd stream.
func (c *Collection[R]) Export(w io.Writer) (int, error) {
	return c.file.Export(w)
}

// Import replaces the collection with a stream written by Export. Every
// line must decode as a row; otherwise nothing is replaced.
func (c *Collection[R]) Import(r io.Reader) (int, error) {
	return c.file.importLines(r, c.check)
}

// Recover restores the collection from an interrupted rewrite.
func (c *Collection[R]) Recover() (bool, error) {
	return c.file.Recover()
}

// markSynced stamps rows that track their sync time.
func markSynced(r Row) {
	if s, ok := r.(interface{ MarkSynced(time.Time) }); ok {
		s.MarkSynced(time.Now())
	}
}
