// Row lookup by id.
package rowfile

import (
	"errors"
	"fmt"
)

// Load fills row with the stored row whose id matches row's id. The scan
// stops at the first match. Returns ErrNoID if row carries no id,
// ErrInvalidID if the id is not a positive integer and ErrNotFound if
// nothing matches.
func (c *Collection[R]) Load(row R) error {
	id, err := rowID(row)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	found := false
	n := 0
	_, err = c.file.Lines(func(line string) error {
		n++
		r, ok, err := c.decode(n, line)
		if err != nil || !ok {
			return err
		}
		if rid, ok := idOf(r); !ok || rid != id {
			return nil
		}
		if err := row.Decode([]byte(line)); err != nil {
			return fmt.Errorf("%w: %s line %d: %w", ErrCorruptRow, c.name, n, err)
		}
		found = true
		return ErrStop
	})
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if !found {
		return fmt.Errorf("load: id %d: %w", id, ErrNotFound)
	}
	markSynced(row)
	return nil
}

// Get returns a new row loaded by id.
func (c *Collection[R]) Get(id int64) (R, error) {
	row := c.newRow()
	row.Set(IDField, id)
	if err := c.Load(row); err != nil {
		var zero R
		return zero, err
	}
	return row, nil
}

// Exists reports whether a row with id is stored.
func (c *Collection[R]) Exists(id int64) (bool, error) {
	_, err := c.Get(id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
