// Insert, NextID and Save.
//
// Ids are max(id)+1 over the whole file, computed by a full scan on every
// insert. Deleted ids are therefore never reused unless they were the
// highest, and gaps are expected.
package rowfile

import (
	"bytes"
	"errors"
	"fmt"
)

// NextID returns one more than the highest id in the collection, or 1 if
// it has none.
func (c *Collection[R]) NextID() (int64, error) {
	var highest int64
	if _, err := c.Select(func(r R) error {
		if id, ok := idOf(r); ok && id > highest {
			highest = id
		}
		return nil
	}); err != nil {
		return 0, fmt.Errorf("next id: %w", err)
	}
	return highest + 1, nil
}

// Insert assigns row a fresh id, appends it, and returns the id. Any id
// the row already carried is overwritten.
func (c *Collection[R]) Insert(row R) (int64, error) {
	id, err := c.NextID()
	if err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	row.Set(IDField, id)

	data, err := row.Encode()
	if err != nil {
		return 0, fmt.Errorf("insert: encode: %w", err)
	}
	if bytes.IndexByte(data, '\n') >= 0 {
		return 0, fmt.Errorf("insert: %w", ErrMultiline)
	}

	// A hand-edited file may lack a final newline; don't glue onto it.
	ok, err := c.file.terminated()
	if err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	text := string(data) + "\n"
	if !ok {
		text = "\n" + text
	}
	if err := c.file.Append(text); err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	c.log.Debug("insert", "id", id)
	return id, nil
}

// Save persists row. A row with an id replaces the stored row with the
// same id (ErrNotFound if there is none); a row without one is inserted
// and receives its new id. An id that is set but unusable reports
// ErrInvalidID and writes nothing.
func (c *Collection[R]) Save(row R) error {
	id, err := rowID(row)
	if errors.Is(err, ErrNoID) {
		if _, err := c.Insert(row); err != nil {
			return fmt.Errorf("save: %w", err)
		}
		markSynced(row)
		return nil
	}
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	matched := false
	if _, err := c.Update(func(r R) (Change, error) {
		if rid, ok := idOf(r); ok && rid == id {
			matched = true
			return Replace(row), nil
		}
		return Keep(), nil
	}); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if !matched {
		return fmt.Errorf("save: id %d: %w", id, ErrNotFound)
	}
	markSynced(row)
	return nil
}
