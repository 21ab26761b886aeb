// Row removal.
package rowfile

import "fmt"

// Delete removes the row with id. Returns ErrNotFound if there is none.
// Remaining rows keep their relative order.
func (c *Collection[R]) Delete(id int64) error {
	removed := false
	if _, err := c.Update(func(r R) (Change, error) {
		if rid, ok := idOf(r); ok && rid == id {
			removed = true
			return Drop(), nil
		}
		return Keep(), nil
	}); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if !removed {
		return fmt.Errorf("delete: id %d: %w", id, ErrNotFound)
	}
	return nil
}
