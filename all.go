// Range-over-func access to a collection.
//
// All and IDs wrap Select so callers can use a plain for-range loop and
// break out early; breaking stops the underlying file read.
package rowfile

import "iter"

// All yields every row in file order.
func (c *Collection[R]) All() iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		_, err := c.Select(func(r R) error {
			if !yield(r, nil) {
				return ErrStop
			}
			return nil
		})
		if err != nil {
			var zero R
			yield(zero, err)
		}
	}
}

// IDs yields the id of every row that has one, in file order.
func (c *Collection[R]) IDs() iter.Seq2[int64, error] {
	return func(yield func(int64, error) bool) {
		_, err := c.Select(func(r R) error {
			id, ok := idOf(r)
			if !ok {
				return nil
			}
			if !yield(id, nil) {
				return ErrStop
			}
			return nil
		})
		if err != nil {
			yield(0, err)
		}
	}
}
