// Regex search over encoded rows.
//
// The pattern is matched against each stored line as written, before
// decoding, so only matching lines pay for a decode. Because lines are
// JSON, a pattern can target a field by including its key, e.g.
// `"status":"open"`.
package rowfile

import (
	"fmt"
	"regexp"
)

// SearchOptions configures search behaviour.
type SearchOptions struct {
	CaseSensitive bool
	Limit         int // 0 means no limit
}

// Search returns rows whose stored line matches pattern, in file order.
func (c *Collection[R]) Search(pattern string, opts SearchOptions) ([]R, error) {
	if !opts.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	var rows []R
	n := 0
	_, err = c.file.Lines(func(line string) error {
		n++
		if line == "" || !re.MatchString(line) {
			return nil
		}
		row, _, err := c.decode(n, line)
		if err != nil {
			return err
		}
		rows = append(rows, row)
		if opts.Limit > 0 && len(rows) >= opts.Limit {
			return ErrStop
		}
		return nil
	})
	if err != nil {
		return rows, fmt.Errorf("search: %w", err)
	}
	return rows, nil
}
