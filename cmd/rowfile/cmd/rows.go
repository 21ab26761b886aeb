package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jpl-au/rowfile"
)

func (a *app) collection(name string) (*rowfile.Collection[*rowfile.Document], error) {
	return a.db.Collection(name)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// parseDocument decodes a JSON object given on the command line.
func parseDocument(s string) (*rowfile.Document, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	if m == nil {
		return nil, errors.New("invalid document: not an object")
	}
	return rowfile.NewDocumentFrom(m), nil
}

func printRow(w io.Writer, r rowfile.Row) error {
	data, err := r.Encode()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func (a *app) selectCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "select <collection>",
		Short: "Print every row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(args[0])
			if err != nil {
				return err
			}
			printed := 0
			for row, err := range c.All() {
				if err != nil {
					return err
				}
				if err := printRow(cmd.OutOrStdout(), row); err != nil {
					return err
				}
				printed++
				if limit > 0 && printed >= limit {
					break
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many rows")
	return cmd
}

func (a *app) insertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insert <collection> <json>",
		Short: "Append a row and print its new id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(args[0])
			if err != nil {
				return err
			}
			doc, err := parseDocument(args[1])
			if err != nil {
				return err
			}
			id, err := c.Insert(doc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Print one row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			doc, err := c.Get(id)
			if err != nil {
				return err
			}
			return printRow(cmd.OutOrStdout(), doc)
		},
	}
}

func (a *app) saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <collection> <json>",
		Short: "Replace the row with the document's id, or insert it if it has none",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(args[0])
			if err != nil {
				return err
			}
			doc, err := parseDocument(args[1])
			if err != nil {
				return err
			}
			if err := c.Save(doc); err != nil {
				return err
			}
			return printRow(cmd.OutOrStdout(), doc)
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Remove one row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			return c.Delete(id)
		},
	}
}

func (a *app) nextIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next-id <collection>",
		Short: "Print the id the next insert would receive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(args[0])
			if err != nil {
				return err
			}
			id, err := c.NextID()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func (a *app) searchCmd() *cobra.Command {
	var opts rowfile.SearchOptions
	cmd := &cobra.Command{
		Use:   "search <collection> <pattern>",
		Short: "Print rows whose stored line matches a regular expression",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(args[0])
			if err != nil {
				return err
			}
			rows, err := c.Search(args[1], opts)
			if err != nil {
				return err
			}
			for _, row := range rows {
				if err := printRow(cmd.OutOrStdout(), row); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.CaseSensitive, "case-sensitive", false, "Match case exactly")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Stop after this many matches")
	return cmd
}
