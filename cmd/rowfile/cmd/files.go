package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (a *app) checksumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checksum <collection>",
		Short: "Print the digest of a collection file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(args[0])
			if err != nil {
				return err
			}
			sum, err := c.Checksum()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sum)
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <collection> <file.zst>",
		Short: "Write a collection to a Zstd-compressed file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(args[0])
			if err != nil {
				return err
			}
			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			n, err := c.Export(out)
			if cerr := out.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows\n", n)
			return nil
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <collection> <file.zst>",
		Short: "Replace a collection with the rows of an exported file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(args[0])
			if err != nil {
				return err
			}
			in, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer in.Close()
			n, err := c.Import(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows\n", n)
			return nil
		},
	}
}

func (a *app) recoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recover <collection>",
		Short: "Restore a collection left behind by an interrupted rewrite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(args[0])
			if err != nil {
				return err
			}
			restored, err := c.Recover()
			if err != nil {
				return err
			}
			if restored {
				fmt.Fprintln(cmd.OutOrStdout(), "restored")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to recover")
			}
			return nil
		},
	}
}
