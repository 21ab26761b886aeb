// Package cmd holds the rowfile command tree.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jpl-au/rowfile"
)

// app carries state shared by subcommands once the root has run.
type app struct {
	settings   settings
	configPath string
	db         *rowfile.DB
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{settings: defaultSettings()}

	root := &cobra.Command{
		Use:   "rowfile",
		Short: "Inspect and edit line-delimited JSON collections",
		Long: `rowfile works on a directory of collections, one file per collection,
one JSON object per line. Every row carries an integer id assigned on insert.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file")
	flags.StringVar(&a.settings.Dir, "dir", a.settings.Dir, "Data directory")
	flags.StringVar(&a.settings.Extension, "ext", a.settings.Extension, "Collection file extension")
	flags.IntVar(&a.settings.ChunkSize, "chunk-size", a.settings.ChunkSize, "Read window size in bytes")
	flags.IntVar(&a.settings.Hash, "hash", a.settings.Hash, "Checksum algorithm (1=xxHash3, 2=FNV1a, 3=Blake2b)")
	flags.BoolVar(&a.settings.Sync, "sync", a.settings.Sync, "fsync after every write")
	flags.StringVar(&a.settings.LogLevel, "log-level", a.settings.LogLevel, "Log level (debug, info, warn, error)")

	root.AddCommand(
		a.selectCmd(),
		a.insertCmd(),
		a.getCmd(),
		a.saveCmd(),
		a.deleteCmd(),
		a.nextIDCmd(),
		a.searchCmd(),
		a.checksumCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.recoverCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// open resolves settings and opens the database. Values from the config
// file apply only where the matching flag was not given.
func (a *app) open(cmd *cobra.Command) error {
	if a.configPath != "" {
		fromFile := defaultSettings()
		if err := loadSettings(a.configPath, &fromFile); err != nil {
			return err
		}
		flags := cmd.Flags()
		if !flags.Changed("dir") {
			a.settings.Dir = fromFile.Dir
		}
		if !flags.Changed("ext") {
			a.settings.Extension = fromFile.Extension
		}
		if !flags.Changed("chunk-size") {
			a.settings.ChunkSize = fromFile.ChunkSize
		}
		if !flags.Changed("hash") {
			a.settings.Hash = fromFile.Hash
		}
		if !flags.Changed("sync") {
			a.settings.Sync = fromFile.Sync
		}
		if !flags.Changed("log-level") {
			a.settings.LogLevel = fromFile.LogLevel
		}
	}

	level, err := parseLevel(a.settings.LogLevel)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, level)

	db, err := rowfile.Open(a.settings.Dir, a.settings.config(logger))
	if err != nil {
		return err
	}
	a.db = db
	logger.Debug("opened", "dir", db.Dir())
	return nil
}
