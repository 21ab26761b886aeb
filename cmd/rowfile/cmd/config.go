package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/jpl-au/rowfile"
)

// settings is the union of the YAML config file and command-line flags.
// Flags that were set explicitly win over the file.
type settings struct {
	Dir       string `yaml:"dir"`
	Extension string `yaml:"extension"`
	ChunkSize int    `yaml:"chunk_size"`
	Hash      int    `yaml:"hash"`
	Sync      bool   `yaml:"sync"`
	LogLevel  string `yaml:"log_level"`
}

func defaultSettings() settings {
	return settings{
		Dir:       "./data",
		Extension: rowfile.DefaultExtension,
		ChunkSize: rowfile.DefaultChunkSize,
		Hash:      rowfile.AlgXXHash3,
		LogLevel:  "info",
	}
}

// loadSettings overlays the YAML file at path onto s. Keys missing from
// the file leave s unchanged.
func loadSettings(path string, s *settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// newLogger writes coloured output to w when it is a terminal.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
		w = colorable.NewColorable(f)
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
	}))
}

func (s settings) config(logger *slog.Logger) rowfile.Config {
	return rowfile.Config{
		ChunkSize:     s.ChunkSize,
		Extension:     s.Extension,
		HashAlgorithm: s.Hash,
		SyncWrites:    s.Sync,
		Logger:        logger,
	}
}
