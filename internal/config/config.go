package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/nilsbok/alise/internal/search/matcher"
)

// CoreConfig holds every tunable the CORE reads at startup. Field
// names match their TOML keys under snake_case sections.
type CoreConfig struct {
	TabWidth       int          `toml:"tab_width"`
	UndoLimit      int          `toml:"undo_limit"`
	GapInitialSize int          `toml:"gap_initial_size"`
	GapGrowCap     int          `toml:"gap_grow_cap"`
	Search         SearchConfig `toml:"search"`
}

// SearchConfig mirrors matcher.Options for TOML decoding; matcher.Options
// itself carries no struct tags, since internal/search/matcher has no
// reason to depend on a serialization format.
type SearchConfig struct {
	CaseMode     string `toml:"case_mode"`
	WordBoundary bool   `toml:"word_boundary"`
}

// Options converts the decoded SearchConfig into matcher.Options.
func (s SearchConfig) Options() matcher.Options {
	opts := matcher.Options{WordBoundary: s.WordBoundary}
	switch s.CaseMode {
	case "sensitive":
		opts.Case = matcher.CaseSensitive
	case "insensitive":
		opts.Case = matcher.CaseInsensitive
	default:
		opts.Case = matcher.CaseSmart
	}
	return opts
}

// Defaults returns the compiled-in configuration, per spec.md §4.1 and
// §3[EXPANSION]'s documented defaults.
func Defaults() CoreConfig {
	return CoreConfig{
		TabWidth:       4,
		UndoLimit:      1000,
		GapInitialSize: 4 * 1024,
		GapGrowCap:     64 * 1024,
		Search:         SearchConfig{CaseMode: "smart"},
	}
}

// FileSystem abstracts file access so tests can load from an
// in-memory source, grounded on the teacher's
// internal/config/loader.FileSystem seam.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS reads from the real filesystem.
type OSFS struct{}

func (OSFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// DefaultFS returns the OS-backed FileSystem.
func DefaultFS() FileSystem { return OSFS{} }

// Load reads path via fs and merges it over Defaults(). A missing file
// is not an error: Load returns the defaults unchanged, mirroring the
// teacher's TOMLLoader.LoadFrom "file doesn't exist" behavior.
func Load(fs FileSystem, path string) (CoreConfig, error) {
	cfg := Defaults()
	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return CoreConfig{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return CoreConfig{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFrom loads from the OS filesystem at path.
func LoadFrom(path string) (CoreConfig, error) {
	return Load(DefaultFS(), path)
}
