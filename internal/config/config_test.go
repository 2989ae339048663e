package config

import (
	"os"
	"testing"

	"github.com/nilsbok/alise/internal/search/matcher"
)

type fakeFS map[string][]byte

func (f fakeFS) ReadFile(path string) ([]byte, error) {
	data, ok := f[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(fakeFS{}, "missing.toml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("cfg = %+v, want Defaults()", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	fs := fakeFS{
		"alise.toml": []byte(`
tab_width = 8
undo_limit = 50

[search]
case_mode = "sensitive"
word_boundary = true
`),
	}
	cfg, err := Load(fs, "alise.toml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TabWidth != 8 || cfg.UndoLimit != 50 {
		t.Fatalf("cfg = %+v, want TabWidth=8 UndoLimit=50", cfg)
	}
	if cfg.GapInitialSize != Defaults().GapInitialSize {
		t.Fatalf("GapInitialSize = %d, want default %d preserved", cfg.GapInitialSize, Defaults().GapInitialSize)
	}
	opts := cfg.Search.Options()
	if opts.Case != matcher.CaseSensitive || !opts.WordBoundary {
		t.Fatalf("Search.Options() = %+v, want CaseSensitive+WordBoundary", opts)
	}
}

func TestSearchConfigDefaultsToSmartCase(t *testing.T) {
	opts := SearchConfig{}.Options()
	if opts.Case != matcher.CaseSmart {
		t.Fatalf("Options().Case = %v, want CaseSmart", opts.Case)
	}
}
