package app

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DumpJSON renders a debug snapshot of Core's state as JSON, built up
// path by path with sjson rather than marshaled from a single struct:
// the active buffer id, the mode, and each buffer's id, name, modified
// flag and undo/redo depths. The ViewModel's text, cursor, minibuffer
// and search fields are not included.
func (c *Core) DumpJSON() (string, error) {
	doc := "{}"
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.Set(doc, path, value)
	}

	set("activeBuffer", c.activeID)
	set("mode", int(c.mode))

	for _, id := range c.order {
		bs := c.buffers[id]
		doc, err = sjson.Set(doc, "buffers.-1", map[string]any{
			"id":       bs.id,
			"name":     bs.name,
			"modified": bs.hist.UndoCount() > 0,
			"undos":    bs.hist.UndoCount(),
			"redos":    bs.hist.RedoCount(),
		})
	}
	if err != nil {
		return "", err
	}
	return doc, nil
}

// ApplyJSONOverride merges recognized keys from fragment into the
// running config, used by a debug/admin surface to tweak tunables
// without restarting, per spec.md §4.11's config model. Unrecognized
// keys are ignored rather than rejected, since fragment may carry
// fields meant for other tooling sharing the same document.
func (c *Core) ApplyJSONOverride(fragment string) {
	if v := gjson.Get(fragment, "tab_width"); v.Exists() {
		c.cfg.TabWidth = int(v.Int())
	}
	if v := gjson.Get(fragment, "undo_limit"); v.Exists() {
		c.cfg.UndoLimit = int(v.Int())
	}
	if v := gjson.Get(fragment, "gap_initial_size"); v.Exists() {
		c.cfg.GapInitialSize = int(v.Int())
	}
	if v := gjson.Get(fragment, "gap_grow_cap"); v.Exists() {
		c.cfg.GapGrowCap = int(v.Int())
	}
	if v := gjson.Get(fragment, "search.case_mode"); v.Exists() {
		c.cfg.Search.CaseMode = v.String()
	}
	if v := gjson.Get(fragment, "search.word_boundary"); v.Exists() {
		c.cfg.Search.WordBoundary = v.Bool()
	}
}
