// Package config is the Config Loader (C12): CoreConfig holds the
// CORE's own tunables (tab width, undo cap, search defaults, gap grow
// parameters), with compiled-in Defaults() overridden by an optional
// TOML file read through a FileSystem seam.
//
// Grounded on the teacher's internal/config/loader package: the
// FileSystem interface and its OSFS/DefaultFS split are carried over
// directly so tests can load from an in-memory filesystem, and
// LoadFrom's "missing file is not an error, return defaults" behavior
// mirrors TOMLLoader.LoadFrom's os.IsNotExist handling. Unlike the
// teacher's loader, which returns a raw map[string]any for an
// independent layering/registry system (project/plugin/keymap layers,
// none of which this core needs), this package unmarshals directly
// into the typed CoreConfig struct go-toml/v2 supports natively.
package config
