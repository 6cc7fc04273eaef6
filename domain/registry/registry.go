package registry

import (
	"strings"
	"unicode"
)

// Source identifies which backend a dataset is loaded from
type Source string

const (
	SourceSklearn     Source = "sklearn"     // bundled with sklearn, no download
	SourceTorchvision Source = "torchvision" // cached download, vision
	SourceHuggingFace Source = "huggingface" // cached download, text corpus
	SourceExcel       Source = "excel"       // tabular file, local or uploaded
)

// Metadata describes how one known dataset is sourced and loaded.
// Instances are built once at process start and shared read-only; a synthetic
// instance may be constructed ad hoc for an uploaded tabular dataset.
type Metadata struct {
	Source        Source   `json:"source"`
	LoadFunction  string   `json:"load_function"`
	HFPath        []string `json:"hf_path,omitempty"`
	TypicalSizeMB int      `json:"typical_size_mb"`
	License       string   `json:"license"`
}

// Registry maps normalized dataset names (and aliases) to source metadata.
// It is immutable after construction and injected into the generator factory,
// so tests can run against alternate tables.
type Registry struct {
	entries map[string]Metadata
	aliases map[string]string
}

// New builds a registry from canonical entries and an alias table.
// Keys on both maps are normalized before storage, so callers can use
// human-readable names.
func New(entries map[string]Metadata, aliases map[string]string) *Registry {
	r := &Registry{
		entries: make(map[string]Metadata, len(entries)),
		aliases: make(map[string]string, len(aliases)),
	}
	for name, meta := range entries {
		r.entries[Normalize(name)] = meta
	}
	for alias, canonical := range aliases {
		r.aliases[Normalize(alias)] = Normalize(canonical)
	}
	return r
}

// Normalize collapses a free-text dataset name to a canonical lookup key.
// Planner output is noisy: "AG News", "ag_news" and "AG's News" must all map
// to the same key. Lower-cases, drops possessive 's, then strips everything
// that is not a letter or digit. Idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "'s", "")
	key = strings.ReplaceAll(key, "’s", "")
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Lookup resolves a free-text dataset name to its metadata. A miss is a
// valid, expected outcome (planner output is untrusted): callers dispatch to
// the synthetic fallback generator rather than failing.
func (r *Registry) Lookup(name string) (Metadata, bool) {
	key := Normalize(name)
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	meta, ok := r.entries[key]
	return meta, ok
}

// Names returns the canonical normalized keys (for diagnostics)
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}

// Default returns the built-in dataset table.
func Default() *Registry {
	entries := map[string]Metadata{
		// sklearn built-ins: already on disk once sklearn is installed
		"digits":        {Source: SourceSklearn, LoadFunction: "load_digits", TypicalSizeMB: 1, License: "BSD-3-Clause"},
		"iris":          {Source: SourceSklearn, LoadFunction: "load_iris", TypicalSizeMB: 1, License: "BSD-3-Clause"},
		"wine":          {Source: SourceSklearn, LoadFunction: "load_wine", TypicalSizeMB: 1, License: "BSD-3-Clause"},
		"breast_cancer": {Source: SourceSklearn, LoadFunction: "load_breast_cancer", TypicalSizeMB: 1, License: "BSD-3-Clause"},

		// torchvision: downloaded on first use, cached afterwards
		"mnist":         {Source: SourceTorchvision, LoadFunction: "MNIST", TypicalSizeMB: 12, License: "CC BY-SA 3.0"},
		"fashion_mnist": {Source: SourceTorchvision, LoadFunction: "FashionMNIST", TypicalSizeMB: 30, License: "MIT"},
		"cifar10":       {Source: SourceTorchvision, LoadFunction: "CIFAR10", TypicalSizeMB: 170, License: "MIT"},

		// huggingface text corpora
		"sst2":    {Source: SourceHuggingFace, LoadFunction: "load_dataset", HFPath: []string{"glue", "sst2"}, TypicalSizeMB: 67, License: "other"},
		"imdb":    {Source: SourceHuggingFace, LoadFunction: "load_dataset", HFPath: []string{"imdb"}, TypicalSizeMB: 130, License: "other"},
		"ag_news": {Source: SourceHuggingFace, LoadFunction: "load_dataset", HFPath: []string{"ag_news"}, TypicalSizeMB: 20, License: "custom"},
		"trec":    {Source: SourceHuggingFace, LoadFunction: "load_dataset", HFPath: []string{"trec"}, TypicalSizeMB: 5, License: "custom"},

		// local tabular files
		"penalty_shootouts": {Source: SourceExcel, LoadFunction: "read_excel", TypicalSizeMB: 1, License: "user-provided"},
	}
	aliases := map[string]string{
		"sst-2":                        "sst2",
		"stanford sentiment treebank":  "sst2",
		"ag news corpus":               "ag_news",
		"fashion-mnist":                "fashion_mnist",
		"cifar-10":                     "cifar10",
		"wisconsin breast cancer":      "breast_cancer",
		"breast cancer wisconsin":      "breast_cancer",
		"imdb reviews":                 "imdb",
		"penalty shootout":             "penalty_shootouts",
	}
	return New(entries, aliases)
}
