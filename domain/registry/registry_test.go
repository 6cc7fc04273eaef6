package registry

import (
	"testing"
)

// TestNormalizeIdempotence tests that normalizing twice equals normalizing once
func TestNormalizeIdempotence(t *testing.T) {
	inputs := []string{
		"AG News",
		"agnews",
		"ag_news",
		"AG's News",
		"SST-2",
		"  Fashion-MNIST  ",
		"Penalty Shootouts",
		"totally_unknown_xyz",
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

// TestNormalizeConvergence tests that noisy planner spellings collapse to one key
func TestNormalizeConvergence(t *testing.T) {
	variants := []string{"AG News", "agnews", "ag_news", "AG's News"}
	expected := Normalize(variants[0])
	for _, variant := range variants {
		if got := Normalize(variant); got != expected {
			t.Errorf("Normalize(%q) = %q, want %q", variant, got, expected)
		}
	}
}

// TestLookupAliases tests that all spellings resolve to the same registry entry
func TestLookupAliases(t *testing.T) {
	reg := Default()

	variants := []string{"AG News", "agnews", "ag_news", "AG's News"}
	for _, variant := range variants {
		meta, found := reg.Lookup(variant)
		if !found {
			t.Fatalf("Lookup(%q) missed, want hit", variant)
		}
		if meta.Source != SourceHuggingFace {
			t.Errorf("Lookup(%q) source = %s, want %s", variant, meta.Source, SourceHuggingFace)
		}
	}
}

// TestLookupTable tests representative entries across all sources
func TestLookupTable(t *testing.T) {
	reg := Default()

	tests := []struct {
		name         string
		wantSource   Source
		wantLoadFunc string
	}{
		{"iris", SourceSklearn, "load_iris"},
		{"Breast Cancer Wisconsin", SourceSklearn, "load_breast_cancer"},
		{"MNIST", SourceTorchvision, "MNIST"},
		{"Fashion-MNIST", SourceTorchvision, "FashionMNIST"},
		{"CIFAR-10", SourceTorchvision, "CIFAR10"},
		{"SST-2", SourceHuggingFace, "load_dataset"},
		{"IMDB", SourceHuggingFace, "load_dataset"},
		{"penalty_shootouts", SourceExcel, "read_excel"},
	}

	for _, test := range tests {
		meta, found := reg.Lookup(test.name)
		if !found {
			t.Errorf("Lookup(%q) missed, want hit", test.name)
			continue
		}
		if meta.Source != test.wantSource {
			t.Errorf("Lookup(%q) source = %s, want %s", test.name, meta.Source, test.wantSource)
		}
		if meta.LoadFunction != test.wantLoadFunc {
			t.Errorf("Lookup(%q) load function = %s, want %s", test.name, meta.LoadFunction, test.wantLoadFunc)
		}
	}
}

// TestLookupMissIsNotAnError tests that unknown names report not-found cleanly
func TestLookupMissIsNotAnError(t *testing.T) {
	reg := Default()
	if _, found := reg.Lookup("totally_unknown_xyz"); found {
		t.Error("Lookup of unknown dataset should miss")
	}
	if _, found := reg.Lookup(""); found {
		t.Error("Lookup of empty name should miss")
	}
}

// TestInjectedRegistry tests that an alternate table works in isolation
func TestInjectedRegistry(t *testing.T) {
	reg := New(
		map[string]Metadata{
			"My Custom Set": {Source: SourceSklearn, LoadFunction: "load_custom"},
		},
		map[string]string{"custom": "My Custom Set"},
	)

	meta, found := reg.Lookup("my_custom_set")
	if !found {
		t.Fatal("expected normalized entry lookup to hit")
	}
	if meta.LoadFunction != "load_custom" {
		t.Errorf("load function = %s, want load_custom", meta.LoadFunction)
	}

	if _, found := reg.Lookup("Custom"); !found {
		t.Error("expected alias lookup to hit")
	}
	if _, found := reg.Lookup("iris"); found {
		t.Error("injected registry must not contain default entries")
	}
}
