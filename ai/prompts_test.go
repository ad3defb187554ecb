package ai

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderPromptEmbeddedDefault(t *testing.T) {
	pm := NewPromptManager("")

	got, err := pm.RenderPrompt(PromptDatasetSummary, map[string]string{"COLUMNS": "Negara, Nilai_Ekspor"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(got, "Analisis dataset dengan kolom: Negara, Nilai_Ekspor.") {
		t.Fatalf("unexpected prompt: %q", got)
	}
}

func TestRenderPromptDoesNotExpandPlaceholdersInValues(t *testing.T) {
	pm := NewPromptManager("")

	got, err := pm.RenderPrompt(PromptDatasetSummary, map[string]string{"COLUMNS": "{COLUMNS}"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(got, "kolom: {COLUMNS}.") {
		t.Fatalf("value was re-expanded: %q", got)
	}
}

func TestLoadPromptDirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, PromptSearchSystem+".txt"), []byte("custom search\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	pm := NewPromptManager(dir)

	got, err := pm.LoadPrompt(PromptSearchSystem)
	if err != nil || got != "custom search" {
		t.Fatalf("override not used: %q, %v", got, err)
	}

	// templates missing from the directory fall back to the embedded set
	got, err = pm.LoadPrompt(PromptAnalystSystem)
	if err != nil || !strings.Contains(got, "analis data") {
		t.Fatalf("fallback failed: %q, %v", got, err)
	}
}

func TestLoadPromptUnknown(t *testing.T) {
	if _, err := NewPromptManager("").LoadPrompt("nope"); err == nil {
		t.Fatal("expected error for unknown prompt")
	}
}
