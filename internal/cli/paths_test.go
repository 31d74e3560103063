package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name     string
		dir      string
		base     string
		wantDir  string
		wantBase string
	}{
		{"neither", "", "", ".", "fab5x5"},
		{"dir and name", "out", "chip", "out", "chip"},
		{"dir only", "build/fabric_a", "", "build/fabric_a", "fabric_a"},
		{"dir only trailing slash", "build/fabric_a/", "", "build/fabric_a/", "fabric_a"},
		{"dir only dot", ".", "", ".", "fab5x5"},
		{"name only", "", "chip", "chip", "chip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, base := outputPaths(tt.dir, tt.base, "fab5x5")
			if dir != tt.wantDir || base != tt.wantBase {
				t.Errorf("outputPaths(%q, %q) = (%q, %q), want (%q, %q)",
					tt.dir, tt.base, dir, base, tt.wantDir, tt.wantBase)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	artifacts := map[string][]byte{
		"a.def": []byte("DEF"),
		"a.lef": []byte("LEF"),
	}

	paths, err := writeArtifacts(dir, []string{"a.def", "a.lef"}, artifacts)
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("len(paths) = %d, want 2", len(paths))
	}
	for i, name := range []string{"a.def", "a.lef"} {
		if paths[i] != filepath.Join(dir, name) {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], filepath.Join(dir, name))
		}
		data, err := os.ReadFile(paths[i])
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(data) != string(artifacts[name]) {
			t.Errorf("%s = %q, want %q", name, data, artifacts[name])
		}
	}
}

func TestWriteArtifactsUnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := writeArtifacts(filepath.Join(file, "out"), []string{"a.def"}, map[string][]byte{"a.def": nil}); err == nil {
		t.Error("writeArtifacts() below a regular file should fail")
	}
}
