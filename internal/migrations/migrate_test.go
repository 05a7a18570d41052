package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestLatestVersion(t *testing.T) {
	if got := LatestVersion(); got != 3 {
		t.Errorf("LatestVersion() = %d, want 3", got)
	}
}

func TestEveryUpHasDown(t *testing.T) {
	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}
	for name := range names {
		if strings.HasSuffix(name, ".up.sql") {
			down := strings.TrimSuffix(name, ".up.sql") + ".down.sql"
			if !names[down] {
				t.Errorf("%s has no %s", name, down)
			}
		}
	}
}
