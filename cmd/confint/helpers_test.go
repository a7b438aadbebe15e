package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var truthLabels = []string{"1", "0", "1", "0", "1", "0", "1", "0", "1", "0"}

// flip returns truthLabels with the first n labels inverted.
func flip(n int) []string {
	out := append([]string(nil), truthLabels...)
	for i := 0; i < n; i++ {
		if out[i] == "1" {
			out[i] = "0"
		} else {
			out[i] = "1"
		}
	}
	return out
}

func writeColumn(t *testing.T, dir, name, column string, values []string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	content := column + "\n" + strings.Join(values, "\n") + "\n"
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// fixture writes truth.csv plus perfect.csv (10/10), seed1.csv (8/10) and
// seed2.csv (6/10) into a temp dir.
func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeColumn(t, dir, "truth.csv", "label", truthLabels)
	writeColumn(t, dir, "perfect.csv", "prediction", truthLabels)
	writeColumn(t, dir, "seed1.csv", "prediction", flip(2))
	writeColumn(t, dir, "seed2.csv", "prediction", flip(4))
	return dir
}
