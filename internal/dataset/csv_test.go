package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name     string
		csv      string
		wantRows int
		wantCols int
		wantErr  string
	}{
		{
			name:     "happy path 3 rows 3 columns",
			csv:      "id,label,pred\n1,cat,cat\n2,dog,cat\n3,bird,bird\n",
			wantRows: 3,
			wantCols: 3,
		},
		{
			name:     "single row",
			csv:      "label,pred\n1,0\n",
			wantRows: 1,
			wantCols: 2,
		},
		{
			name:     "empty CSV headers only",
			csv:      "label,pred\n",
			wantRows: 0,
			wantCols: 0,
		},
		{
			name:    "mismatched column count",
			csv:     "label,pred\n1,0,extra\n",
			wantErr: "csv: parse",
		},
		{
			name:    "completely empty",
			csv:     "",
			wantErr: "no header row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ReadCSV(strings.NewReader(tt.csv), "test.csv")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, rows, tt.wantRows)
			if tt.wantRows > 0 {
				assert.Len(t, rows[0], tt.wantCols)
			}
		})
	}
}

func TestReadCSV_TrimsValues(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("label, pred\n1 , 0\n"), "test.csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["label"])
	assert.Equal(t, "0", rows[0]["pred"])
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := NewLoader().LoadCSV(context.Background(), "/nonexistent/path/data.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv: open")
}

func TestColumn(t *testing.T) {
	rows := []Row{{"label": "1", "pred": "0"}, {"label": "0", "pred": "0"}}

	got, err := Column(rows, "label")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "0"}, got)

	_, err = Column(rows, "score")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "score" not found`)
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		in   string
		want Ref
	}{
		{"test.csv", Ref{Location: "test.csv", Column: "label"}},
		{"test.csv:gold", Ref{Location: "test.csv", Column: "gold"}},
		{"runs/seed1.csv.gz:pred", Ref{Location: "runs/seed1.csv.gz", Column: "pred"}},
		{"az://acct/data/test.csv", Ref{Location: "az://acct/data/test.csv", Column: "label"}},
		{"az://acct/data/test.csv:y", Ref{Location: "az://acct/data/test.csv", Column: "y"}},
		{`C:\data\test.csv`, Ref{Location: `C:\data\test.csv`, Column: "label"}},
		{"trailing.csv:", Ref{Location: "trailing.csv:", Column: "label"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRef(tt.in, "label"))
		})
	}
}

func TestLoadColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "data.csv", "label,pred\n1,1\n0,1\n1,0\n")
	l := NewLoader()

	got, err := l.LoadColumn(context.Background(), Ref{Location: path, Column: "pred"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "1", "0"}, got)

	_, err = l.LoadColumn(context.Background(), Ref{Location: path, Column: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)

	empty := writeCSV(t, dir, "empty.csv", "label\n")
	_, err = l.LoadColumn(context.Background(), Ref{Location: empty, Column: "label"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestLoadColumns_PreservesOrder(t *testing.T) {
	dir := t.TempDir()
	var refs []Ref
	for i, content := range []string{"p\na\n", "p\nb\n", "p\nc\n", "p\nd\n"} {
		p := writeCSV(t, dir, string(rune('0'+i))+".csv", content)
		refs = append(refs, Ref{Location: p, Column: "p"})
	}

	got, err := NewLoader().LoadColumns(context.Background(), refs)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}, {"d"}}, got)
}

func TestLoadColumns_FailsOnAnyError(t *testing.T) {
	dir := t.TempDir()
	good := writeCSV(t, dir, "good.csv", "p\na\n")

	_, err := NewLoader().LoadColumns(context.Background(), []Ref{
		{Location: good, Column: "p"},
		{Location: filepath.Join(dir, "missing.csv"), Column: "p"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.csv")
}
