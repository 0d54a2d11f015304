package csvspan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readAll(t *testing.T, r *Reader) [][]string {
	t.Helper()
	var rows [][]string
	for {
		ok, err := r.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if !ok {
			break
		}
		row := r.Row()
		cells := make([]string, row.Len())
		for i := 0; i < row.Len(); i++ {
			cells[i] = row.Cell(i).String()
		}
		rows = append(rows, cells)
	}
	return rows
}

func assertRows(t *testing.T, got, want [][]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d rows %v, want %d rows %v", len(got), got, len(want), want)
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("row %d: got %v, want %v", i, got[i], want[i])
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("row %d cell %d: got %q, want %q", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestNewReader_BasicRows(t *testing.T) {
	r, err := NewReader(strings.NewReader("a,b,c\n1,2,3\n"), DefaultConfig())
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	defer r.Close()

	got := readAll(t, r)
	assertRows(t, got, [][]string{{"a", "b", "c"}, {"1", "2", "3"}})
}

func TestNewReader_CustomDelimiter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Delimiter = '\t'
	r, err := NewReader(strings.NewReader("a\tb\tc\n"), cfg)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	defer r.Close()

	got := readAll(t, r)
	assertRows(t, got, [][]string{{"a", "b", "c"}})
}

func TestOpen_File(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.csv")
	content := "x,y,z\n1,2,3\n"
	if err := os.WriteFile(testFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	r, err := Open(testFile, DefaultConfig())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	got := readAll(t, r)
	assertRows(t, got, [][]string{{"x", "y", "z"}, {"1", "2", "3"}})
}

func TestOpen_NonexistentFile(t *testing.T) {
	_, err := Open("/nonexistent/file.csv", DefaultConfig())
	if err == nil {
		t.Fatal("Open() should return error for nonexistent file")
	}
	var oe *OpenError
	if oe, _ = err.(*OpenError); oe == nil {
		t.Errorf("Open() error = %v, want *OpenError", err)
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Quotechar = cfg.Delimiter
	_, err := Open("irrelevant.csv", cfg)
	var ce *ConfigError
	if ce, _ = err.(*ConfigError); ce == nil {
		t.Fatalf("Open() error = %v, want *ConfigError", err)
	}
}

func TestNewReader_InvalidConfig(t *testing.T) {
	cfg := Config{Delimiter: '\n'}
	_, err := NewReader(strings.NewReader(""), cfg)
	var ce *ConfigError
	if ce, _ = err.(*ConfigError); ce == nil {
		t.Fatalf("NewReader() error = %v, want *ConfigError", err)
	}
}

func TestReader_QuotedFieldsRoundTrip(t *testing.T) {
	r, err := NewReader(strings.NewReader(`"he said ""hi""",x`+"\n"), DefaultConfig())
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	defer r.Close()

	got := readAll(t, r)
	assertRows(t, got, [][]string{{`he said "hi"`, "x"}})
}

func TestReader_LargeInputAcrossFills(t *testing.T) {
	var sb strings.Builder
	const rows = 5000
	for i := 0; i < rows; i++ {
		sb.WriteString("field-one,field-two,field-three\n")
	}

	r, err := NewReader(strings.NewReader(sb.String()), DefaultConfig())
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	defer r.Close()

	count := 0
	for {
		ok, err := r.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if !ok {
			break
		}
		if r.Row().Len() != 3 {
			t.Fatalf("row %d: Len() = %d, want 3", count, r.Row().Len())
		}
		count++
	}
	if count != rows {
		t.Fatalf("parsed %d rows, want %d", count, rows)
	}
}
