package compression

import (
	"bytes"
	"testing"
)

func TestArchiveRoundTrip(t *testing.T) {
	files := map[string][]byte{
		"theme.json": []byte(`{"name":"forest"}`),
		"notes.txt":  []byte("generated from #673ab7"),
	}

	var buf bytes.Buffer
	if err := WriteArchive(&buf, files); err != nil {
		t.Fatalf("WriteArchive() error = %v", err)
	}

	got, err := ReadArchive(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadArchive() error = %v", err)
	}

	if len(got) != len(files) {
		t.Fatalf("ReadArchive() returned %d files, want %d", len(got), len(files))
	}
	for name, want := range files {
		if !bytes.Equal(got[name], want) {
			t.Errorf("ReadArchive()[%q] = %q, want %q", name, got[name], want)
		}
	}
}

func TestWriteArchiveOrderedNames(t *testing.T) {
	files := map[string][]byte{
		"a": []byte("first"),
		"b": []byte("second"),
	}

	var buf bytes.Buffer
	// Names not present in the map are skipped.
	if err := WriteArchive(&buf, files, "b", "a", "missing"); err != nil {
		t.Fatalf("WriteArchive() error = %v", err)
	}

	got, err := ReadArchive(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadArchive() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReadArchive() returned %d files, want 2", len(got))
	}
}

func TestReadArchiveRejectsGarbage(t *testing.T) {
	if _, err := ReadArchive(bytes.NewReader([]byte("not an archive"))); err == nil {
		t.Fatal("ReadArchive() accepted garbage input")
	}
}
