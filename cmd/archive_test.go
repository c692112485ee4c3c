package cmd

import (
	"archive/zip"
	"bytes"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// writeTestZip creates a zip archive with the given entries. A name ending
// in "/" becomes an explicit directory entry.
func writeTestZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range entries {
		if name[len(name)-1] == '/' {
			if _, err := zw.Create(name); err != nil {
				t.Fatal(err)
			}
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func readZipEntries(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	entries := map[string]string{}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		entries[f.Name] = string(body)
	}
	return entries
}

func TestListArchiveSortedWithoutDirs(t *testing.T) {
	cbz := filepath.Join(t.TempDir(), "book.cbz")
	writeTestZip(t, cbz, map[string]string{
		"z-003.jpg":       "z",
		"a-001.jpg":       "a",
		"scans/":          "",
		"scans/m-002.jpg": "m",
	})

	names, err := listArchive(cbz)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a-001.jpg", "scans/m-002.jpg", "z-003.jpg"}
	if !slices.Equal(names, want) {
		t.Errorf("listArchive = %v, want %v", names, want)
	}
}

func TestListArchiveBadContainer(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.cbz")
	if err := os.WriteFile(bad, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := listArchive(bad); err == nil {
		t.Error("listArchive accepted a corrupt container")
	}
}

func TestRewriteArchiveRenameDeleteNormalise(t *testing.T) {
	cbz := filepath.Join(t.TempDir(), "book.cbz")
	writeTestZip(t, cbz, map[string]string{
		"GL57-020+021.jpg": "merged",
		"GL57-019.jpg":     "page",
		"junk.txt":         "junk",
	})

	renames := map[string]string{"GL57-020+021.jpg": "GL57_020-021.jpg"}
	deletes := map[string]bool{"junk.txt": true}

	out, err := rewriteArchive(cbz, renames, deletes)
	if err != nil {
		t.Fatal(err)
	}
	if out != cbz {
		t.Errorf("zip rewrite moved archive to %s", out)
	}

	entries := readZipEntries(t, out)
	if entries["GL57_020-021.jpg"] != "merged" {
		t.Errorf("renamed entry missing or wrong body: %v", entries)
	}
	// other entries are normalised once a rename happened
	if entries["GL57_019.jpg"] != "page" {
		t.Errorf("expected normalised sibling GL57_019.jpg, got %v", entries)
	}
	if _, ok := entries["junk.txt"]; ok {
		t.Error("deleted entry survived the rewrite")
	}
	if len(entries) != 2 {
		t.Errorf("unexpected entry count %d: %v", len(entries), entries)
	}
}

func TestExtractRejectsEscapingEntry(t *testing.T) {
	dir := t.TempDir()
	cbz := filepath.Join(dir, "evil.cbz")
	writeTestZip(t, cbz, map[string]string{
		"../escape.txt": "out",
		"page-001.jpg":  "ok",
	})

	dest := filepath.Join(dir, "work")
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatal(err)
	}
	if err := extractZip(cbz, dest, nil); err == nil {
		t.Error("extractZip accepted an entry escaping the extraction directory")
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); err == nil {
		t.Error("entry was written outside the extraction directory")
	}
}

func TestEntryPath(t *testing.T) {
	dest := t.TempDir()
	if _, err := entryPath(dest, "scans/page-001.jpg"); err != nil {
		t.Errorf("nested entry rejected: %v", err)
	}
	for _, name := range []string{"../escape.txt", "a/../../escape.txt", ".."} {
		if _, err := entryPath(dest, name); err == nil {
			t.Errorf("entryPath accepted %q", name)
		}
	}
}

func TestRewriteArchiveDeleteOnlyKeepsNames(t *testing.T) {
	cbz := filepath.Join(t.TempDir(), "book.cbz")
	writeTestZip(t, cbz, map[string]string{
		"GL57-019.jpg": "page",
		"junk.txt":     "junk",
	})

	_, err := rewriteArchive(cbz, map[string]string{}, map[string]bool{"junk.txt": true})
	if err != nil {
		t.Fatal(err)
	}

	entries := readZipEntries(t, cbz)
	// no renames requested, so no separator normalisation either
	if _, ok := entries["GL57-019.jpg"]; !ok {
		t.Errorf("untouched entry was renamed: %v", entries)
	}
	if len(entries) != 1 {
		t.Errorf("unexpected entry count %d: %v", len(entries), entries)
	}
}

func TestVerifyZip(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}

	cbz := filepath.Join(t.TempDir(), "book.cbz")
	writeTestZip(t, cbz, map[string]string{
		"001.png":      buf.String(),
		"002.jpg":      "this is not a jpeg",
		"ComicInfo.xml": "<ComicInfo/>",
	})

	pages, bad, err := verifyArchive(cbz)
	if err != nil {
		t.Fatal(err)
	}
	if pages != 2 {
		t.Errorf("pages = %d, want 2 (non-images don't count)", pages)
	}
	if len(bad) != 1 || bad[0] != "002.jpg" {
		t.Errorf("bad = %v, want [002.jpg]", bad)
	}
}
