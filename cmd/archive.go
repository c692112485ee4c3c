/*
Copyright © 2025 cbman contributors
*/
package cmd

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nwaples/rardecode"
)

// ----------------------- Container handling -----------------------

// listArchive returns the file entries of an archive, sorted, with
// directory entries dropped. Rar containers are read via rardecode; zip
// via the standard library.
func listArchive(path string) ([]string, error) {
	if isRarArchive(path) {
		return listRar(path)
	}
	return listZip(path)
}

func listZip(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names, nil
}

func listRar(path string) ([]string, error) {
	r, err := rardecode.OpenReader(path, "")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	var names []string
	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if hdr.IsDir {
			continue
		}
		names = append(names, hdr.Name)
	}
	sort.Strings(names)
	return names, nil
}

// rewriteArchive applies renames and deletions and repacks the container.
// Entries are extracted to a per-archive temp directory which is removed
// on every exit path. A rar source is repacked as a sibling .cbz and the
// original removed afterwards. Returns the path of the resulting archive.
//
// When at least one rename was requested, every other entry has its
// hyphens normalised to underscores on the way back in, so one pass
// leaves the whole archive in the house convention.
func rewriteArchive(path string, renames map[string]string, deletes map[string]bool) (string, error) {
	tmp, err := os.MkdirTemp("", "cbman-*")
	if err != nil {
		return "", fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	if isRarArchive(path) {
		err = extractRar(path, tmp, deletes)
	} else {
		err = extractZip(path, tmp, deletes)
	}
	if err != nil {
		return "", err
	}

	out := path
	if isRarArchive(path) {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + extCBZ
	}

	// write beside the target, then swap in
	staging := out + ".part"
	if err := packZip(staging, tmp, renames); err != nil {
		os.Remove(staging)
		return "", err
	}
	if err := os.Rename(staging, out); err != nil {
		os.Remove(staging)
		return "", fmt.Errorf("replace %s: %w", out, err)
	}

	if out != path {
		if err := os.Remove(path); err != nil {
			return out, fmt.Errorf("remove original %s: %w", path, err)
		}
	}
	return out, nil
}

// entryPath resolves an archive entry name under dest. Archives arrive
// over a file-sharing network, so names are untrusted: anything that
// resolves outside the extraction directory is rejected.
func entryPath(dest, name string) (string, error) {
	p := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("unsafe entry name %q", name)
	}
	return p, nil
}

func extractZip(path, dest string, deletes map[string]bool) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		if deletes[f.Name] {
			continue
		}

		fpath, err := entryPath(dest, f.Name)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
			return fmt.Errorf("create directory for %s: %w", f.Name, err)
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open entry %s: %w", f.Name, err)
		}
		out, err := os.Create(fpath)
		if err != nil {
			rc.Close()
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
		_, err = io.Copy(out, rc)
		out.Close()
		rc.Close()
		if err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractRar(path, dest string, deletes map[string]bool) error {
	r, err := rardecode.OpenReader(path, "")
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if hdr.IsDir || deletes[hdr.Name] {
			continue
		}

		fpath, err := entryPath(dest, hdr.Name)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
			return fmt.Errorf("create directory for %s: %w", hdr.Name, err)
		}
		out, err := os.Create(fpath)
		if err != nil {
			return fmt.Errorf("extract %s: %w", hdr.Name, err)
		}
		_, err = io.Copy(out, r)
		out.Close()
		if err != nil {
			return fmt.Errorf("extract %s: %w", hdr.Name, err)
		}
	}
	return nil
}

func packZip(out, srcDir string, renames map[string]string) error {
	fh, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer fh.Close()

	zw := zip.NewWriter(fh)
	defer zw.Close()

	err = filepath.Walk(srcDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		arcname, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		arcname = filepath.ToSlash(arcname)

		if renamed, ok := renames[arcname]; ok {
			arcname = renamed
		} else if len(renames) > 0 {
			arcname = strings.ReplaceAll(arcname, "-", "_")
		}

		w, err := zw.Create(arcname)
		if err != nil {
			return err
		}
		src, err := os.Open(p)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		return fmt.Errorf("pack %s: %w", out, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish %s: %w", out, err)
	}
	return fh.Close()
}
