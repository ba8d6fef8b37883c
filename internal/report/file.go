package report

import (
	"fmt"
	"os"
	"path/filepath"

	"skybank/internal/core"
)

// FileName returns the name a report of format f is saved under.
func FileName(f Format) string {
	return "report" + f.Ext()
}

// WriteFile encodes records with the writer for f and stores them as
// dir/report.<ext>. The content is encoded before anything touches the disk
// and lands through a rename, so a failure never leaves a partial file.
func WriteFile(dir string, f Format, records []core.ReportRecord) (string, error) {
	w, err := WriterFor(f)
	if err != nil {
		return "", err
	}
	data, err := w.Encode(records)
	if err != nil {
		return "", fmt.Errorf("encode %s report: %w", f, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return "", fmt.Errorf("create temp report: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write temp report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("chmod temp report: %w", err)
	}

	path := filepath.Join(dir, FileName(f))
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("move report into place: %w", err)
	}
	return path, nil
}
