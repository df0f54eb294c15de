package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Manager handles atomic file writes inside one output directory
type Manager struct {
	outputDir string
	extension string
}

// NewManager creates a storage manager for outputDir, creating the directory
// when it does not exist yet
func NewManager(outputDir, extension string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{
		outputDir: outputDir,
		extension: extension,
	}, nil
}

// Path returns the final location of a file stem
func (m *Manager) Path(stem string) string {
	return filepath.Join(m.outputDir, stem+m.extension)
}

// Save streams r into the file for stem, replacing any previous content.
// Data goes to a temporary file first so a failed copy never leaves a
// partial file under the final name.
func (m *Manager) Save(r io.Reader, stem string) (string, error) {
	filename := m.Path(stem)

	out, err := os.CreateTemp(m.outputDir, "."+stem+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := out.Name()

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to write data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Chmod(tempFile, 0644); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return filename, nil
}

// WriteLines atomically writes one line per entry to path
func WriteLines(path string, lines []string) (string, error) {
	ext := filepath.Ext(path)
	m, err := NewManager(filepath.Dir(path), ext)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return m.Save(strings.NewReader(b.String()), strings.TrimSuffix(filepath.Base(path), ext))
}
