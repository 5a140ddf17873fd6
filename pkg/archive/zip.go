package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
)

const (
	maxFileSize  = 16 * 1024 * 1024  // 16 MB per file
	maxTotalSize = 256 * 1024 * 1024 // 256 MB total read
	maxFileCount = 50000             // maximum number of files in archive
)

// ReadFiles reads the regular files of a zip archive whose names satisfy
// match and returns their contents keyed by cleaned slash-separated path.
// A nil match selects every file.
// Entries that escape the archive root are rejected and symlinks are skipped.
// Enforces size limits to prevent zip bomb attacks.
func ReadFiles(data []byte, match func(name string) bool) (map[string][]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read zip archive: %w", err)
	}

	if len(reader.File) > maxFileCount {
		return nil, fmt.Errorf("zip archive contains %d files, exceeds maximum of %d", len(reader.File), maxFileCount)
	}

	files := make(map[string][]byte)
	var totalRead int64

	for _, file := range reader.File {
		if file.Mode()&os.ModeSymlink != 0 || file.FileInfo().IsDir() {
			continue
		}

		name, err := cleanEntryName(file.Name)
		if err != nil {
			return nil, err
		}
		if match != nil && !match(name) {
			continue
		}

		content, err := readEntry(file)
		if err != nil {
			return nil, err
		}

		totalRead += int64(len(content))
		if totalRead > maxTotalSize {
			return nil, fmt.Errorf("total read size exceeds maximum of %d bytes", maxTotalSize)
		}

		files[name] = content
	}

	return files, nil
}

// cleanEntryName rejects absolute names and names that traverse above the
// archive root.
func cleanEntryName(name string) (string, error) {
	slashed := strings.ReplaceAll(name, `\`, "/")
	if strings.HasPrefix(slashed, "/") {
		return "", fmt.Errorf("zip entry has absolute path: %s", name)
	}
	cleaned := path.Clean(slashed)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("zip entry attempts path traversal: %s", name)
	}
	return cleaned, nil
}

func readEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open zip entry %s: %w", file.Name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file.Name, err)
	}
	if int64(len(content)) > maxFileSize {
		return nil, fmt.Errorf("file %s exceeds maximum size of %d bytes", file.Name, maxFileSize)
	}
	return content, nil
}
