package files

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves paths that include a tilde (~) to the user's home directory.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, path[2:]), nil
	}
	return path, nil
}

// ValidatePath checks if the given path is a valid file path for reading.
func ValidatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path stat error: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path %q is a directory, not a file", path)
	}

	if info.Mode()&os.ModeType != 0 {
		return fmt.Errorf("path %q is not a regular file", path)
	}
	return nil
}

// ValidateDir checks that the given path exists and is a directory.
func ValidateDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path stat error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path %q is not a directory", path)
	}
	return nil
}

// Exists reports whether something exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CreateFolderIfNotExists checks if a folder exists, and if not, creates it.
func CreateFolderIfNotExists(folder string) error {
	if _, err := os.Stat(folder); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(folder, os.ModePerm); err != nil {
			return fmt.Errorf("unable to create folder %q: %w", folder, err)
		}
	} else if err != nil {
		return fmt.Errorf("unable to check folder %q: %w", folder, err)
	}
	return nil
}

// WriteJsonFile writes JSON data to the specified file, creating its folder when missing.
func WriteJsonFile(outputFile string, data []byte) error {
	if err := CreateFolderIfNotExists(filepath.Dir(outputFile)); err != nil {
		return err
	}

	file, err := os.OpenFile(outputFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed creating file: %w", err)
	}

	datawriter := bufio.NewWriter(file)
	if _, err := datawriter.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("error writing data to file: %w", err)
	}
	if err := datawriter.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("error writing data to file: %w", err)
	}

	return file.Close()
}

// RelativeSlashPath returns target relative to root using forward slashes.
func RelativeSlashPath(root, target string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", target, err)
	}

	rel, err := filepath.Rel(absRoot, absTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes root %q", absTarget, absRoot)
	}

	return filepath.ToSlash(rel), nil
}
