package menu

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrMissingExtension = errors.New("file extension missing")
	ErrUnsupportedFile  = errors.New("file type not allowed")
)

var allowedExt = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// ValidateFileExtension accepts restaurant documents stored as JSON or YAML.
func ValidateFileExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))

	if ext == "" {
		return ErrMissingExtension
	}

	if !allowedExt[ext] {
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}

	return nil
}

// IsYAMLFile reports whether filename names a YAML document.
func IsYAMLFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}
