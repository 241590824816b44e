// Package security guards filesystem paths handed to the PDF service so a
// crafted relative path cannot write or read outside the configured roots.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator validates that paths stay within a configured root directory
type PathValidator struct {
	root string
}

// NewPathValidator creates a path validator for the given root. The root
// does not have to exist yet; output trees are created on demand.
func NewPathValidator(root string) (*PathValidator, error) {
	if root == "" {
		return nil, fmt.Errorf("root directory cannot be empty")
	}

	return &PathValidator{root: root}, nil
}

// ValidatePath checks that path resolves to a location within the root
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	isWithin, err := v.IsPathWithinRoot(path)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}
	if !isWithin {
		return fmt.Errorf("path is outside the configured directory: %s", path)
	}

	return nil
}

// IsPathWithinRoot checks if a path is within the configured root,
// resolving symlinks on both sides when they exist
func (v *PathValidator) IsPathWithinRoot(path string) (bool, error) {
	// A root that doesn't exist yet cannot be escaped from
	if _, err := os.Stat(v.root); os.IsNotExist(err) {
		return true, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}

	absRoot, err := filepath.Abs(v.root)
	if err != nil {
		return false, fmt.Errorf("failed to resolve root directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanRoot := filepath.Clean(absRoot)

	realPath := cleanPath
	if info, err := os.Lstat(cleanPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
			realPath = resolved
		}
	}

	realRoot := cleanRoot
	if resolved, err := filepath.EvalSymlinks(cleanRoot); err == nil {
		realRoot = resolved
	}

	within := func(p, dir string) bool {
		dirWithSep := dir
		if !strings.HasSuffix(dirWithSep, string(filepath.Separator)) {
			dirWithSep += string(filepath.Separator)
		}
		return p == dir || strings.HasPrefix(p, dirWithSep)
	}

	pathOk := within(cleanPath, cleanRoot) || within(cleanPath, realRoot)
	realPathOk := within(realPath, cleanRoot) || within(realPath, realRoot)

	return pathOk && realPathOk, nil
}

// Root returns the configured root directory
func (v *PathValidator) Root() string {
	return v.root
}
