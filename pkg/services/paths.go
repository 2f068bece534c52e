package services

import (
	"path/filepath"
	"strings"
)

// SafeJoin joins a caller-supplied path under root, rejecting traversal
// outside it. Returns "" when the target is not safe.
func SafeJoin(root, target string) string {
	cleaned := filepath.Clean(target)
	if strings.Contains(cleaned, "..") || filepath.IsAbs(cleaned) {
		return ""
	}
	return filepath.Join(root, cleaned)
}
