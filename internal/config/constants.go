package config

import "strings"

const SourceFileExt = ".lzl"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".lzl", ".lazuli"}

// Backend names accepted by the -backend flag.
const (
	BackendVM   = "vm"
	BackendTree = "tree"
)

// IsSourceFile checks if a path has a recognized source extension.
func IsSourceFile(path string) bool {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// TrimSourceExt removes a recognized source extension for display.
func TrimSourceExt(path string) string {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}
