package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrMediaNotFound means no variant of the referenced file exists
var ErrMediaNotFound = errors.New("media file not found")

// Resolver finds question media files under Dir
type Resolver struct {
	Dir string
}

func NewResolver(dir string) *Resolver {
	return &Resolver{Dir: dir}
}

// Resolve returns the path of name inside Dir. When the exact name is
// missing it tries the extension in lower and upper case, then the name
// with underscores replaced by spaces (with the same extension variants).
func (r *Resolver) Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrMediaNotFound)
	}
	// Media names are plain file names; anything that tries to leave Dir is rejected.
	if filepath.IsAbs(name) || strings.Contains(filepath.ToSlash(name), "../") {
		return "", fmt.Errorf("%w: %s", ErrMediaNotFound, name)
	}

	for _, candidate := range candidates(name) {
		path := filepath.Join(r.Dir, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrMediaNotFound, name)
}

func candidates(name string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, base := range []string{name, strings.ReplaceAll(name, "_", " ")} {
		add(base)
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)
		add(stem + strings.ToLower(ext))
		add(stem + strings.ToUpper(ext))
	}
	return out
}

// Placeholder is the text shown in place of a missing image
func Placeholder(name string) string {
	return fmt.Sprintf("[Media file not found: %s]", name)
}

// Scale turns a media_size percentage into a multiplier
func Scale(size int) float64 {
	if size <= 0 {
		return 1.0
	}
	return float64(size) / 100
}
