package asset_shrinker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoAssetsDir is returned by CollectTargets when it was given no paths and
// the default assets directory does not exist.
var ErrNoAssetsDir = errors.New("no paths given and no assets directory found")

// directory listings only pick up these suffixes; explicitly named files are
// taken whatever their extension
var listedSuffixes = []string{".png", ".jpg"}

var readDir = os.ReadDir

func guessMediaType(filename string) MediaType {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPG
	case ".webp":
		return WebP
	default:
		return UnknownType
	}
}

func (m MediaType) String() string {
	switch m {
	case UnknownType:
		return "!unknown!"
	case PNG:
		return "png"
	case JPG:
		return "jpg"
	case WebP:
		return "webp"
	}
	return "!Unhandled-Case!"
}

// ListMediaFiles returns the paths of the regular files directly inside dir
// whose names end in .png or .jpg. Subdirectories are not descended into.
func ListMediaFiles(dir string) ([]string, error) {
	entries, err := readDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error listing directory %s: %w", dir, err)
	}

	files := make([]string, 0)
	for _, suffix := range listedSuffixes {
		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasSuffix(name, suffix) || entry.IsDir() {
				continue
			}
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files, nil
}

// CollectTargets expands the command line arguments into the files to process,
// in discovery order. Relative arguments are resolved against cwd. With no
// arguments the images in assetsDir are used.
func CollectTargets(args []string, cwd string, assetsDir string) ([]string, error) {
	targets := make([]string, 0)

	if len(args) == 0 {
		if !isDir(assetsDir) {
			return nil, ErrNoAssetsDir
		}
		files, err := ListMediaFiles(assetsDir)
		if err != nil {
			return targets, nil
		}
		return files, nil
	}

	for _, arg := range args {
		p := arg
		if !filepath.IsAbs(p) {
			p = filepath.Join(cwd, p)
		}
		p = resolve(p)

		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.IsDir() {
			// an unreadable directory contributes nothing, like a missing path
			files, err := ListMediaFiles(p)
			if err != nil {
				continue
			}
			targets = append(targets, files...)
		} else if info.Mode().IsRegular() {
			targets = append(targets, p)
		}
	}
	return targets, nil
}

// UniqueSorted returns the distinct paths of targets in lexicographic order.
func UniqueSorted(targets []string) []string {
	seen := make(map[string]bool, len(targets))
	unique := make([]string, 0, len(targets))
	for _, t := range targets {
		if seen[t] {
			continue
		}
		seen[t] = true
		unique = append(unique, t)
	}
	sort.Strings(unique)
	return unique
}

// resolve cleans p and follows symlinks when it can, so that the same file
// named two ways is only processed once.
func resolve(p string) string {
	p = filepath.Clean(p)
	if real, err := filepath.EvalSymlinks(p); err == nil {
		return real
	}
	return p
}

func isDir(p string) bool {
	if p == "" {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
