package browser

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNotFound reports that no history artifact exists for the requested
// browser on this machine. This is a normal outcome (the artifact is absent
// or the OS/browser combination is impossible), not a failure.
var ErrNotFound = errors.New("history artifact not found")

// Locate resolves the on-disk history artifact for the browser on the given
// GOOS. It expands each candidate path template, scans for a default profile
// directory when the spec declares one, and returns the first existing
// artifact file. Returns ErrNotFound when nothing matches.
func Locate(spec *Spec, goos string) (string, error) {
	if !spec.SupportsOS(goos) {
		return "", ErrNotFound
	}

	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("resolving current user: %w", err)
	}

	return locateIn(spec, goos, u.Username)
}

// locateIn is the template-expansion core of Locate, split out so tests can
// supply a username without touching the real account database.
func locateIn(spec *Spec, goos, username string) (string, error) {
	var profileRe *regexp.Regexp
	if spec.ProfilePattern != "" {
		var err error
		profileRe, err = regexp.Compile(spec.ProfilePattern)
		if err != nil {
			return "", fmt.Errorf("invalid profile pattern %q: %w", spec.ProfilePattern, err)
		}
	}

	for _, tpl := range spec.Paths[goos] {
		dir := strings.ReplaceAll(tpl, "{user}", username)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}

		if profileRe != nil {
			path, err := scanProfiles(dir, profileRe, spec.FileNames)
			if err == nil {
				return path, nil
			}
			continue
		}

		for _, name := range spec.FileNames {
			path := filepath.Join(dir, name)
			if isFile(path) {
				return path, nil
			}
		}
	}

	return "", ErrNotFound
}

// scanProfiles looks for a subdirectory matching the default-profile naming
// pattern and returns the first existing artifact inside it.
func scanProfiles(dir string, profileRe *regexp.Regexp, fileNames []string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", ErrNotFound
	}

	for _, entry := range entries {
		if !entry.IsDir() || !profileRe.MatchString(entry.Name()) {
			continue
		}
		for _, name := range fileNames {
			path := filepath.Join(dir, entry.Name(), name)
			if isFile(path) {
				return path, nil
			}
		}
	}

	return "", ErrNotFound
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
