// Package browser describes the supported browser families: where each one
// keeps its history artifact per OS, how its source schema maps onto the
// canonical store, and how its native timestamps convert to Unix time.
package browser

import "fmt"

// Browser identifies a supported browser family.
type Browser string

const (
	Chrome  Browser = "Chrome"
	Firefox Browser = "Firefox"
	Safari  Browser = "Safari"
	IE11    Browser = "IE11"
)

// All returns every supported browser identifier.
func All() []Browser {
	return []Browser{Chrome, Firefox, Safari, IE11}
}

// Parse validates a browser identifier string (case-sensitive).
func Parse(name string) (Browser, error) {
	for _, b := range All() {
		if string(b) == name {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown browser %q (expected one of Chrome, Firefox, Safari, IE11)", name)
}
