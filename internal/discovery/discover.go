package discovery

import (
	"path/filepath"
	"runtime"
	"sort"
)

// DefaultPatterns returns the known history database locations of the
// supported browsers on windows, darwin and linux.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{Browser: "Google Chrome", OS: "windows", Glob: "AppData/Local/Google/Chrome/User Data/*/History"},
		{Browser: "Microsoft Edge", OS: "windows", Glob: "AppData/Local/Microsoft/Edge/User Data/*/History"},
		{Browser: "Arc", OS: "windows", Glob: "AppData/Local/Packages/TheBrowserCompany.Arc_*/LocalCache/Local/Arc/User Data/*/History"},
		{Browser: "Firefox", OS: "windows", Glob: "AppData/Roaming/Mozilla/Firefox/Profiles/*/places.sqlite"},

		{Browser: "Google Chrome", OS: "darwin", Glob: "Library/Application Support/Google/Chrome/*/History"},
		{Browser: "Microsoft Edge", OS: "darwin", Glob: "Library/Application Support/Microsoft Edge/*/History"},
		{Browser: "Arc", OS: "darwin", Glob: "Library/Application Support/Arc/User Data/*/History"},
		{Browser: "Firefox", OS: "darwin", Glob: "Library/Application Support/Firefox/Profiles/*/places.sqlite"},

		{Browser: "Google Chrome", OS: "linux", Glob: ".config/google-chrome/*/History"},
		{Browser: "Microsoft Edge", OS: "linux", Glob: ".config/microsoft-edge/*/History"},
		{Browser: "Firefox", OS: "linux", Glob: ".mozilla/firefox/*/places.sqlite"},
	}
}

// Discover expands every pattern for goos against home. Patterns for other
// operating systems are ignored. Malformed globs match nothing.
func Discover(home, goos string, patterns []Pattern) *Databases {
	d := &Databases{paths: make(map[string][]string)}
	for _, p := range patterns {
		if p.OS != goos {
			continue
		}

		glob := filepath.FromSlash(p.Glob)
		if !filepath.IsAbs(glob) {
			glob = filepath.Join(home, glob)
		}

		matches, err := filepath.Glob(glob)
		if err != nil {
			matches = nil
		}
		sort.Strings(matches)
		d.add(p.Browser, matches...)
	}
	return d
}

// DiscoverLocal runs Discover for the running operating system.
func DiscoverLocal(home string, patterns []Pattern) *Databases {
	return Discover(home, runtime.GOOS, patterns)
}
