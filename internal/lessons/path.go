package lessons

import (
	"fmt"
	"strings"
)

// Path addresses a level of the lesson hierarchy: a language, optionally
// narrowed by quarter, lesson, and day.
type Path struct {
	Language string
	Quarter  string
	Lesson   string
	Day      string
}

// segments returns the populated fields in order, stopping at the first
// blank one.
func (p Path) segments() []string {
	all := []string{p.Language, p.Quarter, p.Lesson, p.Day}
	var segs []string
	for _, s := range all {
		if s == "" {
			break
		}
		segs = append(segs, s)
	}
	return segs
}

// Validate ensures the path has a language and no holes (a day without a
// lesson, a lesson without a quarter).
func (p Path) Validate() error {
	if p.Language == "" {
		return fmt.Errorf("path: language is required")
	}
	if p.Quarter == "" && (p.Lesson != "" || p.Day != "") {
		return fmt.Errorf("path: lesson or day given without quarter")
	}
	if p.Lesson == "" && p.Day != "" {
		return fmt.Errorf("path: day given without lesson")
	}
	return nil
}

// Canonical renders the path with exactly one leading slash and no
// trailing slash, e.g. "/en/2024-q1". This string addresses both the
// origin resource and the cache entry.
func (p Path) Canonical() string {
	return "/" + strings.Join(p.segments(), "/")
}

// ParsePath builds a Path from a slash-separated string such as the
// entries of the prewarm list. Surrounding whitespace and slashes are
// ignored.
func ParsePath(raw string) (Path, error) {
	trimmed := strings.Trim(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return Path{}, fmt.Errorf("path: empty")
	}

	segs := strings.Split(trimmed, "/")
	if len(segs) > 4 {
		return Path{}, fmt.Errorf("path: too many segments in %q", raw)
	}
	for _, s := range segs {
		if s == "" {
			return Path{}, fmt.Errorf("path: empty segment in %q", raw)
		}
	}

	var p Path
	fields := []*string{&p.Language, &p.Quarter, &p.Lesson, &p.Day}
	for i, s := range segs {
		*fields[i] = s
	}
	return p, nil
}
