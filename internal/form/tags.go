package form

import (
	"slices"
	"strings"
)

// AddTag appends the trimmed pending tag when it is non-empty and not already
// present (case-sensitive). It reports whether the tag was added; callers
// clear their pending input only then.
func AddTag(tags []string, pending string) ([]string, bool) {
	tag := strings.TrimSpace(pending)
	if tag == "" || slices.Contains(tags, tag) {
		return tags, false
	}
	next := make([]string, len(tags), len(tags)+1)
	copy(next, tags)
	return append(next, tag), true
}

// RemoveTag returns tags without tag.
func RemoveTag(tags []string, tag string) []string {
	next := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			next = append(next, t)
		}
	}
	return next
}
