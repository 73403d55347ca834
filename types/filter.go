package types

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Filter selects which discovered resources become deletion candidates.
// An empty filter matches everything. A filter is stateless after Compile
// and is evaluated once per discovered resource.
type Filter struct {
	// NamePattern is a glob matched against the resource name
	// (falling back to the ID when the name is empty).
	NamePattern string

	// Tags must all be present with equal values on the resource.
	Tags map[string]string

	// IDs restricts matching to an explicit identifier list.
	IDs []string

	pattern glob.Glob
}

// Compile validates the filter and prepares the name glob.
// Must be called before Matches.
func (f *Filter) Compile() error {
	if f.NamePattern == "" {
		f.pattern = nil
		return nil
	}
	g, err := glob.Compile(f.NamePattern)
	if err != nil {
		return fmt.Errorf("invalid name pattern %q: %w", f.NamePattern, err)
	}
	f.pattern = g
	return nil
}

// Matches reports whether the resource passes every filter criterion.
func (f *Filter) Matches(r *Resource) bool {
	return f.matchesName(r) && f.matchesIDs(r) && f.matchesTags(r)
}

func (f *Filter) matchesName(r *Resource) bool {
	if f.pattern == nil {
		return true
	}
	name := r.Name
	if name == "" {
		name = r.ID
	}
	return f.pattern.Match(name)
}

func (f *Filter) matchesIDs(r *Resource) bool {
	if len(f.IDs) == 0 {
		return true
	}
	for _, id := range f.IDs {
		if r.ID == id || r.ARN == id || r.Name == id {
			return true
		}
	}
	return false
}

func (f *Filter) matchesTags(r *Resource) bool {
	for key, value := range f.Tags {
		if r.Tags[key] != value {
			return false
		}
	}
	return true
}

// ParseTags parses a "key=value,key=value" flag into a tag map.
func ParseTags(s string) (map[string]string, error) {
	if s == "" {
		return nil, nil
	}
	tags := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid tag %q, expected key=value", pair)
		}
		tags[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return tags, nil
}
