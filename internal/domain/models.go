package domain

import "sort"

// Target is a named website under monitoring. Names are unique.
type Target struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// SortedTargets turns a registry snapshot (name -> url) into targets ordered by name.
func SortedTargets(m map[string]string) []Target {
	out := make([]Target, 0, len(m))
	for name, url := range m {
		out = append(out, Target{Name: name, URL: url})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
