package domain

import "strings"

// ParseTags splits a comma-separated tag string, trimming whitespace and
// dropping empty entries. Case is preserved.
func ParseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
