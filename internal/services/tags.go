package services

import "meetupfinder/internal/domain"

// AggregateTags collects the tags of events in presentation order, dropping
// exact duplicates and keeping at most domain.MaxListingTags entries.
// Comparison is case-sensitive: "Tech" and "tech" are distinct tags.
func AggregateTags(events []*domain.Event) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, e := range events {
		if e == nil {
			continue
		}
		for _, tag := range domain.ParseTags(e.Tags) {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	if len(out) > domain.MaxListingTags {
		out = out[:domain.MaxListingTags]
	}
	return out
}
