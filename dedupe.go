package main

// pairSeparator joins story and sub-story into a group key. The unit
// separator control character cannot appear in legitimate cell text.
const pairSeparator = "\x1f"

// CanonicalEntry is the unique representative of every row sharing identical
// story/sub-story content. Ids are dense, 0-based, assigned in first-seen
// order, and double as the correlation ids on the model wire format.
type CanonicalEntry struct {
	ID       int    `json:"id"`
	Story    string `json:"story"`
	SubStory string `json:"sub-story"`
}

// GroupIndex maps a group key to the ordered original row ids sharing that
// content. Built once by deduplicateRows, read-only afterwards.
type GroupIndex map[string][]int

func groupKey(story, subStory string) string {
	return story + pairSeparator + subStory
}

// deduplicateRows groups rows by exact (story, sub-story) content. Matching
// is byte-exact: case and whitespace are significant. Canonical id order
// depends only on input order, never on map iteration.
func deduplicateRows(rows []Row) ([]CanonicalEntry, GroupIndex) {
	index := make(GroupIndex)
	entries := make([]CanonicalEntry, 0, len(rows))

	for _, row := range rows {
		story := row.Fields["story"]
		subStory := row.Fields["sub-story"]
		key := groupKey(story, subStory)

		if _, seen := index[key]; !seen {
			entries = append(entries, CanonicalEntry{
				ID:       len(entries),
				Story:    story,
				SubStory: subStory,
			})
		}
		index[key] = append(index[key], row.ID)
	}

	return entries, index
}
