package mirror

import "notion-mirror/core/notion"

// PruneToSchema drops every property the database does not define, so writes
// never fail on fields that were removed or renamed remotely. Known
// properties pass through untouched.
func PruneToSchema(props notion.Properties, known map[string]struct{}) notion.Properties {
	pruned := make(notion.Properties, len(props))
	for name, value := range props {
		if _, ok := known[name]; ok {
			pruned[name] = value
		}
	}
	return pruned
}
