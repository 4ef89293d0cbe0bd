package docgen

import (
	"fmt"
	"reflect"
	"strings"

	"route-recon/internal/model"
)

// ChangeSet lists endpoint keys ("METHOD path") that differ between two analyses
type ChangeSet struct {
	Added    []string
	Removed  []string
	Modified []string
}

// Empty reports whether nothing changed
func (c ChangeSet) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Modified) == 0
}

// CompareEndpoints diffs two endpoint lists by key. An endpoint is modified when its
// parameters or payload models changed. Keys keep the order of the list they come from.
func CompareEndpoints(previous, current []model.EndpointInfo) ChangeSet {
	old := make(map[string]model.EndpointInfo, len(previous))
	for _, ep := range previous {
		old[ep.Key()] = ep
	}
	cur := make(map[string]model.EndpointInfo, len(current))
	for _, ep := range current {
		cur[ep.Key()] = ep
	}

	var changes ChangeSet
	seen := make(map[string]bool)
	for _, ep := range current {
		key := ep.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		before, ok := old[key]
		switch {
		case !ok:
			changes.Added = append(changes.Added, key)
		case !reflect.DeepEqual(before.Parameters, ep.Parameters) ||
			model.Deref(before.RequestModel) != model.Deref(ep.RequestModel) ||
			model.Deref(before.ResponseModel) != model.Deref(ep.ResponseModel):
			changes.Modified = append(changes.Modified, key)
		}
	}
	for _, ep := range previous {
		key := ep.Key()
		if _, ok := cur[key]; !ok && !seen[key] {
			seen[key] = true
			changes.Removed = append(changes.Removed, key)
		}
	}
	return changes
}

// Markdown renders the change set as a short report
func (c ChangeSet) Markdown() string {
	var sb strings.Builder
	sb.WriteString("## API Documentation Changes\n\n")

	section := func(title string, keys []string) {
		if len(keys) == 0 {
			return
		}
		fmt.Fprintf(&sb, "### %s\n", title)
		for _, k := range keys {
			fmt.Fprintf(&sb, "- `%s`\n", k)
		}
		sb.WriteString("\n")
	}
	section("Added Endpoints", c.Added)
	section("Removed Endpoints", c.Removed)
	section("Modified Endpoints", c.Modified)

	if c.Empty() {
		sb.WriteString("No changes detected.\n")
	}
	return sb.String()
}
