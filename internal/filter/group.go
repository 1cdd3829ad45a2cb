package filter

import (
	"sort"
	"strings"

	"github.com/dkoval85/rdm/internal/models"
)

// Group is a named bucket of tasks produced for display.
type Group struct {
	Key   string
	Label string
	Color string
	Tasks []models.Task
}

// NoTagKey identifies the bucket for tasks carrying no tags. It sorts
// after every tag group regardless of label.
const NoTagKey = "no-tag"

// Priority bucket keys for GroupByPrio.
const (
	PrioHighKey   = "priority-high"
	PrioMediumKey = "priority-medium"
	PrioLowKey    = "priority-low"
	PrioNoneKey   = "priority-none"
)

// Priority grouping matches keywords against tag names, not the
// task's own Priority field. Buckets are tried high to low and the
// first match wins.
var priorityKeywords = []struct {
	key      string
	label    string
	color    string
	keywords []string
}{
	{PrioHighKey, "High priority", "#f7768e", []string{"high", "urgent", "critical", "important", "asap"}},
	{PrioMediumKey, "Medium priority", "#e0af68", []string{"medium", "normal", "soon"}},
	{PrioLowKey, "Low priority", "#9ece6a", []string{"low", "minor", "later", "someday"}},
}

// Groups buckets the (already filtered) tasks for display. GroupNone
// returns nil: the caller falls back to rendering by section.
func Groups(tasks []models.Task, groupBy GroupBy) []Group {
	switch groupBy {
	case GroupByTag:
		return groupByTag(tasks)
	case GroupByStatus:
		return groupByStatus(tasks)
	case GroupByPrio:
		return groupByPriority(tasks)
	}
	return nil
}

// groupByTag emits one group per tag with at least one task, sorted
// alphabetically by label, plus a trailing no-tag group. A task with
// N tags appears in N groups.
func groupByTag(tasks []models.Task) []Group {
	byTag := make(map[int64]*Group)
	var noTag Group

	for _, t := range tasks {
		if len(t.Tags) == 0 {
			noTag.Tasks = append(noTag.Tasks, t)
			continue
		}
		for _, tag := range t.Tags {
			g, ok := byTag[tag.ID]
			if !ok {
				g = &Group{Key: "tag-" + tag.Name, Label: tag.Name, Color: tag.Color}
				byTag[tag.ID] = g
			}
			g.Tasks = append(g.Tasks, t)
		}
	}

	groups := make([]Group, 0, len(byTag)+1)
	for _, g := range byTag {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Label) < strings.ToLower(groups[j].Label)
	})

	if len(noTag.Tasks) > 0 {
		noTag.Key = NoTagKey
		noTag.Label = "No tag"
		groups = append(groups, noTag)
	}
	return groups
}

// groupByStatus emits the fixed in_progress, not_started, completed
// order, omitting empty groups.
func groupByStatus(tasks []models.Task) []Group {
	ordered := []struct {
		status models.Status
		label  string
		color  string
	}{
		{models.StatusInProgress, "In progress", "#7aa2f7"},
		{models.StatusNotStarted, "Not started", "#565f89"},
		{models.StatusCompleted, "Completed", "#9ece6a"},
	}

	var groups []Group
	for _, o := range ordered {
		g := Group{Key: "status-" + string(o.status), Label: o.label, Color: o.color}
		for _, t := range tasks {
			if t.Status == o.status {
				g.Tasks = append(g.Tasks, t)
			}
		}
		if len(g.Tasks) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// priorityBucketKey resolves the keyword bucket for a task from its
// tag names. Tasks with no matching tag (or no tags at all) land in
// the none bucket; Task.Priority is deliberately not consulted.
func priorityBucketKey(t models.Task) string {
	for _, bucket := range priorityKeywords {
		for _, tag := range t.Tags {
			name := strings.ToLower(tag.Name)
			for _, kw := range bucket.keywords {
				if strings.Contains(name, kw) {
					return bucket.key
				}
			}
		}
	}
	return PrioNoneKey
}

func groupByPriority(tasks []models.Task) []Group {
	buckets := make(map[string][]models.Task)
	for _, t := range tasks {
		key := priorityBucketKey(t)
		buckets[key] = append(buckets[key], t)
	}

	var groups []Group
	for _, b := range priorityKeywords {
		if ts := buckets[b.key]; len(ts) > 0 {
			groups = append(groups, Group{Key: b.key, Label: b.label, Color: b.color, Tasks: ts})
		}
	}
	if ts := buckets[PrioNoneKey]; len(ts) > 0 {
		groups = append(groups, Group{Key: PrioNoneKey, Label: "No priority", Color: "#565f89", Tasks: ts})
	}
	return groups
}
