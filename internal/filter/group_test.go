package filter

import (
	"testing"

	"github.com/dkoval85/rdm/internal/models"
)

func TestGroupsByTagPartition(t *testing.T) {
	twoTags := taggedTask(1, models.StatusNotStarted, tagDesign, tagBackend)
	oneTag := taggedTask(2, models.StatusNotStarted, tagDesign)
	bare := taggedTask(3, models.StatusNotStarted)

	groups := Groups([]models.Task{twoTags, oneTag, bare}, GroupByTag)

	// backend, design, then the trailing no-tag group.
	wantLabels := []string{"backend", "design", "No tag"}
	if len(groups) != len(wantLabels) {
		t.Fatalf("len = %d, want %d", len(groups), len(wantLabels))
	}
	for i, label := range wantLabels {
		if groups[i].Label != label {
			t.Errorf("groups[%d].Label = %q, want %q", i, groups[i].Label, label)
		}
	}

	// A task with N tags appears in exactly N tag groups.
	appearances := make(map[int64]int)
	for _, g := range groups {
		for _, task := range g.Tasks {
			appearances[task.ID]++
			if task.ID == twoTags.ID && g.Key == NoTagKey {
				t.Error("tagged task landed in the no-tag group")
			}
		}
	}
	if appearances[twoTags.ID] != 2 {
		t.Errorf("task with 2 tags appeared %d times, want 2", appearances[twoTags.ID])
	}
	if appearances[oneTag.ID] != 1 {
		t.Errorf("task with 1 tag appeared %d times, want 1", appearances[oneTag.ID])
	}
	if appearances[bare.ID] != 1 {
		t.Errorf("bare task appeared %d times, want 1", appearances[bare.ID])
	}
}

func TestGroupsByTagNoTagSortsLast(t *testing.T) {
	// "zz" sorts after "No tag" alphabetically; the no-tag group must
	// still come last.
	zz := models.Tag{ID: 9, Name: "zz", Color: "#ffffff"}
	groups := Groups([]models.Task{
		taggedTask(1, models.StatusNotStarted, zz),
		taggedTask(2, models.StatusNotStarted),
	}, GroupByTag)

	if len(groups) != 2 {
		t.Fatalf("len = %d, want 2", len(groups))
	}
	if groups[len(groups)-1].Key != NoTagKey {
		t.Errorf("last group = %q, want %q", groups[len(groups)-1].Key, NoTagKey)
	}
}

func TestGroupsByStatusOrderAndOmission(t *testing.T) {
	groups := Groups([]models.Task{
		taggedTask(1, models.StatusCompleted),
		taggedTask(2, models.StatusInProgress),
		taggedTask(3, models.StatusInProgress),
	}, GroupByStatus)

	// not_started is empty and omitted.
	wantKeys := []string{"status-in_progress", "status-completed"}
	if len(groups) != len(wantKeys) {
		t.Fatalf("len = %d, want %d", len(groups), len(wantKeys))
	}
	for i, key := range wantKeys {
		if groups[i].Key != key {
			t.Errorf("groups[%d].Key = %q, want %q", i, groups[i].Key, key)
		}
	}
	if len(groups[0].Tasks) != 2 {
		t.Errorf("in progress group has %d tasks, want 2", len(groups[0].Tasks))
	}
}

func TestGroupsByPriorityUsesTagKeywords(t *testing.T) {
	urgent := taggedTask(1, models.StatusNotStarted, tagUrgent)
	soonish := taggedTask(2, models.StatusNotStarted, models.Tag{ID: 5, Name: "do-soon"})
	plain := taggedTask(3, models.StatusNotStarted, tagDesign)

	groups := Groups([]models.Task{urgent, soonish, plain}, GroupByPrio)

	wantKeys := []string{PrioHighKey, PrioMediumKey, PrioNoneKey}
	if len(groups) != len(wantKeys) {
		t.Fatalf("len = %d, want %d", len(groups), len(wantKeys))
	}
	for i, key := range wantKeys {
		if groups[i].Key != key {
			t.Errorf("groups[%d].Key = %q, want %q", i, groups[i].Key, key)
		}
	}
}

func TestGroupsByPriorityIgnoresPriorityField(t *testing.T) {
	// The bucket comes from tag keywords only; a critical task with no
	// tags lands in the none bucket.
	critical := models.Task{ID: 1, Status: models.StatusNotStarted, Priority: models.PriorityCritical}

	groups := Groups([]models.Task{critical}, GroupByPrio)
	if len(groups) != 1 {
		t.Fatalf("len = %d, want 1", len(groups))
	}
	if groups[0].Key != PrioNoneKey {
		t.Errorf("group = %q, want %q", groups[0].Key, PrioNoneKey)
	}
}

func TestGroupsFirstMatchingBucketWins(t *testing.T) {
	// A task tagged both high and low goes to the high bucket only.
	task := taggedTask(1, models.StatusNotStarted,
		models.Tag{ID: 7, Name: "high"},
		models.Tag{ID: 8, Name: "low"},
	)

	groups := Groups([]models.Task{task}, GroupByPrio)
	if len(groups) != 1 {
		t.Fatalf("len = %d, want 1", len(groups))
	}
	if groups[0].Key != PrioHighKey {
		t.Errorf("group = %q, want %q", groups[0].Key, PrioHighKey)
	}
}

func TestGroupsNone(t *testing.T) {
	if groups := Groups([]models.Task{taggedTask(1, models.StatusNotStarted)}, GroupNone); groups != nil {
		t.Errorf("GroupNone = %v, want nil", groups)
	}
}
