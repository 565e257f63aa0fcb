package order

import "notedeck/model"

// ReorderWithinGroup converts a reorder intent into the minimal set of index
// writes. group must be the current display order of a single pinned or
// unpinned group; insertionPos is an index into that order, clamped to
// [0, len]. The returned map holds the new sort index for every note whose
// persisted index actually changes. All writes for one call must be applied
// as a single atomic batch.
//
// A movingID that is not in the group yields an empty map: the note may have
// been deleted or moved across groups by another writer mid-gesture, and a
// stale intent must fail safe.
func ReorderWithinGroup(group []*model.Note, movingID string, insertionPos int) map[string]int {
	updates := make(map[string]int)

	fromIndex := -1
	for i, note := range group {
		if note.ID == movingID {
			fromIndex = i
			break
		}
	}
	if fromIndex == -1 {
		return updates
	}

	if insertionPos < 0 {
		insertionPos = 0
	}
	if insertionPos > len(group) {
		insertionPos = len(group)
	}

	// The insertion position counts slots in the list with the moving note
	// still present; removing it first shifts everything after it up by one.
	target := insertionPos
	if insertionPos > fromIndex {
		target = insertionPos - 1
	}
	if target == fromIndex {
		return updates
	}

	reordered := make([]*model.Note, 0, len(group))
	reordered = append(reordered, group[:fromIndex]...)
	reordered = append(reordered, group[fromIndex+1:]...)
	reordered = append(reordered[:target], append([]*model.Note{group[fromIndex]}, reordered[target:]...)...)

	for i, note := range reordered {
		if note.HasSortIndex() && *note.SortIndex == i {
			continue
		}
		updates[note.ID] = i
	}

	return updates
}
