package order

import (
	"sort"

	"notedeck/model"
)

// Order computes the display order over a note set: pinned notes first, then
// within each group notes with a defined sort index ascending, notes without
// one after them by most recent update, and the note id as the final
// tie-break. The input slice is not modified.
func Order(notes []*model.Note) []*model.Note {
	ordered := make([]*model.Note, len(notes))
	copy(ordered, notes)

	sort.Slice(ordered, func(i, j int) bool {
		return Less(ordered[i], ordered[j])
	})

	return ordered
}

// Less is the display-order comparator. It is a strict total order: no two
// distinct notes compare equal because the id tie-break always decides.
func Less(a, b *model.Note) bool {
	if a.Pinned != b.Pinned {
		return a.Pinned
	}

	// Defined indices rank before undefined ones within the same group.
	switch {
	case a.HasSortIndex() && b.HasSortIndex():
		if *a.SortIndex != *b.SortIndex {
			return *a.SortIndex < *b.SortIndex
		}
	case a.HasSortIndex():
		return true
	case b.HasSortIndex():
		return false
	}

	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}

	return a.ID < b.ID
}

// Group filters notes by pinned state, preserving input order.
func Group(notes []*model.Note, pinned bool) []*model.Note {
	group := make([]*model.Note, 0, len(notes))
	for _, note := range notes {
		if note.Pinned == pinned {
			group = append(group, note)
		}
	}
	return group
}

// NextIndexAfter returns the sort index for a note appended to the bottom of
// the given group: one past the largest defined index, or 0 when the group is
// empty or carries no indices. Not suitable for interior insertion.
func NextIndexAfter(notes []*model.Note, pinned bool) int {
	max := 0
	found := false
	for _, note := range notes {
		if note.Pinned != pinned || !note.HasSortIndex() {
			continue
		}
		if !found || *note.SortIndex > max {
			max = *note.SortIndex
			found = true
		}
	}
	if !found {
		return 0
	}
	return max + 1
}

// TopIndexBefore returns the sort index for a note moved to the top of the
// given group: one below the smallest defined index, or 0 when the group is
// empty or carries no indices.
func TopIndexBefore(notes []*model.Note, pinned bool) int {
	min := 0
	found := false
	for _, note := range notes {
		if note.Pinned != pinned || !note.HasSortIndex() {
			continue
		}
		if !found || *note.SortIndex < min {
			min = *note.SortIndex
			found = true
		}
	}
	if !found {
		return 0
	}
	return min - 1
}
