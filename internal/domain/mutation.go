package domain

// MutationBatch is the explicit set of changes the scheduling core asks its
// caller to apply to the block collection. The core never mutates the
// collection itself.
type MutationBatch struct {
	Creates []TimeBlock
	Updates []TimeBlock
	Deletes []string
}

// IsEmpty reports whether applying the batch would be a no-op.
func (m MutationBatch) IsEmpty() bool {
	return len(m.Creates) == 0 && len(m.Updates) == 0 && len(m.Deletes) == 0
}

// Merge appends other to m. Updates to ids that either batch deletes are
// dropped, and a later update to the same id replaces an earlier one.
func (m MutationBatch) Merge(other MutationBatch) MutationBatch {
	out := MutationBatch{
		Creates: append(append([]TimeBlock(nil), m.Creates...), other.Creates...),
		Deletes: append(append([]string(nil), m.Deletes...), other.Deletes...),
	}
	deleted := make(map[string]bool, len(out.Deletes))
	for _, id := range out.Deletes {
		deleted[id] = true
	}
	index := make(map[string]int)
	for _, u := range append(append([]TimeBlock(nil), m.Updates...), other.Updates...) {
		if deleted[u.ID] {
			continue
		}
		if i, ok := index[u.ID]; ok {
			out.Updates[i] = u
			continue
		}
		index[u.ID] = len(out.Updates)
		out.Updates = append(out.Updates, u)
	}
	return out
}

// Apply returns a new collection with the batch applied: deletes first,
// then updates by id, then creates appended in order. blocks is not
// modified.
func (m MutationBatch) Apply(blocks []TimeBlock) []TimeBlock {
	deleted := make(map[string]bool, len(m.Deletes))
	for _, id := range m.Deletes {
		deleted[id] = true
	}
	updates := make(map[string]TimeBlock, len(m.Updates))
	for _, u := range m.Updates {
		updates[u.ID] = u
	}

	out := make([]TimeBlock, 0, len(blocks)+len(m.Creates))
	for _, b := range blocks {
		if deleted[b.ID] {
			continue
		}
		if u, ok := updates[b.ID]; ok {
			b = u
		}
		out = append(out, b)
	}
	out = append(out, m.Creates...)
	return out
}

type IntentOp string

const (
	IntentCreate IntentOp = "create"
	IntentUpdate IntentOp = "update"
)

// MutationIntent is the single create or update produced by a completed
// pointer gesture.
type MutationIntent struct {
	Op    IntentOp
	Block TimeBlock
	// OpenEditor asks the caller to hand the new block to its editor, set
	// for tap-created blocks.
	OpenEditor bool
}

// Batch converts the intent into a one-entry MutationBatch.
func (i MutationIntent) Batch() MutationBatch {
	if i.Op == IntentCreate {
		return MutationBatch{Creates: []TimeBlock{i.Block}}
	}
	return MutationBatch{Updates: []TimeBlock{i.Block}}
}

// FindBlock returns the block with the given id.
func FindBlock(blocks []TimeBlock, id string) (TimeBlock, bool) {
	for _, b := range blocks {
		if b.ID == id {
			return b, true
		}
	}
	return TimeBlock{}, false
}

// RelatedTo returns the blocks whose RelatedPlanID equals planID.
func RelatedTo(blocks []TimeBlock, planID string) []TimeBlock {
	var out []TimeBlock
	for _, b := range blocks {
		if b.RelatedPlanID != "" && b.RelatedPlanID == planID {
			out = append(out, b)
		}
	}
	return out
}
