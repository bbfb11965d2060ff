package dataset

import (
	"sync"

	"github.com/orqa-labs/characterization-framework/circuit"
)

// MemoryDataset is the in-memory mutable outcome store populated from the
// execution or persistence boundary. Seal it before reconstruction.
type MemoryDataset struct {
	mu     sync.Mutex
	counts map[circuit.ID]OutcomeCounts
	order  []circuit.ID
}

var _ Dataset = &sealedDataset{}

// NewMemoryDataset creates an empty MemoryDataset.
func NewMemoryDataset() *MemoryDataset {
	return &MemoryDataset{counts: make(map[circuit.ID]OutcomeCounts)}
}

// Upsert merges outcome counts for a circuit into the store, summing with
// any counts already recorded for the same circuit.
func (d *MemoryDataset) Upsert(id circuit.ID, counts OutcomeCounts) {
	d.mu.Lock()
	defer d.mu.Unlock()

	existing, ok := d.counts[id]
	if !ok {
		d.counts[id] = counts.Clone()
		d.order = append(d.order, id)

		return
	}
	for outcome, n := range counts {
		existing[outcome] += n
	}
}

// Delete removes the outcome counts for a circuit, if present.
func (d *MemoryDataset) Delete(id circuit.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.counts[id]; !ok {
		return
	}
	delete(d.counts, id)
	for i, oid := range d.order {
		if oid == id {
			d.order = append(d.order[:i], d.order[i+1:]...)

			break
		}
	}
}

// Seal returns the read-only Dataset view consumed by reconstruction.
func (d *MemoryDataset) Seal() Dataset {
	d.mu.Lock()
	defer d.mu.Unlock()

	counts := make(map[circuit.ID]OutcomeCounts, len(d.counts))
	for id, oc := range d.counts {
		counts[id] = oc.Clone()
	}

	return &sealedDataset{
		counts: counts,
		order:  append([]circuit.ID(nil), d.order...),
	}
}

type sealedDataset struct {
	counts map[circuit.ID]OutcomeCounts
	order  []circuit.ID
}

func (s *sealedDataset) Counts(id circuit.ID) (OutcomeCounts, bool) {
	oc, ok := s.counts[id]
	if !ok {
		return nil, false
	}

	return oc.Clone(), true
}

func (s *sealedDataset) Has(id circuit.ID) bool {
	_, ok := s.counts[id]

	return ok
}

func (s *sealedDataset) Size() int { return len(s.order) }

func (s *sealedDataset) IDs() []circuit.ID {
	return append([]circuit.ID(nil), s.order...)
}
