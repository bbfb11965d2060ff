package design

import (
	"sync"

	"github.com/orqa-labs/characterization-framework/circuit"
)

// CircuitSet is the read-only view of a circuit pool handed to the execution
// and persistence boundaries.
type CircuitSet interface {
	// Get returns the circuit with the given content ID.
	Get(id circuit.ID) (*circuit.Circuit, bool)
	// Size returns the number of distinct circuits.
	Size() int
	// IDs returns the circuit IDs in first-insertion order.
	IDs() []circuit.ID
	// Circuits returns the circuits in first-insertion order.
	Circuits() []*circuit.Circuit
}

// Pool is the deduplicated flat set of circuits reachable from a design
// tree. Circuits are content-addressed: identical content sampled by two
// children is stored once. The pool is append-only while the tree is being
// built; Seal returns the read-only view used from then on.
type Pool struct {
	mu    sync.Mutex
	byID  map[circuit.ID]*circuit.Circuit
	order []circuit.ID
}

var _ CircuitSet = &sealedPool{}

// NewPool creates an empty mutable pool.
func NewPool() *Pool {
	return &Pool{byID: make(map[circuit.ID]*circuit.Circuit)}
}

// Add inserts the circuit if its content is not already present and returns
// its canonical ID.
func (p *Pool) Add(c *circuit.Circuit) circuit.ID {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := c.ID()
	if _, ok := p.byID[id]; !ok {
		p.byID[id] = c
		p.order = append(p.order, id)
	}

	return id
}

// Get returns the circuit with the given content ID.
func (p *Pool) Get(id circuit.ID) (*circuit.Circuit, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.byID[id]

	return c, ok
}

// Size returns the number of distinct circuits.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.order)
}

// Seal returns the read-only view of the pool. Further Adds to the Pool are
// not reflected in previously sealed views' ordering guarantees and indicate
// a construction bug; designs seal their pool at construction time.
func (p *Pool) Seal() CircuitSet {
	p.mu.Lock()
	defer p.mu.Unlock()

	byID := make(map[circuit.ID]*circuit.Circuit, len(p.byID))
	for id, c := range p.byID {
		byID[id] = c
	}

	return &sealedPool{
		byID:  byID,
		order: append([]circuit.ID(nil), p.order...),
	}
}

type sealedPool struct {
	byID  map[circuit.ID]*circuit.Circuit
	order []circuit.ID
}

func (s *sealedPool) Get(id circuit.ID) (*circuit.Circuit, bool) {
	c, ok := s.byID[id]

	return c, ok
}

func (s *sealedPool) Size() int { return len(s.order) }

func (s *sealedPool) IDs() []circuit.ID {
	return append([]circuit.ID(nil), s.order...)
}

func (s *sealedPool) Circuits() []*circuit.Circuit {
	out := make([]*circuit.Circuit, len(s.order))
	for i, id := range s.order {
		out[i] = s.byID[id]
	}

	return out
}
