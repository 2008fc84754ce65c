package graph

import (
	"fmt"

	"github.com/google/uuid"
)

// Store owns every node and every edge for one analysis session (spec §3.3,
// §4.1). Nodes and edges live in append-only arenas; everything else in the
// package references them by handle, never by pointer, so cyclic structural
// references (BeginBlock → Block) and CFG cycles (loops) are ordinary data,
// not a lifetime problem.
//
// Construction on a Store is single-threaded and non-reentrant (spec §5).
// Once construction finishes, concurrent read-only queries against the same
// Store are safe because no query mutates the arenas or adjacency lists.
type Store struct {
	// SessionID tags this build for correlation in shared logs (see the
	// progress package), the way a long-running service tags a request.
	SessionID uuid.UUID

	nodes []Node
	edges []Edge

	outAdj [][]EdgeHandle // outAdj[n] = out-edges of node n, insertion order
	inAdj  [][]EdgeHandle // inAdj[n]  = in-edges of node n, insertion order

	module NodeHandle
	trap   NodeHandle
	start  NodeHandle
}

// NewStore creates an empty store ready for population.
func NewStore() *Store {
	return &Store{
		SessionID: uuid.New(),
		module:    InvalidHandle,
		trap:      InvalidHandle,
		start:     InvalidHandle,
	}
}

// InsertNode appends a node and assigns it a fresh monotonic handle. There is
// no validation beyond the kind/attribute well-formedness the caller already
// guarantees by construction.
func (s *Store) InsertNode(n Node) NodeHandle {
	h := NodeHandle(len(s.nodes))
	s.nodes = append(s.nodes, n)
	s.outAdj = append(s.outAdj, nil)
	s.inAdj = append(s.inAdj, nil)
	if n.Kind == KindModule {
		s.module = h
	}
	return h
}

// Node returns the node at h. Panics on an out-of-range handle: a caller
// holding a handle that isn't resident in this store is an invariant
// violation, not a recoverable condition (spec §3.4 invariant 1).
func (s *Store) Node(h NodeHandle) Node {
	return s.nodes[h]
}

// NodeHandles returns every resident node handle, in insertion order.
func (s *Store) NodeHandles() []NodeHandle {
	out := make([]NodeHandle, len(s.nodes))
	for i := range out {
		out[i] = NodeHandle(i)
	}
	return out
}

// NumNodes reports the number of resident nodes.
func (s *Store) NumNodes() int { return len(s.nodes) }

// resident reports whether h refers to a live node in this store.
func (s *Store) resident(h NodeHandle) bool {
	return h >= 0 && int(h) < len(s.nodes)
}

// InsertEdge appends an edge between two already-resident endpoints and
// updates both endpoints' adjacency lists. Duplicate edges (same source,
// dest, and kind) are permitted: they are semantically distinct whenever
// their attributes differ, and the store does not suppress them.
func (s *Store) InsertEdge(e Edge) (EdgeHandle, error) {
	if !s.resident(e.Src) || !s.resident(e.Dest) {
		return InvalidEdgeHandle, fmt.Errorf("%w: edge endpoint not resident in store (src=%d dest=%d)", ErrInvariant, e.Src, e.Dest)
	}
	h := EdgeHandle(len(s.edges))
	s.edges = append(s.edges, e)
	s.outAdj[e.Src] = append(s.outAdj[e.Src], h)
	s.inAdj[e.Dest] = append(s.inAdj[e.Dest], h)
	return h, nil
}

// MustInsertEdge is InsertEdge for callers (the AST builder, the CFG
// visitor) that have already established both endpoints are resident and
// treat a failure here as a bug, not a recoverable condition.
func (s *Store) MustInsertEdge(e Edge) EdgeHandle {
	h, err := s.InsertEdge(e)
	if err != nil {
		panic(err)
	}
	return h
}

// Edge returns the edge at h.
func (s *Store) Edge(h EdgeHandle) Edge {
	return s.edges[h]
}

// OutEdges returns the out-edges of node in insertion order, optionally
// filtered to a single edge kind.
func (s *Store) OutEdges(node NodeHandle, kind *EdgeKind) []EdgeHandle {
	return filterAdj(s.outAdj[node], s.edges, kind)
}

// InEdges returns the in-edges of node in insertion order, optionally
// filtered to a single edge kind.
func (s *Store) InEdges(node NodeHandle, kind *EdgeKind) []EdgeHandle {
	return filterAdj(s.inAdj[node], s.edges, kind)
}

func filterAdj(adj []EdgeHandle, edges []Edge, kind *EdgeKind) []EdgeHandle {
	if kind == nil {
		out := make([]EdgeHandle, len(adj))
		copy(out, adj)
		return out
	}
	out := make([]EdgeHandle, 0, len(adj))
	for _, h := range adj {
		if edges[h].Kind == *kind {
			out = append(out, h)
		}
	}
	return out
}

// Child returns the index-th child of node restricted to kind, by the
// destination of its index-th matching out-edge. AST children are ordered
// by insertion, so index 0 is always the first child built (spec §3.2).
func (s *Store) Child(node NodeHandle, index int, kind EdgeKind) (NodeHandle, error) {
	edges := s.OutEdges(node, &kind)
	if index < 0 || index >= len(edges) {
		return InvalidHandle, fmt.Errorf("%w: child index %d out of range (have %d)", ErrQueryMisuse, index, len(edges))
	}
	return s.edges[edges[index]].Dest, nil
}

// Parent is the dual of Child over in-edges.
func (s *Store) Parent(node NodeHandle, index int, kind EdgeKind) (NodeHandle, error) {
	edges := s.InEdges(node, &kind)
	if index < 0 || index >= len(edges) {
		return InvalidHandle, fmt.Errorf("%w: parent index %d out of range (have %d)", ErrQueryMisuse, index, len(edges))
	}
	return s.edges[edges[index]].Src, nil
}

// Trap returns the graph-global Trap singleton, creating it on first use.
func (s *Store) Trap() NodeHandle {
	if s.trap == InvalidHandle {
		s.trap = s.InsertNode(Node{Kind: KindTrap})
	}
	return s.trap
}

// Start returns the graph-global Start singleton, creating it on first use.
func (s *Store) Start() NodeHandle {
	if s.start == InvalidHandle {
		s.start = s.InsertNode(Node{Kind: KindStart})
	}
	return s.start
}

// Module returns the Module vertex registered by the AST builder. Calling
// it before a Module has been inserted is query misuse (spec §7).
func (s *Store) Module() (NodeHandle, error) {
	if s.module == InvalidHandle {
		return InvalidHandle, fmt.Errorf("%w: Module() called before a Module vertex was registered", ErrQueryMisuse)
	}
	return s.module, nil
}
