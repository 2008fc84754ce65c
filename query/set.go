// Package query implements the composable set-algebra query engine over a
// built graph.Store (spec §4.4): NodeSet/EdgeSet carry a handle list and a
// back-reference to the store they came from, so every operation reads
// straight from the arena instead of copying node data around.
package query

import "github.com/pedrodaniel10/wasmati/graph"

// NodeCondition tests a single node, given the store it lives in.
type NodeCondition func(store *graph.Store, h graph.NodeHandle) bool

// EdgeCondition tests a single edge; Children/Parents/BFS use it to decide
// which edges to traverse.
type EdgeCondition func(store *graph.Store, e graph.Edge) bool

// NodeMapFunc maps a single node to a NodeSet, for Map. Spec §4.4's map(nodes,
// f) allows f to be either node→node or node→NodeSet, unioning the results in
// the latter case; a node→node mapping is just the singleton-NodeSet case of
// this same shape.
type NodeMapFunc func(store *graph.Store, h graph.NodeHandle) NodeSet

// Standard edge conditions (spec §4.4): traverse everything, or restrict to
// one of the three superimposed relations.
var (
	AllEdges EdgeCondition = func(*graph.Store, graph.Edge) bool { return true }
	ASTEdges EdgeCondition = func(_ *graph.Store, e graph.Edge) bool { return e.Kind == graph.EdgeAST }
	CFGEdges EdgeCondition = func(_ *graph.Store, e graph.Edge) bool { return e.Kind == graph.EdgeCFG }
	PDGEdges EdgeCondition = func(_ *graph.Store, e graph.Edge) bool { return e.Kind == graph.EdgePDG }
)

// And, Or and Not compose NodeConditions, the way a filter chain is usually
// built up from smaller named predicates.
func And(conds ...NodeCondition) NodeCondition {
	return func(store *graph.Store, h graph.NodeHandle) bool {
		for _, c := range conds {
			if !c(store, h) {
				return false
			}
		}
		return true
	}
}

func Or(conds ...NodeCondition) NodeCondition {
	return func(store *graph.Store, h graph.NodeHandle) bool {
		for _, c := range conds {
			if c(store, h) {
				return true
			}
		}
		return false
	}
}

func Not(c NodeCondition) NodeCondition {
	return func(store *graph.Store, h graph.NodeHandle) bool { return !c(store, h) }
}

// AllNodes matches every node; the standard "no filter" NodeCondition for
// BFS/BFSIncludes callers that only care about reachability, not membership
// in a particular kind.
func AllNodes(*graph.Store, graph.NodeHandle) bool { return true }

// IsInstruction is the standard node condition matching graph.Node.IsInstruction.
func IsInstruction(store *graph.Store, h graph.NodeHandle) bool {
	return store.Node(h).IsInstruction()
}

// OfExpr matches Instruction vertices of one specific expression kind.
func OfExpr(kind graph.ExprKind) NodeCondition {
	return func(store *graph.Store, h graph.NodeHandle) bool {
		n := store.Node(h)
		return n.Kind == graph.KindInstruction && n.Expr == kind
	}
}

// OfKind matches vertices of one specific node kind.
func OfKind(kind graph.NodeKind) NodeCondition {
	return func(store *graph.Store, h graph.NodeHandle) bool { return store.Node(h).Kind == kind }
}

// NodeSet is an ordered, deduplicated collection of node handles plus the
// store they're resident in. The zero value is not usable; build one with
// NewNodeSet or All.
type NodeSet struct {
	store *graph.Store
	order []graph.NodeHandle
	seen  map[graph.NodeHandle]bool
}

// NewNodeSet builds a NodeSet from handles, preserving first-seen order and
// dropping duplicates.
func NewNodeSet(store *graph.Store, handles ...graph.NodeHandle) NodeSet {
	s := NodeSet{store: store, seen: make(map[graph.NodeHandle]bool, len(handles))}
	for _, h := range handles {
		s.add(h)
	}
	return s
}

// All returns a NodeSet of every node resident in store, in insertion order.
func All(store *graph.Store) NodeSet {
	return NewNodeSet(store, store.NodeHandles()...)
}

func (s *NodeSet) add(h graph.NodeHandle) {
	if s.seen == nil {
		s.seen = make(map[graph.NodeHandle]bool)
	}
	if !s.seen[h] {
		s.seen[h] = true
		s.order = append(s.order, h)
	}
}

// Handles returns the set's members in deterministic (first-seen) order.
func (s NodeSet) Handles() []graph.NodeHandle {
	out := make([]graph.NodeHandle, len(s.order))
	copy(out, s.order)
	return out
}

// Len reports the set's size.
func (s NodeSet) Len() int { return len(s.order) }

// Contains reports whether h is a member of s.
func (s NodeSet) Contains(h graph.NodeHandle) bool { return s.seen[h] }

// ContainsWhere reports whether s has a member satisfying cond — spec
// §4.4's contains(nodes, pred) → bool.
func (s NodeSet) ContainsWhere(cond NodeCondition) bool {
	for _, h := range s.order {
		if cond(s.store, h) {
			return true
		}
	}
	return false
}

// Filter returns the subset of s whose members satisfy cond.
func (s NodeSet) Filter(cond NodeCondition) NodeSet {
	out := NodeSet{store: s.store, seen: make(map[graph.NodeHandle]bool)}
	for _, h := range s.order {
		if cond(s.store, h) {
			out.add(h)
		}
	}
	return out
}

// Children returns the union, over every member of s, of the destinations
// of its out-edges matching cond. Order is: members of s in their own
// order, and within each member's children, AST/insertion order; duplicates
// across members collapse to first occurrence (spec §4.4 determinism).
func (s NodeSet) Children(cond EdgeCondition) NodeSet {
	out := NodeSet{store: s.store, seen: make(map[graph.NodeHandle]bool)}
	for _, h := range s.order {
		for _, eh := range s.store.OutEdges(h, nil) {
			e := s.store.Edge(eh)
			if cond(s.store, e) {
				out.add(e.Dest)
			}
		}
	}
	return out
}

// Parents is Children's dual over in-edges.
func (s NodeSet) Parents(cond EdgeCondition) NodeSet {
	out := NodeSet{store: s.store, seen: make(map[graph.NodeHandle]bool)}
	for _, h := range s.order {
		for _, eh := range s.store.InEdges(h, nil) {
			e := s.store.Edge(eh)
			if cond(s.store, e) {
				out.add(e.Src)
			}
		}
	}
	return out
}

// Edges collects every edge leaving a member of s that matches cond — the
// discovery step behind Children, exposed directly for callers that want
// the edges themselves (e.g. a branch's Label) rather than just the
// destinations.
func (s NodeSet) Edges(cond EdgeCondition) EdgeSet {
	out := EdgeSet{store: s.store}
	for _, h := range s.order {
		for _, eh := range s.store.OutEdges(h, nil) {
			if cond(s.store, s.store.Edge(eh)) {
				out.handles = append(out.handles, eh)
			}
		}
	}
	return out
}

// Union returns the deduplicated concatenation of s and other, s's members
// first.
func (s NodeSet) Union(other NodeSet) NodeSet {
	out := NodeSet{store: s.store, seen: make(map[graph.NodeHandle]bool)}
	for _, h := range s.order {
		out.add(h)
	}
	for _, h := range other.order {
		out.add(h)
	}
	return out
}

// Map applies f to every member of s, in order, and unions the results
// (spec §4.4's map(nodes, f)).
func (s NodeSet) Map(f NodeMapFunc) NodeSet {
	out := NodeSet{store: s.store, seen: make(map[graph.NodeHandle]bool)}
	for _, h := range s.order {
		mapped := f(s.store, h)
		for _, mh := range mapped.order {
			out.add(mh)
		}
	}
	return out
}

// EdgeSet is an ordered collection of edge handles plus the store they came
// from.
type EdgeSet struct {
	store   *graph.Store
	handles []graph.EdgeHandle
}

// Handles returns the set's members in order.
func (s EdgeSet) Handles() []graph.EdgeHandle {
	out := make([]graph.EdgeHandle, len(s.handles))
	copy(out, s.handles)
	return out
}

// Len reports the set's size.
func (s EdgeSet) Len() int { return len(s.handles) }

// Filter returns the subset of s whose members satisfy cond.
func (s EdgeSet) Filter(cond EdgeCondition) EdgeSet {
	out := EdgeSet{store: s.store}
	for _, h := range s.handles {
		if cond(s.store, s.store.Edge(h)) {
			out.handles = append(out.handles, h)
		}
	}
	return out
}

// ContainsEdge reports whether h is a member of s.
func (s EdgeSet) ContainsEdge(h graph.EdgeHandle) bool {
	for _, m := range s.handles {
		if m == h {
			return true
		}
	}
	return false
}

// ContainsEdgeWhere reports whether s has a member satisfying cond — spec
// §4.4's contains_edge(edges, edge_cond) → bool.
func (s EdgeSet) ContainsEdgeWhere(cond EdgeCondition) bool {
	for _, h := range s.handles {
		if cond(s.store, s.store.Edge(h)) {
			return true
		}
	}
	return false
}

// Dests returns the (deduplicated) destination nodes of every edge in s.
func (s EdgeSet) Dests() NodeSet {
	out := NodeSet{store: s.store, seen: make(map[graph.NodeHandle]bool)}
	for _, h := range s.handles {
		out.add(s.store.Edge(h).Dest)
	}
	return out
}
