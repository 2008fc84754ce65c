package cfg

import "github.com/pedrodaniel10/wasmati/graph"

// DeriveControlDependencies adds one PDG/Control edge for every CFG edge
// already in store, mirroring the control-flow relation directly onto the
// PDG (spec §9 Open Question — only the control-dependency slice of PDG
// generation is implemented; data-flow-derived PDG edges are out of scope).
// It is safe to call at most once per store: calling it twice doubles every
// control-dependency edge.
func DeriveControlDependencies(store *graph.Store) {
	cfgKind := graph.EdgeCFG
	for _, n := range store.NodeHandles() {
		for _, eh := range store.OutEdges(n, &cfgKind) {
			e := store.Edge(eh)
			store.MustInsertEdge(graph.Edge{
				Src:     e.Src,
				Dest:    e.Dest,
				Kind:    graph.EdgePDG,
				Label:   e.Label,
				PDGKind: graph.PDGControl,
			})
		}
	}
}
