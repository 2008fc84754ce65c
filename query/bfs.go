package query

import "github.com/pedrodaniel10/wasmati/graph"

// bfsWalk is the shared breadth-first traversal behind BFS and BFSIncludes
// (spec §4.4). It starts from seeds, follows edges matching edgeCond —
// outgoing if reverse is false, incoming otherwise — and visits each
// reachable node at most once. A node is added to the result only if it
// satisfies pred, but every visited node (whether or not it satisfies pred)
// is still expanded into the next frontier: pred gates collection, not
// traversal. Traversal stops once limit nodes have been collected; limit == 0
// returns the empty set unconditionally (spec §4.4), and a negative limit is
// treated as unlimited (a documented extension, since the spec leaves
// anything other than 0 and a positive bound unspecified). includeSeeds
// decides whether seeds themselves are eligible for collection: false for
// BFS (seeds are never in the result), true for BFS_includes.
func bfsWalk(store *graph.Store, seeds []graph.NodeHandle, pred NodeCondition, edgeCond EdgeCondition, limit int, reverse, includeSeeds bool) NodeSet {
	out := NodeSet{store: store, seen: make(map[graph.NodeHandle]bool)}
	if limit == 0 {
		return out
	}

	collect := func(h graph.NodeHandle) bool {
		if pred(store, h) {
			out.add(h)
		}
		return limit < 0 || out.Len() < limit
	}

	visited := make(map[graph.NodeHandle]bool, len(seeds))
	frontier := make([]graph.NodeHandle, 0, len(seeds))
	for _, h := range seeds {
		if !visited[h] {
			visited[h] = true
			frontier = append(frontier, h)
		}
	}

	if includeSeeds {
		for _, h := range frontier {
			if !collect(h) {
				return out
			}
		}
	}

	for len(frontier) > 0 {
		var next []graph.NodeHandle
		for _, h := range frontier {
			var edges []graph.EdgeHandle
			if reverse {
				edges = store.InEdges(h, nil)
			} else {
				edges = store.OutEdges(h, nil)
			}
			for _, eh := range edges {
				e := store.Edge(eh)
				if !edgeCond(store, e) {
					continue
				}
				neighbor := e.Dest
				if reverse {
					neighbor = e.Src
				}
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				next = append(next, neighbor)
			}
		}
		for _, h := range next {
			if !collect(h) {
				return out
			}
		}
		frontier = next
	}

	return out
}

// BFS explores forward (or backward, if reverse) from every member of s
// along edges matching edgeCond, breadth-first, collecting nodes that
// satisfy pred until limit have been collected (spec §4.4). Seeds are never
// included in the result, even if they satisfy pred — use BFSIncludes for
// that. limit <= 0 is unlimited except limit == 0, which returns the empty
// set unconditionally. Traversal order is deterministic: seeds in s's order,
// then each frontier in adjacency-list insertion order.
func (s NodeSet) BFS(pred NodeCondition, edgeCond EdgeCondition, limit int, reverse bool) NodeSet {
	return bfsWalk(s.store, s.order, pred, edgeCond, limit, reverse, false)
}

// BFSIncludes is BFS, except seeds that satisfy pred are included in the
// result (spec §4.4): results always honour limit, counting included seeds
// against it the same as any other collected node.
func (s NodeSet) BFSIncludes(pred NodeCondition, edgeCond EdgeCondition, limit int, reverse bool) NodeSet {
	return bfsWalk(s.store, s.order, pred, edgeCond, limit, reverse, true)
}
