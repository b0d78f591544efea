package lattice

import "slices"

// queueItem pairs a concept ID with the parent it was reached from.
type queueItem struct {
	id     string
	parent string
}

// ShortestPath returns the IDs on a shortest path between two concepts,
// treating links as undirected. Because breadth-first search explores by
// increasing path length, the first path found is a shortest one. The result
// is empty if either endpoint is unknown or no path exists; a path from a
// concept to itself is that single concept.
func ShortestPath(l *Lattice, startID, endID string) []string {
	start, ok := l.Resolve(startID)
	if !ok {
		return []string{}
	}
	end, ok := l.Resolve(endID)
	if !ok {
		return []string{}
	}

	adjacency := make(map[string][]string, len(l.concepts))
	for _, e := range l.ResolvedLinks() {
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		adjacency[e.Target] = append(adjacency[e.Target], e.Source)
	}

	parent := make(map[string]string, len(l.concepts))
	visited := map[string]bool{start: true}
	queue := []queueItem{{id: start}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if item.parent != "" {
			parent[item.id] = item.parent
		}
		if item.id == end {
			return walkBack(parent, start, end)
		}
		for _, nbr := range adjacency[item.id] {
			if !visited[nbr] {
				visited[nbr] = true
				queue = append(queue, queueItem{id: nbr, parent: item.id})
			}
		}
	}
	return []string{}
}

func walkBack(parent map[string]string, start, end string) []string {
	path := []string{end}
	for cur := end; cur != start; {
		cur = parent[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}
