package menu

import "sort"

// BuildTree assembles flat records into a forest of root nodes.
//
// Records are pre-sorted by SortOrder ascending with missing sort keys last,
// which fixes sibling insertion order. ParentID zero marks a root. A record
// whose parent is absent from the input is kept as a root instead of being
// dropped; its id is reported in orphans so the caller can log the anomaly.
// Parent lookup only ever consults the static index, so the result is
// finite and acyclic regardless of input.
func BuildTree(records []Menu) (roots []*Node, orphans []int64) {
	if len(records) == 0 {
		return nil, nil
	}

	sorted := make([]Menu, len(records))
	copy(sorted, records)
	sortMenus(sorted)

	index := make(map[int64]*Node, len(sorted))
	nodes := make([]*Node, 0, len(sorted))
	for _, record := range sorted {
		if record.ID == 0 {
			// Zero is the root sentinel, never a valid id.
			continue
		}
		if _, dup := index[record.ID]; dup {
			continue
		}
		node := &Node{Menu: record, Children: []*Node{}}
		index[record.ID] = node
		nodes = append(nodes, node)
	}

	for _, node := range nodes {
		if node.ParentID == 0 {
			roots = append(roots, node)
			continue
		}
		parent, ok := index[node.ParentID]
		if !ok {
			orphans = append(orphans, node.ID)
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	// Children were appended in discovery order; when a parent sorts after
	// some of its children the appended order is already correct, but a
	// final recursive pass guarantees it at every level.
	for _, root := range roots {
		sortChildrenRecursively(root)
	}
	return roots, orphans
}

func sortChildrenRecursively(node *Node) {
	if len(node.Children) == 0 {
		return
	}
	sort.SliceStable(node.Children, func(i, j int) bool {
		return lessBySortOrder(node.Children[i].SortOrder, node.Children[j].SortOrder)
	})
	for _, child := range node.Children {
		sortChildrenRecursively(child)
	}
}

func sortMenus(records []Menu) {
	sort.SliceStable(records, func(i, j int) bool {
		return lessBySortOrder(records[i].SortOrder, records[j].SortOrder)
	})
}

// lessBySortOrder orders ascending with nil keys last.
func lessBySortOrder(a, b *int32) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}
