package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(v int32) *int32 {
	return &v
}

func TestBuildTreeOrdersSiblingsBySortOrder(t *testing.T) {
	records := []Menu{
		{ID: 1, ParentID: 0, SortOrder: order(2), Type: TypeDirectory},
		{ID: 2, ParentID: 0, SortOrder: order(1), Type: TypeDirectory},
		{ID: 3, ParentID: 2, SortOrder: order(1), Type: TypePage},
	}

	roots, orphans := BuildTree(records)
	require.Empty(t, orphans)
	require.Len(t, roots, 2)

	assert.Equal(t, int64(2), roots[0].ID)
	assert.Equal(t, int64(1), roots[1].ID)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, int64(3), roots[0].Children[0].ID)
	assert.Empty(t, roots[1].Children)
}

func TestBuildTreeKeepsOrphansAsRoots(t *testing.T) {
	records := []Menu{
		{ID: 1, ParentID: 0, SortOrder: order(1)},
		{ID: 5, ParentID: 999, SortOrder: order(2)},
		{ID: 6, ParentID: 5, SortOrder: order(1)},
	}

	roots, orphans := BuildTree(records)
	assert.Equal(t, []int64{5}, orphans)
	require.Len(t, roots, 2)

	// No node disappears: the orphan keeps its own children.
	total := 0
	var count func(nodes []*Node)
	count = func(nodes []*Node) {
		for _, n := range nodes {
			total++
			count(n.Children)
		}
	}
	count(roots)
	assert.Equal(t, len(records), total)
}

func TestBuildTreeNilSortOrderLast(t *testing.T) {
	records := []Menu{
		{ID: 1, ParentID: 0, SortOrder: nil},
		{ID: 2, ParentID: 0, SortOrder: order(5)},
		{ID: 3, ParentID: 0, SortOrder: nil},
	}

	roots, _ := BuildTree(records)
	require.Len(t, roots, 3)
	assert.Equal(t, int64(2), roots[0].ID)
	// Ties and nil keys keep input order.
	assert.Equal(t, int64(1), roots[1].ID)
	assert.Equal(t, int64(3), roots[2].ID)
}

func TestBuildTreeIsPureOverItsInput(t *testing.T) {
	records := []Menu{
		{ID: 2, ParentID: 1, SortOrder: order(1)},
		{ID: 1, ParentID: 0, SortOrder: order(1)},
	}

	first, _ := BuildTree(records)
	second, _ := BuildTree(records)

	assert.Equal(t, first, second)
	// Input order untouched.
	assert.Equal(t, int64(2), records[0].ID)
}

func TestBuildTreeSkipsZeroAndDuplicateIDs(t *testing.T) {
	records := []Menu{
		{ID: 0, ParentID: 0, SortOrder: order(1)},
		{ID: 1, ParentID: 0, SortOrder: order(1), Name: "first"},
		{ID: 1, ParentID: 0, SortOrder: order(2), Name: "second"},
	}

	roots, orphans := BuildTree(records)
	assert.Empty(t, orphans)
	require.Len(t, roots, 1)
	assert.Equal(t, "first", roots[0].Name)
}

func TestBuildTreeEmptyInput(t *testing.T) {
	roots, orphans := BuildTree(nil)
	assert.Nil(t, roots)
	assert.Nil(t, orphans)
}

func TestBuildTreeDeepNesting(t *testing.T) {
	records := []Menu{
		{ID: 1, ParentID: 0, SortOrder: order(1)},
		{ID: 2, ParentID: 1, SortOrder: order(1)},
		{ID: 3, ParentID: 2, SortOrder: order(2)},
		{ID: 4, ParentID: 2, SortOrder: order(1)},
	}

	roots, orphans := BuildTree(records)
	require.Empty(t, orphans)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 1)
	children := roots[0].Children[0].Children
	require.Len(t, children, 2)
	assert.Equal(t, int64(4), children[0].ID)
	assert.Equal(t, int64(3), children[1].ID)
}
