package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptmap/internal/domain"
	"promptmap/internal/tree"
)

func fixtureSession() *Session {
	session := NewSession(tree.DefaultOptions(), 1000, nil)
	session.ApplyScan(domain.ScanResult{
		RootPath: "/proj",
		Files: []domain.FileDescriptor{
			{RelativePath: "a.txt", Size: 100, TokenEstimate: 25},
			{RelativePath: "dir1", IsDirectory: true},
			{RelativePath: "dir1/x.ts", Size: 400, TokenEstimate: 100},
			{RelativePath: "dir1/sub", IsDirectory: true},
			{RelativePath: "dir1/sub/z.md", Size: 40, TokenEstimate: 10},
		},
	})
	return session
}

func TestVisibilityFailsClosed(t *testing.T) {
	session := fixtureSession()

	assert.True(t, session.IsVisible("a.txt"))
	assert.True(t, session.IsVisible("dir1"))
	assert.False(t, session.IsVisible("dir1/x.ts"), "collapsed parent hides children")
	assert.False(t, session.IsVisible("dir1/sub/z.md"))
	assert.False(t, session.IsVisible("no/such/node"))

	session.ToggleExpanded("dir1")
	assert.True(t, session.IsVisible("dir1/x.ts"))
	assert.True(t, session.IsVisible("dir1/sub"))
	assert.False(t, session.IsVisible("dir1/sub/z.md"), "grandparent expansion is not enough")

	session.ToggleExpanded("dir1/sub")
	assert.True(t, session.IsVisible("dir1/sub/z.md"))

	session.ToggleExpanded("dir1")
	assert.False(t, session.IsVisible("dir1/sub/z.md"), "collapsed ancestor hides the chain")
}

func TestOrphanNodesNeverVisible(t *testing.T) {
	session := NewSession(tree.DefaultOptions(), 0, nil)
	session.ApplyScan(domain.ScanResult{
		Files: []domain.FileDescriptor{
			{RelativePath: "ghost/file.go"},
		},
	})
	assert.False(t, session.IsVisible("ghost/file.go"))
	assert.Empty(t, session.VisibleNodes())
}

func TestToggleExpandedOnlyDirectories(t *testing.T) {
	session := fixtureSession()
	assert.False(t, session.ToggleExpanded("a.txt"))
	assert.False(t, session.IsExpanded("a.txt"))

	assert.True(t, session.ToggleExpanded("dir1"))
	assert.False(t, session.ToggleExpanded("dir1"))
	assert.False(t, session.IsExpanded("dir1"))
}

func TestExpandAllCollapseAll(t *testing.T) {
	session := fixtureSession()
	session.ExpandAll()
	assert.True(t, session.IsExpanded("dir1"))
	assert.True(t, session.IsExpanded("dir1/sub"))
	assert.True(t, session.IsVisible("dir1/sub/z.md"))

	session.CollapseAll()
	assert.False(t, session.IsExpanded("dir1"))
	assert.False(t, session.IsVisible("dir1/x.ts"))
}

func TestVisibleNodesOrder(t *testing.T) {
	session := fixtureSession()
	session.ExpandAll()

	visible := session.VisibleNodes()
	ids := make([]string, 0, len(visible))
	for _, item := range visible {
		ids = append(ids, item.Node.ID)
	}
	// directories first at each level, then names ascending
	assert.Equal(t, []string{"dir1", "dir1/sub", "dir1/sub/z.md", "dir1/x.ts", "a.txt"}, ids)

	depths := make([]int, 0, len(visible))
	for _, item := range visible {
		depths = append(depths, item.Depth)
	}
	assert.Equal(t, []int{0, 1, 2, 1, 0}, depths)
}

func TestApplyScanResetsSelectionAndExpansion(t *testing.T) {
	session := fixtureSession()
	session.ExpandAll()
	session.Selection.SelectAll()
	session.Cursor = 3

	session.ApplyScan(domain.ScanResult{
		Files: []domain.FileDescriptor{{RelativePath: "other.txt"}},
	})
	assert.Empty(t, session.Selection.SelectedIDs())
	assert.Empty(t, session.Expanded)
	assert.Equal(t, 0, session.Cursor)
	require.Len(t, session.Nodes, 1)
}

func TestSelectionSummaryAndAggregates(t *testing.T) {
	session := fixtureSession()
	session.Selection.Toggle("dir1")

	count, size, tokens := session.SelectionSummary()
	assert.Equal(t, 2, count)
	assert.Equal(t, uint64(440), size)
	assert.Equal(t, uint64(110), tokens)

	assert.Equal(t, uint64(440), session.NodeSize("dir1"))
	assert.Equal(t, uint64(40), session.NodeSize("dir1/sub"))
	assert.Equal(t, uint64(110), session.NodeTokens("dir1"))
}

func TestToggleVisibleSelectionUsesDisplayList(t *testing.T) {
	session := fixtureSession()

	// collapsed: only a.txt and dir1 visible; nothing checked yet
	session.ToggleVisibleSelection()
	assert.Equal(t, domain.Checked, session.Selection.State("a.txt"))
	assert.Equal(t, domain.Checked, session.Selection.State("dir1"))
	assert.Equal(t, domain.Checked, session.Selection.State("dir1/sub/z.md"))
}
