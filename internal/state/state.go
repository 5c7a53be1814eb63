package state

import (
	"go.uber.org/zap"

	"promptmap/internal/domain"
	"promptmap/internal/tree"
)

// Session holds everything tied to one scan: the immutable node set,
// the tri-state selection, the expansion set and the cursor. A new scan
// replaces all of it; expansion and selection never survive a rescan.
type Session struct {
	RootPath  string
	Nodes     []domain.TreeNode
	Selection *Selection
	Expanded  map[string]bool
	Cursor    int
	Options   tree.FormatOptions
	TokenCap  uint64

	index     map[string]int
	aggSize   map[string]uint64
	aggTokens map[string]uint64
	logger    *zap.Logger
}

func NewSession(options tree.FormatOptions, tokenCap uint64, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		Selection: NewSelection(nil, logger),
		Expanded:  make(map[string]bool),
		Options:   options,
		TokenCap:  tokenCap,
		index:     make(map[string]int),
		aggSize:   make(map[string]uint64),
		aggTokens: make(map[string]uint64),
		logger:    logger,
	}
}

// ApplyScan replaces the session state wholesale with a fresh scan
// result. The selection resets to all-unchecked and the expansion set
// empties.
func (session *Session) ApplyScan(result domain.ScanResult) {
	session.RootPath = result.RootPath
	session.Nodes = domain.BuildNodes(result.Files)
	session.index = domain.IndexNodes(session.Nodes)
	session.Selection.Reinitialize(session.Nodes, nil)
	session.Expanded = make(map[string]bool)
	session.Cursor = 0
	session.recomputeAggregates()
	session.logger.Debug("scan applied",
		zap.String("root", result.RootPath),
		zap.Int("nodes", len(session.Nodes)))
}

func (session *Session) Node(id string) (domain.TreeNode, bool) {
	position, ok := session.index[id]
	if !ok {
		return domain.TreeNode{}, false
	}
	return session.Nodes[position], true
}

// IsVisible reports whether a node is currently on screen: top-level
// nodes always are; any other node needs a parent that exists, is
// expanded, and is visible itself. Orphans fail closed.
func (session *Session) IsVisible(id string) bool {
	node, ok := session.Node(id)
	if !ok {
		return false
	}
	if node.Level == 0 {
		return true
	}
	parent, ok := session.Node(node.ParentID)
	if !ok {
		return false
	}
	return session.Expanded[parent.ID] && session.IsVisible(parent.ID)
}

// ToggleExpanded flips a single directory's expansion membership and
// returns the new value. Descendant expansion state is untouched.
func (session *Session) ToggleExpanded(id string) bool {
	node, ok := session.Node(id)
	if !ok || !node.IsDirectory {
		return false
	}
	if session.Expanded[id] {
		delete(session.Expanded, id)
		return false
	}
	session.Expanded[id] = true
	return true
}

func (session *Session) ExpandAll() {
	for _, node := range session.Nodes {
		if node.IsDirectory {
			session.Expanded[node.ID] = true
		}
	}
}

func (session *Session) CollapseAll() {
	session.Expanded = make(map[string]bool)
}

func (session *Session) IsExpanded(id string) bool {
	return session.Expanded[id]
}

// VisibleNode pairs a node with its indentation depth for rendering.
type VisibleNode struct {
	Node  domain.TreeNode
	Depth int
}

// VisibleNodes derives the current display list: a depth-first walk
// over the top-level nodes, descending only into expanded directories,
// siblings ordered by the session's sort options.
func (session *Session) VisibleNodes() []VisibleNode {
	visible := make([]VisibleNode, 0, len(session.Nodes))
	for _, position := range session.sortedChildren("") {
		session.appendVisible(&visible, position, 0)
	}
	return visible
}

func (session *Session) appendVisible(visible *[]VisibleNode, position, depth int) {
	node := session.Nodes[position]
	*visible = append(*visible, VisibleNode{Node: node, Depth: depth})
	if !node.IsDirectory || !session.Expanded[node.ID] {
		return
	}
	for _, child := range session.sortedChildren(node.ID) {
		session.appendVisible(visible, child, depth+1)
	}
}

// sortedChildren returns the positions of parentID's direct children
// ("" for the top level) in display order: directories first when
// configured, then the configured key, ties kept in node order.
func (session *Session) sortedChildren(parentID string) []int {
	var children []int
	for position, node := range session.Nodes {
		if node.ParentID == parentID {
			children = append(children, position)
		}
	}
	if len(children) < 2 {
		return children
	}
	sortPositionsStable(children, func(i, j int) bool {
		left, right := session.Nodes[i], session.Nodes[j]
		if session.Options.SortDirectoriesFirst && left.IsDirectory != right.IsDirectory {
			return left.IsDirectory
		}
		var less, equal bool
		switch session.Options.SortBy {
		case domain.SortBySize:
			l, r := session.aggSize[left.ID], session.aggSize[right.ID]
			less, equal = l < r, l == r
		case domain.SortByTokens:
			l, r := session.aggTokens[left.ID], session.aggTokens[right.ID]
			less, equal = l < r, l == r
		default:
			less, equal = left.Name < right.Name, left.Name == right.Name
		}
		if equal {
			return false
		}
		if session.Options.SortDirection == domain.SortDesc {
			return !less
		}
		return less
	})
	return children
}

// CurrentNode resolves the cursor against the visible list.
func (session *Session) CurrentNode() (domain.TreeNode, bool) {
	visible := session.VisibleNodes()
	if len(visible) == 0 {
		return domain.TreeNode{}, false
	}
	if session.Cursor < 0 || session.Cursor >= len(visible) {
		return domain.TreeNode{}, false
	}
	return visible[session.Cursor].Node, true
}

// ClampCursor keeps the cursor inside the visible list after expansion
// or sort changes shrink it.
func (session *Session) ClampCursor() {
	visible := len(session.VisibleNodes())
	if visible == 0 {
		session.Cursor = 0
		return
	}
	if session.Cursor >= visible {
		session.Cursor = visible - 1
	}
	if session.Cursor < 0 {
		session.Cursor = 0
	}
}

// ToggleVisibleSelection applies the ratio-based bulk toggle over the
// nodes currently on screen.
func (session *Session) ToggleVisibleSelection() {
	visible := session.VisibleNodes()
	ids := make([]string, 0, len(visible))
	for _, item := range visible {
		ids = append(ids, item.Node.ID)
	}
	session.Selection.ToggleVisible(ids)
}

// SelectionSummary totals the checked, non-skipped files.
func (session *Session) SelectionSummary() (count int, size, tokens uint64) {
	for _, node := range session.Nodes {
		if node.IsDirectory || node.IsSkipped {
			continue
		}
		if session.Selection.State(node.ID) == domain.Checked {
			count++
			size += node.Size
			tokens += node.TokenEstimate
		}
	}
	return count, size, tokens
}

// NodeSize returns the display size: aggregate subtree bytes for
// directories, own bytes for files.
func (session *Session) NodeSize(id string) uint64 {
	return session.aggSize[id]
}

func (session *Session) NodeTokens(id string) uint64 {
	return session.aggTokens[id]
}

func (session *Session) recomputeAggregates() {
	session.aggSize = make(map[string]uint64, len(session.Nodes))
	session.aggTokens = make(map[string]uint64, len(session.Nodes))
	for _, node := range session.Nodes {
		if node.IsDirectory {
			continue
		}
		session.aggSize[node.ID] = node.Size
		session.aggTokens[node.ID] = node.TokenEstimate
		parent := node.ParentID
		for parent != "" {
			parentNode, ok := session.Node(parent)
			if !ok {
				break
			}
			session.aggSize[parent] += node.Size
			session.aggTokens[parent] += node.TokenEstimate
			parent = parentNode.ParentID
		}
	}
}

// insertion sort; keeps ties in input order without allocating a
// comparator-wrapped slice
func sortPositionsStable(positions []int, less func(i, j int) bool) {
	for i := 1; i < len(positions); i++ {
		for j := i; j > 0 && less(positions[j], positions[j-1]); j-- {
			positions[j], positions[j-1] = positions[j-1], positions[j]
		}
	}
}
