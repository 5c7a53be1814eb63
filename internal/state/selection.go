package state

import (
	"sort"

	"go.uber.org/zap"

	"promptmap/internal/domain"
)

// Selection is the tri-state checkbox state machine. Check states live
// in a map keyed by node id, separate from the node objects; parent and
// child relationships are resolved through ParentID lookups on an
// immutable node snapshot. Every mutating operation recomputes ancestor
// states bottom-up, walking unconditionally to the root.
//
// Descendant sets are derived by walking ParentID chains rather than
// cached child pointers, so a mutation costs O(depth) and a bulk
// operation O(n*depth). Correctness of the full ancestor refresh takes
// priority over incremental diffing here.
type Selection struct {
	states map[string]domain.CheckState
	nodes  []domain.TreeNode
	index  map[string]int
	logger *zap.Logger
}

func NewSelection(nodes []domain.TreeNode, logger *zap.Logger) *Selection {
	if logger == nil {
		logger = zap.NewNop()
	}
	selection := &Selection{logger: logger}
	selection.Reinitialize(nodes, nil)
	return selection
}

// State reads one node's check state; unknown ids are Unchecked.
func (selection *Selection) State(id string) domain.CheckState {
	if state, ok := selection.states[id]; ok {
		return state
	}
	return domain.Unchecked
}

// States returns a copy of the full id -> state table.
func (selection *Selection) States() map[string]domain.CheckState {
	snapshot := make(map[string]domain.CheckState, len(selection.states))
	for id, state := range selection.states {
		snapshot[id] = state
	}
	return snapshot
}

// SelectedIDs returns the ids currently Checked, sorted for determinism.
func (selection *Selection) SelectedIDs() []string {
	ids := make([]string, 0, len(selection.states))
	for id, state := range selection.states {
		if state == domain.Checked {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// SelectedNodes returns the checked nodes in node-set order.
func (selection *Selection) SelectedNodes() []domain.TreeNode {
	var nodes []domain.TreeNode
	for _, node := range selection.nodes {
		if selection.State(node.ID) == domain.Checked {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// Toggle flips a non-skipped node between Checked and Unchecked. For a
// directory the new state is forced onto every non-skipped descendant,
// then ancestors are recomputed up to the root. Unknown ids and skipped
// nodes are ignored.
func (selection *Selection) Toggle(id string) {
	node, ok := selection.lookup(id)
	if !ok || node.IsSkipped {
		return
	}
	next := domain.Checked
	if selection.State(id) == domain.Checked {
		next = domain.Unchecked
	}
	selection.logger.Debug("toggle", zap.String("id", id), zap.String("next", string(next)))
	selection.apply(node, next)
}

// Set drives a node to an explicit state with the same cascade as
// Toggle. A no-op when the node already holds the target state.
func (selection *Selection) Set(id string, target domain.CheckState) {
	node, ok := selection.lookup(id)
	if !ok || node.IsSkipped {
		return
	}
	if selection.State(id) == target {
		return
	}
	selection.logger.Debug("set", zap.String("id", id), zap.String("state", string(target)))
	selection.apply(node, target)
}

func (selection *Selection) apply(node domain.TreeNode, target domain.CheckState) {
	selection.states[node.ID] = target
	if node.IsDirectory {
		for _, descendant := range selection.nodes {
			if descendant.IsSkipped || descendant.ID == node.ID {
				continue
			}
			if selection.hasAncestor(descendant.ID, node.ID) {
				selection.states[descendant.ID] = target
			}
		}
	}
	selection.updateAncestors(node.ParentID)
}

// SelectAll checks every non-skipped node and unchecks every skipped
// one. A directory with no non-skipped direct children keeps its prior
// state: cascade alone never drives an empty directory to Checked. The
// asymmetry with DeselectAll is intentional and characterized in tests.
func (selection *Selection) SelectAll() {
	for _, node := range selection.nodes {
		switch {
		case node.IsSkipped:
			selection.states[node.ID] = domain.Unchecked
		case !node.IsDirectory:
			selection.states[node.ID] = domain.Checked
		case selection.countNonSkippedChildren(node.ID) > 0:
			selection.states[node.ID] = domain.Checked
		}
	}
	selection.logger.Debug("select all", zap.Int("nodes", len(selection.nodes)))
}

// DeselectAll unchecks every node unconditionally.
func (selection *Selection) DeselectAll() {
	for _, node := range selection.nodes {
		selection.states[node.ID] = domain.Unchecked
	}
	selection.logger.Debug("deselect all", zap.Int("nodes", len(selection.nodes)))
}

// ToggleVisible bulk-toggles the given node ids. The direction is
// decided by the checked ratio over the visible non-skipped files: more
// than half checked deselects them all, otherwise everything is
// selected (ties select). Directories in the visible set receive the
// same state along with their full descendant subtrees.
func (selection *Selection) ToggleVisible(visibleIDs []string) {
	var files []domain.TreeNode
	var dirs []domain.TreeNode
	checked := 0
	for _, id := range visibleIDs {
		node, ok := selection.lookup(id)
		if !ok || node.IsSkipped {
			continue
		}
		if node.IsDirectory {
			dirs = append(dirs, node)
			continue
		}
		files = append(files, node)
		if selection.State(id) == domain.Checked {
			checked++
		}
	}
	target := domain.Checked
	if len(files) > 0 && checked*2 > len(files) {
		target = domain.Unchecked
	}
	selection.logger.Debug("toggle visible",
		zap.Int("files", len(files)),
		zap.Int("checked", checked),
		zap.String("target", string(target)))

	parents := make(map[string]struct{})
	for _, file := range files {
		selection.states[file.ID] = target
		parents[file.ParentID] = struct{}{}
	}
	for _, dir := range dirs {
		selection.states[dir.ID] = target
		for _, descendant := range selection.nodes {
			if descendant.IsSkipped || descendant.ID == dir.ID {
				continue
			}
			if selection.hasAncestor(descendant.ID, dir.ID) {
				selection.states[descendant.ID] = target
			}
		}
		parents[dir.ParentID] = struct{}{}
	}
	for _, parent := range sortedKeys(parents) {
		selection.updateAncestors(parent)
	}
}

// Reinitialize replaces the node snapshot and the state table wholesale
// (used when the descriptor list changes), then recomputes ancestors
// for every explicitly seeded node so indeterminate parents come out
// right from the start.
func (selection *Selection) Reinitialize(nodes []domain.TreeNode, initial map[string]domain.CheckState) {
	selection.nodes = nodes
	selection.index = domain.IndexNodes(nodes)
	selection.states = make(map[string]domain.CheckState, len(initial))
	seeded := make(map[string]struct{})
	for id, state := range initial {
		selection.states[id] = state
		if node, ok := selection.lookup(id); ok {
			seeded[node.ParentID] = struct{}{}
		}
	}
	for _, parent := range sortedKeys(seeded) {
		selection.updateAncestors(parent)
	}
}

// updateAncestors walks upward from startParentID, recomputing each
// directory's state from its non-skipped direct children. The walk does
// not stop early when one level's value is unchanged; it always
// continues to the root so multi-level chains stay consistent.
func (selection *Selection) updateAncestors(startParentID string) {
	current := startParentID
	for current != "" {
		node, ok := selection.lookup(current)
		if !ok || !node.IsDirectory {
			return
		}
		total, checked, indeterminate := 0, 0, 0
		for _, child := range selection.nodes {
			if child.ParentID != current || child.IsSkipped {
				continue
			}
			total++
			switch selection.State(child.ID) {
			case domain.Checked:
				checked++
			case domain.Indeterminate:
				indeterminate++
			}
		}
		next := domain.Unchecked
		switch {
		case total == 0:
			next = domain.Unchecked
		case indeterminate > 0:
			next = domain.Indeterminate
		case checked == total:
			next = domain.Checked
		case checked > 0:
			next = domain.Indeterminate
		}
		if selection.State(current) != next {
			selection.states[current] = next
		}
		current = node.ParentID
	}
}

func (selection *Selection) lookup(id string) (domain.TreeNode, bool) {
	position, ok := selection.index[id]
	if !ok {
		return domain.TreeNode{}, false
	}
	return selection.nodes[position], true
}

// hasAncestor reports whether ancestorID lies on id's ParentID chain.
// The walk stops at unresolved parents, so orphan branches never attach
// to anything.
func (selection *Selection) hasAncestor(id, ancestorID string) bool {
	current := id
	for {
		node, ok := selection.lookup(current)
		if !ok || node.ParentID == "" {
			return false
		}
		if node.ParentID == ancestorID {
			return true
		}
		current = node.ParentID
	}
}

func (selection *Selection) countNonSkippedChildren(id string) int {
	count := 0
	for _, child := range selection.nodes {
		if child.ParentID == id && !child.IsSkipped {
			count++
		}
	}
	return count
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
