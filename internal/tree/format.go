// Package tree renders a node set into the deterministic ASCII map used
// both as the interactive preview and as the <file_map> header of an
// assembled prompt.
package tree

import (
	"fmt"
	"sort"
	"strings"

	"promptmap/internal/domain"
)

// FormatOptions controls one rendering pass. Every option is
// independently toggleable; DefaultOptions documents the default set.
type FormatOptions struct {
	ShowSizes            bool                 `yaml:"show_sizes"`
	ShowTokens           bool                 `yaml:"show_tokens"`
	ShowBinaryMarker     bool                 `yaml:"show_binary_marker"`
	HighlightSelected    bool                 `yaml:"highlight_selected"`
	SortDirectoriesFirst bool                 `yaml:"sort_directories_first"`
	SortBy               domain.SortKey       `yaml:"sort_by"`
	SortDirection        domain.SortDirection `yaml:"sort_direction"`
	ShowOnlySelected     bool                 `yaml:"show_only_selected"`
	// MaxDepth caps the rendered depth; 0 or negative means unlimited.
	MaxDepth int `yaml:"max_depth"`
}

func DefaultOptions() FormatOptions {
	return FormatOptions{
		ShowSizes:            true,
		ShowTokens:           true,
		ShowBinaryMarker:     true,
		HighlightSelected:    false,
		SortDirectoriesFirst: true,
		SortBy:               domain.SortByName,
		SortDirection:        domain.SortAsc,
		ShowOnlySelected:     false,
		MaxDepth:             0,
	}
}

// Format renders the node set as an ASCII tree, one line per node, each
// line terminated by a newline. The root itself is not rendered; nodes
// with an unresolved ParentID are treated as roots. Repeated calls with
// identical input produce byte-identical output.
func Format(nodes []domain.TreeNode, selected map[string]bool, opts FormatOptions) string {
	if len(nodes) == 0 {
		return ""
	}
	renderer := newRenderer(nodes, selected, opts)
	var builder strings.Builder
	renderer.renderSiblings(&builder, renderer.roots, "", 0)
	return builder.String()
}

type renderer struct {
	nodes    []domain.TreeNode
	selected map[string]bool
	opts     FormatOptions

	children map[string][]int
	roots    []int
	kept     map[string]bool
	sizes    map[string]uint64
	tokens   map[string]uint64
}

func newRenderer(nodes []domain.TreeNode, selected map[string]bool, opts FormatOptions) *renderer {
	if selected == nil {
		selected = map[string]bool{}
	}
	renderer := &renderer{
		nodes:    nodes,
		selected: selected,
		opts:     opts,
		children: make(map[string][]int),
		kept:     make(map[string]bool, len(nodes)),
		sizes:    make(map[string]uint64, len(nodes)),
		tokens:   make(map[string]uint64, len(nodes)),
	}
	index := domain.IndexNodes(nodes)
	for i, node := range nodes {
		parent := node.ParentID
		if parent != "" {
			if _, ok := index[parent]; !ok {
				parent = ""
			}
		}
		if parent == "" {
			renderer.roots = append(renderer.roots, i)
		} else {
			renderer.children[parent] = append(renderer.children[parent], i)
		}
	}
	for _, root := range renderer.roots {
		renderer.prune(root)
	}
	for _, root := range renderer.roots {
		renderer.aggregate(root)
	}
	return renderer
}

// prune marks the nodes that survive ShowOnlySelected: selected files,
// and directories that are selected themselves or retain at least one
// kept child after pruning.
func (renderer *renderer) prune(position int) bool {
	node := renderer.nodes[position]
	if !renderer.opts.ShowOnlySelected {
		renderer.kept[node.ID] = true
		for _, child := range renderer.children[node.ID] {
			renderer.prune(child)
		}
		return true
	}
	if !node.IsDirectory {
		keep := renderer.selected[node.ID]
		renderer.kept[node.ID] = keep
		return keep
	}
	keptChild := false
	for _, child := range renderer.children[node.ID] {
		if renderer.prune(child) {
			keptChild = true
		}
	}
	keep := keptChild || renderer.selected[node.ID]
	renderer.kept[node.ID] = keep
	return keep
}

// aggregate recomputes directory size/token totals bottom-up over the
// post-prune children.
func (renderer *renderer) aggregate(position int) (uint64, uint64) {
	node := renderer.nodes[position]
	if !node.IsDirectory {
		renderer.sizes[node.ID] = node.Size
		renderer.tokens[node.ID] = node.TokenEstimate
		return node.Size, node.TokenEstimate
	}
	var size, tokens uint64
	for _, child := range renderer.children[node.ID] {
		childSize, childTokens := renderer.aggregate(child)
		if renderer.kept[renderer.nodes[child].ID] {
			size += childSize
			tokens += childTokens
		}
	}
	renderer.sizes[node.ID] = size
	renderer.tokens[node.ID] = tokens
	return size, tokens
}

func (renderer *renderer) keptChildren(id string) []int {
	var kept []int
	for _, child := range renderer.children[id] {
		if renderer.kept[renderer.nodes[child].ID] {
			kept = append(kept, child)
		}
	}
	return kept
}

// sortSiblings orders one sibling group: directories before files when
// configured, then the chosen key and direction, ties broken by input
// order (stable sort over the already input-ordered slice).
func (renderer *renderer) sortSiblings(positions []int) []int {
	sorted := make([]int, len(positions))
	copy(sorted, positions)
	sort.SliceStable(sorted, func(i, j int) bool {
		left, right := renderer.nodes[sorted[i]], renderer.nodes[sorted[j]]
		if renderer.opts.SortDirectoriesFirst && left.IsDirectory != right.IsDirectory {
			return left.IsDirectory
		}
		less, equal := renderer.compare(left, right)
		if equal {
			return false
		}
		if renderer.opts.SortDirection == domain.SortDesc {
			return !less
		}
		return less
	})
	return sorted
}

func (renderer *renderer) compare(left, right domain.TreeNode) (less, equal bool) {
	switch renderer.opts.SortBy {
	case domain.SortBySize:
		l, r := renderer.sizes[left.ID], renderer.sizes[right.ID]
		return l < r, l == r
	case domain.SortByTokens:
		l, r := renderer.tokens[left.ID], renderer.tokens[right.ID]
		return l < r, l == r
	default:
		return left.Name < right.Name, left.Name == right.Name
	}
}

func (renderer *renderer) renderSiblings(builder *strings.Builder, positions []int, prefix string, depth int) {
	kept := make([]int, 0, len(positions))
	for _, position := range positions {
		if renderer.kept[renderer.nodes[position].ID] {
			kept = append(kept, position)
		}
	}
	kept = renderer.sortSiblings(kept)
	for i, position := range kept {
		node := renderer.nodes[position]
		connector, extension := "├── ", "│   "
		if i == len(kept)-1 {
			connector, extension = "└── ", "    "
		}
		builder.WriteString(prefix)
		builder.WriteString(connector)
		builder.WriteString(renderer.label(node))
		builder.WriteString("\n")
		if !node.IsDirectory {
			continue
		}
		children := renderer.keptChildren(node.ID)
		if len(children) == 0 {
			continue
		}
		if renderer.opts.MaxDepth > 0 && depth >= renderer.opts.MaxDepth-1 {
			builder.WriteString(prefix)
			builder.WriteString(extension)
			builder.WriteString("...\n")
			continue
		}
		renderer.renderSiblings(builder, children, prefix+extension, depth+1)
	}
}

func (renderer *renderer) label(node domain.TreeNode) string {
	var builder strings.Builder
	builder.WriteString(node.Name)
	if node.IsDirectory {
		builder.WriteString("/")
	}
	if renderer.opts.ShowBinaryMarker && node.IsSkipped {
		builder.WriteString(" ")
		builder.WriteString(skipMarker(node.SkipReason))
	}
	if renderer.opts.ShowSizes {
		builder.WriteString(fmt.Sprintf(" (%s)", FormatSize(renderer.sizes[node.ID])))
	}
	if renderer.opts.ShowTokens {
		builder.WriteString(fmt.Sprintf(" [~%d tokens]", renderer.tokens[node.ID]))
	}
	if renderer.opts.HighlightSelected && renderer.selected[node.ID] {
		builder.WriteString(" *")
	}
	return builder.String()
}

func skipMarker(reason domain.SkipReason) string {
	switch reason {
	case domain.SkipExtension, domain.SkipContent:
		return "[binary]"
	case domain.SkipSize:
		return "[too large]"
	case domain.SkipError:
		return "[unreadable]"
	default:
		return "[ignored]"
	}
}

// FormatSize renders a byte count in compact decimal units.
func FormatSize(size uint64) string {
	const unit = 1000
	if size < unit {
		return fmt.Sprintf("%dB", size)
	}
	div, exp := uint64(unit), 0
	for n := size / unit; n >= unit && exp < 5; n /= unit {
		div *= unit
		exp++
	}
	value := float64(size) / float64(div)
	units := []string{"KB", "MB", "GB", "TB", "PB", "EB"}
	return fmt.Sprintf("%.1f%s", value, units[exp])
}
