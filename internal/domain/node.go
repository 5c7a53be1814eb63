package domain

import (
	"sort"
	"strings"
)

// TreeNode is a FileDescriptor placed in the hierarchy. ID equals the
// descriptor's RelativePath; ParentID is derived by stripping the last
// path segment and is empty for top-level entries.
type TreeNode struct {
	FileDescriptor
	ID       string
	ParentID string
	Level    int
	Name     string
}

// BuildNodes derives the node set from a flat descriptor list. The input
// is copied and sorted by RelativePath so the output order is stable
// regardless of input order and parents sort before their children.
// Descriptors whose parent segment has no matching entry are emitted
// as-is; consumers treat an unresolved ParentID as effectively root.
func BuildNodes(descriptors []FileDescriptor) []TreeNode {
	if len(descriptors) == 0 {
		return nil
	}
	sorted := make([]FileDescriptor, len(descriptors))
	copy(sorted, descriptors)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RelativePath < sorted[j].RelativePath
	})
	nodes := make([]TreeNode, 0, len(sorted))
	for _, descriptor := range sorted {
		nodes = append(nodes, TreeNode{
			FileDescriptor: descriptor,
			ID:             descriptor.RelativePath,
			ParentID:       ParentPath(descriptor.RelativePath),
			Level:          strings.Count(descriptor.RelativePath, "/"),
			Name:           lastSegment(descriptor.RelativePath),
		})
	}
	return nodes
}

// IndexNodes builds an id lookup over a node slice.
func IndexNodes(nodes []TreeNode) map[string]int {
	index := make(map[string]int, len(nodes))
	for i, node := range nodes {
		index[node.ID] = i
	}
	return index
}

// ParentPath strips the last slash-separated segment; top-level paths
// map to "".
func ParentPath(relativePath string) string {
	slash := strings.LastIndex(relativePath, "/")
	if slash < 0 {
		return ""
	}
	return relativePath[:slash]
}

func lastSegment(relativePath string) string {
	slash := strings.LastIndex(relativePath, "/")
	if slash < 0 {
		return relativePath
	}
	return relativePath[slash+1:]
}
