package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNodesDerivesHierarchy(t *testing.T) {
	descriptors := []FileDescriptor{
		{RelativePath: "src/main.go"},
		{RelativePath: "README.md"},
		{RelativePath: "src", IsDirectory: true},
		{RelativePath: "src/util/strings.go"},
		{RelativePath: "src/util", IsDirectory: true},
	}

	nodes := BuildNodes(descriptors)
	require.Len(t, nodes, 5)

	// sorted by relative path, parents before children
	paths := make([]string, 0, len(nodes))
	for _, node := range nodes {
		paths = append(paths, node.ID)
	}
	assert.Equal(t, []string{"README.md", "src", "src/main.go", "src/util", "src/util/strings.go"}, paths)

	index := IndexNodes(nodes)
	readme := nodes[index["README.md"]]
	assert.Equal(t, "", readme.ParentID)
	assert.Equal(t, 0, readme.Level)
	assert.Equal(t, "README.md", readme.Name)

	strings := nodes[index["src/util/strings.go"]]
	assert.Equal(t, "src/util", strings.ParentID)
	assert.Equal(t, 2, strings.Level)
	assert.Equal(t, "strings.go", strings.Name)
}

func TestBuildNodesEmptyInput(t *testing.T) {
	assert.Nil(t, BuildNodes(nil))
	assert.Nil(t, BuildNodes([]FileDescriptor{}))
}

func TestBuildNodesKeepsOrphans(t *testing.T) {
	// a deep path without its ancestor entries still becomes a node
	nodes := BuildNodes([]FileDescriptor{{RelativePath: "missing/parent/file.go"}})
	require.Len(t, nodes, 1)
	assert.Equal(t, "missing/parent", nodes[0].ParentID)
	assert.Equal(t, 2, nodes[0].Level)
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.txt", ""},
		{"dir/a.txt", "dir"},
		{"a/b/c/d.go", "a/b/c"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, ParentPath(test.path), test.path)
	}
}
