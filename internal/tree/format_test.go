package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"promptmap/internal/domain"
)

func bareOptions() FormatOptions {
	return FormatOptions{
		SortDirectoriesFirst: true,
		SortBy:               domain.SortByName,
		SortDirection:        domain.SortAsc,
	}
}

func TestFormatStructure(t *testing.T) {
	nodes := domain.BuildNodes([]domain.FileDescriptor{
		{RelativePath: "README.md"},
		{RelativePath: "src", IsDirectory: true},
		{RelativePath: "src/main.go"},
		{RelativePath: "src/util.go"},
	})

	got := Format(nodes, nil, bareOptions())
	want := "├── src/\n" +
		"│   ├── main.go\n" +
		"│   └── util.go\n" +
		"└── README.md\n"
	assert.Equal(t, want, got)
}

func TestFormatIsByteStable(t *testing.T) {
	nodes := domain.BuildNodes([]domain.FileDescriptor{
		{RelativePath: "b", IsDirectory: true},
		{RelativePath: "b/two.go", Size: 7},
		{RelativePath: "a.go", Size: 7},
	})
	opts := DefaultOptions()
	first := Format(nodes, map[string]bool{"a.go": true}, opts)
	second := Format(nodes, map[string]bool{"a.go": true}, opts)
	assert.Equal(t, first, second)
}

func TestFormatEmptyInput(t *testing.T) {
	assert.Equal(t, "", Format(nil, nil, DefaultOptions()))
}

func TestFormatLabels(t *testing.T) {
	nodes := domain.BuildNodes([]domain.FileDescriptor{
		{RelativePath: "main.go", Size: 1200, TokenEstimate: 300},
	})
	opts := bareOptions()
	opts.ShowSizes = true
	opts.ShowTokens = true

	assert.Equal(t, "└── main.go (1.2KB) [~300 tokens]\n", Format(nodes, nil, opts))
}

func TestFormatSkipMarkers(t *testing.T) {
	tests := []struct {
		reason domain.SkipReason
		want   string
	}{
		{domain.SkipExtension, "└── f [binary]\n"},
		{domain.SkipContent, "└── f [binary]\n"},
		{domain.SkipSize, "└── f [too large]\n"},
		{domain.SkipError, "└── f [unreadable]\n"},
		{domain.SkipIgnored, "└── f [ignored]\n"},
	}
	for _, test := range tests {
		nodes := domain.BuildNodes([]domain.FileDescriptor{
			{RelativePath: "f", IsSkipped: true, SkipReason: test.reason},
		})
		opts := bareOptions()
		opts.ShowBinaryMarker = true
		assert.Equal(t, test.want, Format(nodes, nil, opts), string(test.reason))
	}
}

func TestFormatMaxDepthElision(t *testing.T) {
	nodes := domain.BuildNodes([]domain.FileDescriptor{
		{RelativePath: "README.md"},
		{RelativePath: "src", IsDirectory: true},
		{RelativePath: "src/main.go"},
	})
	opts := bareOptions()
	opts.MaxDepth = 1

	want := "├── src/\n" +
		"│   ...\n" +
		"└── README.md\n"
	assert.Equal(t, want, Format(nodes, nil, opts))
}

func TestFormatOnlySelectedPrunes(t *testing.T) {
	nodes := domain.BuildNodes([]domain.FileDescriptor{
		{RelativePath: "README.md"},
		{RelativePath: "src", IsDirectory: true},
		{RelativePath: "src/main.go"},
		{RelativePath: "src/util.go"},
	})
	opts := bareOptions()
	opts.ShowOnlySelected = true

	got := Format(nodes, map[string]bool{"src/main.go": true}, opts)
	want := "└── src/\n" +
		"    └── main.go\n"
	assert.Equal(t, want, got)
}

func TestFormatAggregatesSelectedOnly(t *testing.T) {
	nodes := domain.BuildNodes([]domain.FileDescriptor{
		{RelativePath: "src", IsDirectory: true},
		{RelativePath: "src/main.go", Size: 100},
		{RelativePath: "src/util.go", Size: 300},
	})
	opts := bareOptions()
	opts.ShowOnlySelected = true
	opts.ShowSizes = true

	got := Format(nodes, map[string]bool{"src/main.go": true}, opts)
	want := "└── src/ (100B)\n" +
		"    └── main.go (100B)\n"
	assert.Equal(t, want, got)
}

func TestFormatSortBySizeDescending(t *testing.T) {
	nodes := domain.BuildNodes([]domain.FileDescriptor{
		{RelativePath: "small.go", Size: 10},
		{RelativePath: "large.go", Size: 200},
		{RelativePath: "medium.go", Size: 50},
	})
	opts := bareOptions()
	opts.SortBy = domain.SortBySize
	opts.SortDirection = domain.SortDesc

	want := "├── large.go\n" +
		"├── medium.go\n" +
		"└── small.go\n"
	assert.Equal(t, want, Format(nodes, nil, opts))
}

func TestFormatHighlightSelected(t *testing.T) {
	nodes := domain.BuildNodes([]domain.FileDescriptor{
		{RelativePath: "a.go"},
		{RelativePath: "b.go"},
	})
	opts := bareOptions()
	opts.HighlightSelected = true

	got := Format(nodes, map[string]bool{"b.go": true}, opts)
	want := "├── a.go\n" +
		"└── b.go *\n"
	assert.Equal(t, want, got)
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size uint64
		want string
	}{
		{0, "0B"},
		{999, "999B"},
		{1000, "1.0KB"},
		{1200, "1.2KB"},
		{2500000, "2.5MB"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, FormatSize(test.size))
	}
}
