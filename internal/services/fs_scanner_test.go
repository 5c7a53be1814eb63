package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptmap/internal/domain"
)

func writeFile(t *testing.T, root, relative string, content []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(relative))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func descriptorsByPath(result domain.ScanResult) map[string]domain.FileDescriptor {
	byPath := make(map[string]domain.FileDescriptor, len(result.Files))
	for _, file := range result.Files {
		byPath[file.RelativePath] = file
	}
	return byPath
}

func TestScanClassifiesFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", []byte("hello world\n"))
	writeFile(t, root, "sub/b.go", []byte("package sub\n"))
	writeFile(t, root, "img.png", []byte{0x89, 'P', 'N', 'G'})
	writeFile(t, root, ".hidden", []byte("secret"))

	scanner := NewFSScanner(nil)
	result, err := scanner.Scan(context.Background(), ScanRequest{
		RootPath:      root,
		MaxFileSizeKB: 512,
	})
	require.NoError(t, err)

	byPath := descriptorsByPath(result)
	assert.NotContains(t, byPath, ".hidden")

	a := byPath["a.txt"]
	assert.False(t, a.IsSkipped)
	assert.Equal(t, uint64(12), a.Size)
	assert.Equal(t, uint64(3), a.TokenEstimate)

	png := byPath["img.png"]
	assert.True(t, png.IsSkipped)
	assert.Equal(t, domain.SkipExtension, png.SkipReason)

	sub, ok := byPath["sub"]
	require.True(t, ok, "intermediate directory synthesized")
	assert.True(t, sub.IsDirectory)

	assert.Equal(t, 2, result.Stats.Files)
	assert.Equal(t, 1, result.Stats.Skipped)
}

func TestScanShowHiddenIncludesDotfiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".env", []byte("KEY=value\n"))

	scanner := NewFSScanner(nil)
	result, err := scanner.Scan(context.Background(), ScanRequest{
		RootPath:   root,
		ShowHidden: true,
	})
	require.NoError(t, err)
	assert.Contains(t, descriptorsByPath(result), ".env")
}

func TestScanAppliesExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.txt", []byte("keep\n"))
	writeFile(t, root, "sub/skip.log", []byte("noise\n"))

	scanner := NewFSScanner(nil)
	result, err := scanner.Scan(context.Background(), ScanRequest{
		RootPath:        root,
		ExcludePatterns: []string{"*.log"},
	})
	require.NoError(t, err)

	byPath := descriptorsByPath(result)
	assert.False(t, byPath["keep.txt"].IsSkipped)
	skipped := byPath["sub/skip.log"]
	assert.True(t, skipped.IsSkipped)
	assert.Equal(t, domain.SkipIgnored, skipped.SkipReason)
}

func TestScanSizeCap(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.txt", make([]byte, 2048))
	writeFile(t, root, "small.txt", []byte("fine\n"))

	scanner := NewFSScanner(nil)
	result, err := scanner.Scan(context.Background(), ScanRequest{
		RootPath:      root,
		MaxFileSizeKB: 1,
	})
	require.NoError(t, err)

	byPath := descriptorsByPath(result)
	big := byPath["big.txt"]
	assert.True(t, big.IsSkipped)
	assert.Equal(t, domain.SkipSize, big.SkipReason)
	assert.False(t, byPath["small.txt"].IsSkipped)
}

func TestScanRejectsNonDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.txt", []byte("x"))

	scanner := NewFSScanner(nil)
	_, err := scanner.Scan(context.Background(), ScanRequest{
		RootPath: filepath.Join(root, "file.txt"),
	})
	assert.Error(t, err)
}

func TestMatchesExclude(t *testing.T) {
	tests := []struct {
		relative string
		patterns []string
		want     bool
	}{
		{"a.log", []string{"*.log"}, true},
		{"deep/nested/a.log", []string{"*.log"}, true},
		{"node_modules/pkg/index.js", []string{"**/node_modules/**"}, true},
		{"src/main.go", []string{"*.log"}, false},
		{"src/gen/out.go", []string{"src/gen/*"}, true},
		{"src/other/out.go", []string{"src/gen/*"}, false},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, matchesExclude(test.relative, test.patterns), test.relative)
	}
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, uint64(0), estimateTokens(0))
	assert.Equal(t, uint64(1), estimateTokens(2), "non-empty files round up to one token")
	assert.Equal(t, uint64(256), estimateTokens(1024))
}

func TestSynthesizeDirectories(t *testing.T) {
	files := []domain.FileDescriptor{
		{RelativePath: "a/b/c.txt"},
		{RelativePath: "a/d.txt"},
		{RelativePath: "top.txt"},
	}
	directories := synthesizeDirectories("/root", files)
	paths := make([]string, 0, len(directories))
	for _, dir := range directories {
		assert.True(t, dir.IsDirectory)
		paths = append(paths, dir.RelativePath)
	}
	assert.Equal(t, []string{"a", "a/b"}, paths)
}
