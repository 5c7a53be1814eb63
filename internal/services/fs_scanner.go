package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/boyter/gocodewalker"
	"go.uber.org/zap"

	"promptmap/internal/domain"
)

// FSScanner walks a directory with gitignore awareness and emits the
// flat descriptor list. Files excluded by policy (globs, binaries,
// size cap) stay in the output as skipped entries so the tree can show
// them; only gitignored and hidden entries disappear entirely.
type FSScanner struct {
	progress chan ScanProgress
	logger   *zap.Logger
}

func NewFSScanner(logger *zap.Logger) *FSScanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FSScanner{
		progress: make(chan ScanProgress, 64),
		logger:   logger,
	}
}

func (scanner *FSScanner) Progress() <-chan ScanProgress {
	return scanner.progress
}

func (scanner *FSScanner) Scan(ctx context.Context, req ScanRequest) (domain.ScanResult, error) {
	start := time.Now()
	root, err := filepath.Abs(req.RootPath)
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return domain.ScanResult{}, fmt.Errorf("not a directory: %s", root)
	}

	queue := make(chan *gocodewalker.File, 128)
	walker := gocodewalker.NewFileWalker(root, queue)
	walker.IncludeHidden = req.ShowHidden
	walker.SetErrorHandler(func(walkErr error) bool {
		scanner.logger.Warn("walk error", zap.Error(walkErr))
		return true
	})
	go func() {
		<-ctx.Done()
		walker.Terminate()
	}()
	go func() {
		if walkErr := walker.Start(); walkErr != nil {
			scanner.logger.Warn("walker stopped", zap.Error(walkErr))
		}
	}()

	var files []domain.FileDescriptor
	var scanned int64
	for file := range queue {
		if ctx.Err() != nil {
			scanner.emit(ScanProgress{Completed: true, ErrMessage: ctx.Err().Error()})
			return domain.ScanResult{}, ctx.Err()
		}
		relative, relErr := filepath.Rel(root, file.Location)
		if relErr != nil {
			scanner.logger.Warn("relative path", zap.String("path", file.Location), zap.Error(relErr))
			continue
		}
		relative = filepath.ToSlash(relative)
		files = append(files, scanner.describe(file.Location, relative, req))
		scanned++
		scanner.emit(ScanProgress{Current: relative, Scanned: scanned})
	}
	if ctx.Err() != nil {
		scanner.emit(ScanProgress{Completed: true, ErrMessage: ctx.Err().Error()})
		return domain.ScanResult{}, ctx.Err()
	}

	files = append(files, synthesizeDirectories(root, files)...)
	stats := computeStats(files)
	stats.Duration = time.Since(start)
	scanner.emit(ScanProgress{Scanned: scanned, Completed: true})
	scanner.logger.Info("scan complete",
		zap.String("root", root),
		zap.Int("files", stats.Files),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("duration", stats.Duration))
	return domain.ScanResult{RootPath: root, Files: files, Stats: stats}, nil
}

// describe classifies one regular file. The checks are ordered so the
// cheapest disqualifier wins: user globs, then size, then extension,
// then the content sniff.
func (scanner *FSScanner) describe(absolute, relative string, req ScanRequest) domain.FileDescriptor {
	descriptor := domain.FileDescriptor{
		Path:         absolute,
		RelativePath: relative,
	}
	info, err := os.Lstat(absolute)
	if err != nil {
		descriptor.IsSkipped = true
		descriptor.SkipReason = domain.SkipError
		return descriptor
	}
	if !info.Mode().IsRegular() {
		descriptor.IsSkipped = true
		descriptor.SkipReason = domain.SkipError
		return descriptor
	}
	descriptor.Size = uint64(info.Size())

	if matchesExclude(relative, req.ExcludePatterns) {
		descriptor.IsSkipped = true
		descriptor.SkipReason = domain.SkipIgnored
		return descriptor
	}
	if req.MaxFileSizeKB > 0 && info.Size() > req.MaxFileSizeKB*1024 {
		descriptor.IsSkipped = true
		descriptor.SkipReason = domain.SkipSize
		return descriptor
	}
	if hasBinaryExtension(absolute) {
		descriptor.IsSkipped = true
		descriptor.SkipReason = domain.SkipExtension
		return descriptor
	}
	binary, sniffErr := looksBinary(absolute)
	if sniffErr != nil {
		descriptor.IsSkipped = true
		descriptor.SkipReason = domain.SkipError
		return descriptor
	}
	if binary {
		descriptor.IsSkipped = true
		descriptor.SkipReason = domain.SkipContent
		return descriptor
	}
	descriptor.TokenEstimate = estimateTokens(descriptor.Size)
	return descriptor
}

// matchesExclude tests doublestar globs against the relative path and,
// for bare patterns, the basename, so "*.log" works without "**/".
func matchesExclude(relative string, patterns []string) bool {
	base := relative
	if slash := strings.LastIndex(relative, "/"); slash >= 0 {
		base = relative[slash+1:]
	}
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, relative); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.Match(pattern, base); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// estimateTokens approximates tokens as one per four bytes of text,
// never less than one for a non-empty file.
func estimateTokens(size uint64) uint64 {
	if size == 0 {
		return 0
	}
	estimate := size / 4
	if estimate == 0 {
		return 1
	}
	return estimate
}

// synthesizeDirectories fills in the directory descriptors implied by
// the file paths. The walker emits files only; every ancestor segment
// of each file becomes a directory entry exactly once.
func synthesizeDirectories(root string, files []domain.FileDescriptor) []domain.FileDescriptor {
	seen := make(map[string]struct{})
	for _, file := range files {
		parent := domain.ParentPath(file.RelativePath)
		for parent != "" {
			seen[parent] = struct{}{}
			parent = domain.ParentPath(parent)
		}
	}
	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	directories := make([]domain.FileDescriptor, 0, len(paths))
	for _, path := range paths {
		directories = append(directories, domain.FileDescriptor{
			Path:         filepath.Join(root, filepath.FromSlash(path)),
			RelativePath: path,
			IsDirectory:  true,
		})
	}
	return directories
}

func computeStats(files []domain.FileDescriptor) domain.ScanStats {
	var stats domain.ScanStats
	for _, file := range files {
		switch {
		case file.IsDirectory:
			stats.Directories++
		case file.IsSkipped:
			stats.Skipped++
		default:
			stats.Files++
			stats.TotalSize += file.Size
			stats.TotalTokens += file.TokenEstimate
		}
	}
	return stats
}

// emit never blocks; a slow consumer just misses intermediate updates.
func (scanner *FSScanner) emit(progress ScanProgress) {
	select {
	case scanner.progress <- progress:
	default:
	}
}
