// Package prompt turns a selection into the final clipboard payload: a
// <file_map> header rendered from the tree followed by one
// <file_contents> block per selected file, under a hard token cap.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"promptmap/internal/domain"
	"promptmap/internal/services"
	"promptmap/internal/tree"
)

// Request describes one assembly run. All holds the full node set so
// the file map shows context around the selection; Selected carries
// the checked nodes. TokenCap of zero or less means unlimited.
type Request struct {
	RootLabel  string
	Selected   []domain.TreeNode
	All        []domain.TreeNode
	Options    tree.FormatOptions
	TokenCap   uint64
	OnProgress func(Progress)
}

// Progress reports per-file advancement to the UI.
type Progress struct {
	Current    int
	Total      int
	FileName   string
	Percentage int
}

// Result distinguishes two failure axes: TokenCapExceeded means the
// output was truncated at the cap, which is a benign outcome; Success
// goes false only when file reads failed. A truncated but error-free
// run is still a success.
type Result struct {
	Payload          string
	Success          bool
	ErrMessage       string
	TokensUsed       uint64
	TokenCapExceeded bool
	TruncationNotice string
	ProcessedCount   int
	TotalCount       int
}

type Assembler struct {
	reader services.ContentReader
	logger *zap.Logger
}

func NewAssembler(reader services.ContentReader, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{reader: reader, logger: logger}
}

// Assemble builds the payload sequentially in RelativePath order,
// stopping hard at the first file whose estimate would cross the cap.
// Read failures are recorded and skipped; they never consume budget
// and never halt the run. The error return fires only on context
// cancellation.
func (assembler *Assembler) Assemble(ctx context.Context, req Request) (Result, error) {
	files := assemblableFiles(req.Selected)
	result := Result{Success: true, TotalCount: len(files)}

	var builder strings.Builder
	builder.WriteString("<file_map>\n")
	if req.RootLabel != "" {
		builder.WriteString(req.RootLabel)
		builder.WriteString("\n")
	}
	selected := make(map[string]bool, len(req.Selected))
	for _, node := range req.Selected {
		selected[node.ID] = true
	}
	builder.WriteString(tree.Format(req.All, selected, req.Options))
	builder.WriteString("</file_map>\n\n")

	var failures []string
	for i, node := range files {
		if err := ctx.Err(); err != nil {
			result.Success = false
			result.ErrMessage = err.Error()
			result.Payload = builder.String()
			return result, err
		}
		if req.TokenCap > 0 && result.TokensUsed+node.TokenEstimate > req.TokenCap {
			result.TokenCapExceeded = true
			result.TruncationNotice = fmt.Sprintf(
				"output truncated: token cap %d reached after %d of %d files",
				req.TokenCap, result.ProcessedCount, len(files))
			assembler.logger.Info("token cap reached",
				zap.Uint64("cap", req.TokenCap),
				zap.Uint64("used", result.TokensUsed),
				zap.String("stopped_at", node.RelativePath))
			break
		}
		result.ProcessedCount++
		read, err := assembler.reader.ReadFile(ctx, node.Path)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				result.Success = false
				result.ErrMessage = err.Error()
				result.Payload = builder.String()
				return result, err
			}
			failures = append(failures, fmt.Sprintf("%s: %v", node.RelativePath, err))
			assembler.reportProgress(req, i, len(files), node.RelativePath)
			continue
		}
		if read.Skipped {
			failures = append(failures, fmt.Sprintf("%s: %s", node.RelativePath, read.ErrMessage))
			assembler.reportProgress(req, i, len(files), node.RelativePath)
			continue
		}
		writeFileBlock(&builder, node.RelativePath, read.Content)
		result.TokensUsed += node.TokenEstimate
		assembler.reportProgress(req, i, len(files), node.RelativePath)
	}

	if len(failures) > 0 {
		result.Success = false
		result.ErrMessage = strings.Join(failures, "; ")
	}
	result.Payload = builder.String()
	return result, nil
}

// assemblableFiles filters the selection down to readable files and
// fixes the processing order.
func assemblableFiles(selected []domain.TreeNode) []domain.TreeNode {
	var files []domain.TreeNode
	for _, node := range selected {
		if node.IsDirectory || node.IsSkipped {
			continue
		}
		files = append(files, node)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].RelativePath < files[j].RelativePath
	})
	return files
}

func writeFileBlock(builder *strings.Builder, relativePath, content string) {
	builder.WriteString(fmt.Sprintf("<file_contents path=%q>\n", relativePath))
	builder.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		builder.WriteString("\n")
	}
	builder.WriteString("</file_contents>\n\n")
}

func (assembler *Assembler) reportProgress(req Request, index, total int, fileName string) {
	if req.OnProgress == nil {
		return
	}
	current := index + 1
	req.OnProgress(Progress{
		Current:    current,
		Total:      total,
		FileName:   fileName,
		Percentage: int(math.Round(float64(current) / float64(total) * 100)),
	})
}
