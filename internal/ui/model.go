package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"promptmap/internal/config"
	"promptmap/internal/domain"
	"promptmap/internal/prompt"
	"promptmap/internal/services"
	"promptmap/internal/state"
)

type Model struct {
	session   *state.Session
	scanner   services.Scanner
	assembler *prompt.Assembler
	clip      services.Clipboard
	progress  services.ProgressProvider
	keys      KeyMap
	cfg       config.Config
	logger    *zap.Logger

	showHelp      bool
	status        string
	scanning      bool
	assembling    bool
	scanCancel    context.CancelFunc
	width         int
	height        int
	viewTop       int
	progressCount int64
	assembleFeed  chan prompt.Progress
	assemblePct   int
}

// ConfigProvider lets the app layer persist the model's live settings
// on exit.
type ConfigProvider interface {
	ConfigSnapshot() config.Config
}

func NewModel(session *state.Session, scanner services.Scanner, assembler *prompt.Assembler, clip services.Clipboard, cfg config.Config, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		session:   session,
		scanner:   scanner,
		assembler: assembler,
		clip:      clip,
		progress:  progressProvider(scanner),
		keys:      DefaultKeyMap(),
		cfg:       cfg,
		logger:    logger,
		status:    "Scanning...",
		scanning:  true,
		width:     100,
		height:    30,
	}
}

func (model Model) ConfigSnapshot() config.Config {
	snapshot := model.cfg
	snapshot.Format = model.session.Options
	return snapshot
}

func (model Model) Init() tea.Cmd {
	return tea.Batch(model.scanCmd(context.Background()), model.progressCmd())
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return model.handleKey(typed)
	case tea.WindowSizeMsg:
		model.width = typed.Width
		model.height = typed.Height
		model.ensureCursorVisible()
		return model, nil
	case scanResultMsg:
		model.scanning = false
		model.scanCancel = nil
		if typed.err != nil {
			if errors.Is(typed.err, context.Canceled) {
				model.status = "Scan cancelled"
				return model, nil
			}
			model.status = fmt.Sprintf("Scan error: %v", typed.err)
			return model, nil
		}
		model.session.ApplyScan(typed.result)
		model.viewTop = 0
		model.status = fmt.Sprintf("Scanned %d files, %d skipped (%s)",
			typed.result.Stats.Files, typed.result.Stats.Skipped, typed.result.Stats.Duration.Round(time.Millisecond))
		return model, nil
	case scanProgressMsg:
		if typed.progress.ErrMessage != "" {
			model.status = fmt.Sprintf("Scan warning: %s", typed.progress.ErrMessage)
			return model, model.progressCmd()
		}
		if typed.progress.Completed {
			if model.scanning {
				return model, model.progressCmd()
			}
			return model, nil
		}
		model.progressCount = typed.progress.Scanned
		if typed.progress.Current != "" {
			model.status = fmt.Sprintf("Scanning... %d files (%s)", typed.progress.Scanned, typed.progress.Current)
		} else {
			model.status = fmt.Sprintf("Scanning... %d files", typed.progress.Scanned)
		}
		return model, model.progressCmd()
	case assembleProgressMsg:
		if !typed.open {
			return model, nil
		}
		model.assemblePct = typed.progress.Percentage
		model.status = fmt.Sprintf("Assembling %d/%d (%s)",
			typed.progress.Current, typed.progress.Total, typed.progress.FileName)
		return model, model.assembleProgressCmd()
	case assembleResultMsg:
		model.assembling = false
		model.assembleFeed = nil
		model.assemblePct = 0
		if typed.err != nil {
			model.status = fmt.Sprintf("Assembly error: %v", typed.err)
			return model, nil
		}
		if !typed.result.Success {
			model.status = fmt.Sprintf("Assembly failed: %s", typed.result.ErrMessage)
			return model, nil
		}
		return model, model.copyCmd(typed.result)
	case copyResultMsg:
		if typed.err != nil {
			model.status = fmt.Sprintf("Clipboard error: %v", typed.err)
			return model, nil
		}
		if typed.result.TokenCapExceeded {
			model.status = fmt.Sprintf("Copied ~%d tokens (%s)", typed.result.TokensUsed, typed.result.TruncationNotice)
		} else {
			model.status = fmt.Sprintf("Copied %d files, ~%d tokens", typed.result.ProcessedCount, typed.result.TokensUsed)
		}
		return model, nil
	default:
		return model, nil
	}
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Quit):
		if model.scanCancel != nil {
			model.scanCancel()
		}
		return model, tea.Quit
	case key.Matches(msg, model.keys.Help):
		model.showHelp = !model.showHelp
		return model, nil
	case key.Matches(msg, model.keys.Up):
		if model.session.Cursor > 0 {
			model.session.Cursor--
			model.ensureCursorVisible()
		}
		return model, nil
	case key.Matches(msg, model.keys.Down):
		visible := model.session.VisibleNodes()
		if model.session.Cursor < len(visible)-1 {
			model.session.Cursor++
			model.ensureCursorVisible()
		}
		return model, nil
	case key.Matches(msg, model.keys.Select):
		if node, ok := model.session.CurrentNode(); ok {
			model.session.Selection.Toggle(node.ID)
		}
		return model, nil
	case key.Matches(msg, model.keys.SelectAll):
		model.session.Selection.SelectAll()
		model.status = "All files selected"
		return model, nil
	case key.Matches(msg, model.keys.DeselectAll):
		model.session.Selection.DeselectAll()
		model.status = "Selection cleared"
		return model, nil
	case key.Matches(msg, model.keys.ToggleVis):
		model.session.ToggleVisibleSelection()
		return model, nil
	case key.Matches(msg, model.keys.Enter):
		node, ok := model.session.CurrentNode()
		if !ok || !node.IsDirectory {
			return model, nil
		}
		model.session.ToggleExpanded(node.ID)
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.ExpandAll):
		model.session.ExpandAll()
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.CollapseAll):
		model.session.CollapseAll()
		model.session.Cursor = 0
		model.viewTop = 0
		return model, nil
	case key.Matches(msg, model.keys.Sort):
		model.session.Options.SortBy = nextSortKey(model.session.Options.SortBy)
		model.status = fmt.Sprintf("Sort: %s", model.session.Options.SortBy)
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Direction):
		if model.session.Options.SortDirection == domain.SortAsc {
			model.session.Options.SortDirection = domain.SortDesc
		} else {
			model.session.Options.SortDirection = domain.SortAsc
		}
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Sizes):
		model.session.Options.ShowSizes = !model.session.Options.ShowSizes
		return model, nil
	case key.Matches(msg, model.keys.Tokens):
		model.session.Options.ShowTokens = !model.session.Options.ShowTokens
		return model, nil
	case key.Matches(msg, model.keys.OnlySelected):
		model.session.Options.ShowOnlySelected = !model.session.Options.ShowOnlySelected
		return model, nil
	case key.Matches(msg, model.keys.Hidden):
		model.cfg.ShowHidden = !model.cfg.ShowHidden
		return model.beginScan()
	case key.Matches(msg, model.keys.Scan):
		return model.beginScan()
	case key.Matches(msg, model.keys.Copy):
		return model.beginAssembly()
	default:
		return model, nil
	}
}

func (model Model) beginScan() (tea.Model, tea.Cmd) {
	if model.scanCancel != nil {
		model.scanCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	model.scanCancel = cancel
	model.scanning = true
	model.progressCount = 0
	model.status = "Scanning..."
	return model, tea.Batch(model.scanCmd(ctx), model.progressCmd())
}

func (model Model) scanCmd(ctx context.Context) tea.Cmd {
	request := services.ScanRequest{
		RootPath:        model.cfg.Path,
		ShowHidden:      model.cfg.ShowHidden,
		MaxFileSizeKB:   model.cfg.MaxFileSizeKB,
		ExcludePatterns: model.cfg.ExcludePatterns,
	}
	return func() tea.Msg {
		result, err := model.scanner.Scan(ctx, request)
		return scanResultMsg{result: result, err: err}
	}
}

func (model Model) progressCmd() tea.Cmd {
	if model.progress == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			channel := model.progress.Progress()
			if channel == nil {
				time.Sleep(50 * time.Millisecond)
				continue
			}
			progress, ok := <-channel
			if !ok {
				return scanProgressMsg{progress: services.ScanProgress{Completed: true}}
			}
			return scanProgressMsg{progress: progress}
		}
	}
}

// beginAssembly snapshots the selection at this instant; toggles made
// while the assembly runs do not affect the payload.
func (model Model) beginAssembly() (tea.Model, tea.Cmd) {
	if model.assembling {
		model.status = "Assembly already running"
		return model, nil
	}
	selected := model.session.Selection.SelectedNodes()
	if len(selected) == 0 {
		model.status = "Nothing selected"
		return model, nil
	}
	feed := make(chan prompt.Progress, 16)
	model.assembleFeed = feed
	model.assembling = true
	model.status = "Assembling..."

	request := prompt.Request{
		RootLabel: model.session.RootPath,
		Selected:  selected,
		All:       model.session.Nodes,
		Options:   model.session.Options,
		TokenCap:  model.cfg.TokenCap,
		OnProgress: func(progress prompt.Progress) {
			select {
			case feed <- progress:
			default:
			}
		},
	}
	assemble := func() tea.Msg {
		result, err := model.assembler.Assemble(context.Background(), request)
		close(feed)
		return assembleResultMsg{result: result, err: err}
	}
	return model, tea.Batch(assemble, model.assembleProgressCmd())
}

func (model Model) assembleProgressCmd() tea.Cmd {
	feed := model.assembleFeed
	if feed == nil {
		return nil
	}
	return func() tea.Msg {
		progress, ok := <-feed
		return assembleProgressMsg{progress: progress, open: ok}
	}
}

func (model Model) copyCmd(result prompt.Result) tea.Cmd {
	return func() tea.Msg {
		err := model.clip.Copy(result.Payload)
		return copyResultMsg{result: result, err: err}
	}
}

func progressProvider(scanner services.Scanner) services.ProgressProvider {
	provider, _ := scanner.(services.ProgressProvider)
	return provider
}

func nextSortKey(current domain.SortKey) domain.SortKey {
	switch current {
	case domain.SortByName:
		return domain.SortBySize
	case domain.SortBySize:
		return domain.SortByTokens
	default:
		return domain.SortByName
	}
}

func (model *Model) ensureCursorVisible() {
	visible := model.session.VisibleNodes()
	if len(visible) == 0 {
		model.session.Cursor = 0
		model.viewTop = 0
		return
	}
	model.session.ClampCursor()
	listHeight := model.listHeight()
	if listHeight <= 0 {
		return
	}
	if model.session.Cursor < model.viewTop {
		model.viewTop = model.session.Cursor
	}
	if model.session.Cursor >= model.viewTop+listHeight {
		model.viewTop = model.session.Cursor - listHeight + 1
	}
	maxTop := len(visible) - listHeight
	if maxTop < 0 {
		maxTop = 0
	}
	if model.viewTop > maxTop {
		model.viewTop = maxTop
	}
}

func (model *Model) listHeight() int {
	return model.height - 6
}
