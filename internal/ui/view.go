package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"promptmap/internal/domain"
	"promptmap/internal/state"
	"promptmap/internal/tree"
)

type uiStyles struct {
	headerStyle  lipgloss.Style
	mutedStyle   lipgloss.Style
	statusStyle  lipgloss.Style
	warnStyle    lipgloss.Style
	cursorStyle  lipgloss.Style
	checkedStyle lipgloss.Style
	partialStyle lipgloss.Style
	skippedStyle lipgloss.Style
	overCapStyle lipgloss.Style
	panelBorder  lipgloss.Style
}

func stylesFor(model Model) uiStyles {
	if strings.ToLower(model.cfg.Theme) == "light" {
		return uiStyles{
			headerStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")),
			mutedStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			statusStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
			warnStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
			cursorStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("90")).Bold(true),
			checkedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("28")).Bold(true),
			partialStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
			skippedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("247")),
			overCapStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
			panelBorder:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		}
	}
	return uiStyles{
		headerStyle:  lipgloss.NewStyle().Bold(true),
		mutedStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		statusStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		warnStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		cursorStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		checkedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		partialStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		skippedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		overCapStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		panelBorder:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

func (model Model) View() string {
	styles := stylesFor(model)
	if model.showHelp {
		return renderHelpView(model, styles)
	}
	body := renderBody(model, styles)
	footer := renderFooter(model, styles)
	return strings.Join([]string{body, footer}, "\n")
}

func renderBody(model Model, styles uiStyles) string {
	visible := model.session.VisibleNodes()
	bodyHeight := model.listHeight()
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	leftWidth, rightWidth, showRight := splitPanels(model.width)
	left := renderTreePanel(model, styles, visible, bodyHeight, leftWidth)
	if !showRight {
		return left
	}
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render("│")
	right := renderPreviewPanel(model, styles, rightWidth, bodyHeight)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, sep, right)
}

func renderTreePanel(model Model, styles uiStyles, visible []state.VisibleNode, height, width int) string {
	if width < 20 {
		width = 20
	}
	contentWidth := maxInt(width-2, 10)
	status := "IDLE"
	if model.scanning {
		status = "SCANNING"
	}
	if model.assembling {
		status = "ASSEMBLING"
	}
	headerLine := padLine(styles.headerStyle.Render("promptmap")+"  "+model.cfg.Path, styles.statusStyle.Render(status), contentWidth)

	listHeight := height - 1
	if listHeight < 1 {
		listHeight = 1
	}
	if len(visible) == 0 {
		message := "No files"
		if model.scanning {
			message = "Scanning..."
		}
		lines := []string{headerLine, message}
		for i := 0; i < maxInt(listHeight-1, 0); i++ {
			lines = append(lines, "")
		}
		return styles.panelBorder.Width(contentWidth).Render(strings.Join(lines, "\n"))
	}

	start := clamp(model.viewTop, 0, maxInt(len(visible)-1, 0))
	end := start + listHeight
	if end > len(visible) {
		end = len(visible)
	}
	lines := make([]string, 0, height)
	lines = append(lines, headerLine)
	for index := start; index < end; index++ {
		item := visible[index]
		node := item.Node
		indent := strings.Repeat("  ", item.Depth)
		marker := checkMarker(model, styles, node)
		name := node.Name
		if node.IsDirectory {
			name += "/"
			if model.session.IsExpanded(node.ID) {
				name = "▾ " + name
			} else {
				name = "▸ " + name
			}
		}
		detail := nodeDetail(model, node)
		line := fmt.Sprintf("%s %s%s%s", marker, indent, name, detail)
		if node.IsSkipped {
			line = styles.skippedStyle.Render(line)
		}
		if index == model.session.Cursor {
			line = styles.cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return styles.panelBorder.Width(contentWidth).Render(strings.Join(lines, "\n"))
}

func checkMarker(model Model, styles uiStyles, node domain.TreeNode) string {
	if node.IsSkipped {
		return "[-]"
	}
	switch model.session.Selection.State(node.ID) {
	case domain.Checked:
		return styles.checkedStyle.Render("[x]")
	case domain.Indeterminate:
		return styles.partialStyle.Render("[~]")
	default:
		return "[ ]"
	}
}

func nodeDetail(model Model, node domain.TreeNode) string {
	var parts []string
	if node.IsSkipped {
		parts = append(parts, skipLabel(node.SkipReason))
	}
	if model.session.Options.ShowSizes {
		parts = append(parts, fmt.Sprintf("(%s)", tree.FormatSize(model.session.NodeSize(node.ID))))
	}
	if model.session.Options.ShowTokens && !node.IsSkipped {
		parts = append(parts, fmt.Sprintf("[~%d tok]", model.session.NodeTokens(node.ID)))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

func skipLabel(reason domain.SkipReason) string {
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

// renderPreviewPanel shows the selection summary and the file map as
// it would appear in the assembled prompt.
func renderPreviewPanel(model Model, styles uiStyles, width, height int) string {
	contentWidth := maxInt(width-2, 10)
	count, size, tokens := model.session.SelectionSummary()

	budget := fmt.Sprintf("~%d / %d tokens", tokens, model.cfg.TokenCap)
	budgetStyle := styles.statusStyle
	if model.cfg.TokenCap > 0 && tokens > model.cfg.TokenCap {
		budgetStyle = styles.overCapStyle
		budget += "  OVER CAP"
	}
	lines := []string{
		styles.headerStyle.Render("Selection"),
		fmt.Sprintf("%d files, %s", count, tree.FormatSize(size)),
		budgetStyle.Render(budget),
		"",
		styles.headerStyle.Render("File map"),
	}

	previewOpts := model.session.Options
	previewOpts.ShowOnlySelected = true
	previewOpts.HighlightSelected = false
	selected := make(map[string]bool)
	for _, id := range model.session.Selection.SelectedIDs() {
		selected[id] = true
	}
	rendered := tree.Format(model.session.Nodes, selected, previewOpts)
	if rendered == "" {
		lines = append(lines, styles.mutedStyle.Render("(nothing selected)"))
	} else {
		mapLines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
		room := height - len(lines) - 1
		if room < 1 {
			room = 1
		}
		if len(mapLines) > room {
			mapLines = append(mapLines[:room-1], "...")
		}
		lines = append(lines, mapLines...)
	}

	content := strings.Join(lines, "\n")
	content = lipgloss.NewStyle().Width(contentWidth).Height(height).Render(content)
	return styles.panelBorder.Width(contentWidth).Render(content)
}

func renderFooter(model Model, styles uiStyles) string {
	statusLine := trimStatus(model.status, model.width)
	if model.scanning {
		statusLine = fmt.Sprintf("%s  %s", statusLine, spinnerBar(model.progressCount, 18))
	}
	if model.assembling {
		statusLine = fmt.Sprintf("%s  %s", statusLine, percentBar(model.assemblePct, 18))
	}
	statusStyle := styles.mutedStyle
	if strings.Contains(strings.ToLower(model.status), "error") || strings.Contains(strings.ToLower(model.status), "warning") {
		statusStyle = styles.warnStyle
	}
	statusLine = statusStyle.Render(statusLine)

	count, _, tokens := model.session.SelectionSummary()
	left := fmt.Sprintf("Selected: %d (~%d tok)  Sort: %s", count, tokens, strings.ToUpper(string(model.session.Options.SortBy)))
	if model.cfg.ShowHidden {
		left += "  Hidden: on"
	}
	if model.session.Options.ShowOnlySelected {
		left += "  Filter: selected"
	}
	keys := "space select  a/A all/none  v visible  enter expand  e/E all  c copy  s rescan  ? help  q quit"
	footerLine := padLine(left, keys, model.width)
	return strings.Join([]string{statusLine, styles.mutedStyle.Render(footerLine)}, "\n")
}

func renderHelpView(model Model, styles uiStyles) string {
	bindings := []key.Binding{
		model.keys.Up,
		model.keys.Down,
		model.keys.Enter,
		model.keys.Select,
		model.keys.SelectAll,
		model.keys.DeselectAll,
		model.keys.ToggleVis,
		model.keys.ExpandAll,
		model.keys.CollapseAll,
		model.keys.Sort,
		model.keys.Direction,
		model.keys.Sizes,
		model.keys.Tokens,
		model.keys.OnlySelected,
		model.keys.Hidden,
		model.keys.Scan,
		model.keys.Copy,
		model.keys.Help,
		model.keys.Quit,
	}
	lines := []string{styles.headerStyle.Render("promptmap Help"), ""}
	lines = append(lines, styles.headerStyle.Render("Selection"))
	lines = append(lines, "space toggles the node under the cursor; directories cascade to", "their descendants and parent state follows automatically")
	lines = append(lines, "", styles.headerStyle.Render("Assembly"))
	lines = append(lines, "c assembles the selected files into a prompt and copies it;", "files beyond the token cap are cut off, never sampled")
	lines = append(lines, "", styles.headerStyle.Render("Keys"))
	for _, binding := range bindings {
		keysLabel := strings.Join(binding.Keys(), ", ")
		lines = append(lines, fmt.Sprintf("%-14s %s", keysLabel, binding.Help().Desc))
	}
	lines = append(lines, "", "Press ? to close help")
	content := strings.Join(lines, "\n")
	width := model.width
	if width <= 0 {
		width = 80
	}
	return styles.panelBorder.Width(maxInt(width-2, 10)).Render(content)
}

func padLine(left, right string, width int) string {
	if width <= 0 {
		return left
	}
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", space) + right
}

func splitPanels(width int) (int, int, bool) {
	if width < 80 {
		return width, 0, false
	}
	left := int(float64(width) * 0.55)
	if left < 40 {
		left = 40
	}
	right := width - left - 1
	if right < 30 {
		return width, 0, false
	}
	return left, right, true
}

func spinnerBar(count int64, width int) string {
	if width <= 0 {
		return ""
	}
	pos := int(count % int64(width))
	filled := strings.Repeat("█", pos)
	gap := strings.Repeat("░", width-pos)
	return fmt.Sprintf("[%s%s]", filled, gap)
}

func percentBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	filled := clamp(percent*width/100, 0, width)
	return fmt.Sprintf("[%s%s] %d%%", strings.Repeat("█", filled), strings.Repeat("░", width-filled), percent)
}

func trimStatus(message string, width int) string {
	if width <= 0 {
		return message
	}
	max := width - 4
	if max <= 0 || len(message) <= max {
		return message
	}
	return message[:max] + "..."
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
