package table

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/imgajeed76/pgaccess/internal/admin"
	"github.com/imgajeed76/pgaccess/internal/ui"
	"github.com/imgajeed76/pgaccess/internal/ui/styles"
	"github.com/imgajeed76/pgaccess/internal/view"
)

// ═══════════════════════════════════════════════════════════════════════════
// Constants
// ═══════════════════════════════════════════════════════════════════════════

const (
	maxColWidth = 36
	minColWidth = 4

	defaultWidth  = 100
	defaultHeight = 30
)

// ErrNoScreens is returned by Browse when given nothing to show.
var ErrNoScreens = errors.New("no screens to browse")

type browseMode int

const (
	modeNormal browseMode = iota
	modeSearch
	modeConfirm
	modeRename
)

// ═══════════════════════════════════════════════════════════════════════════
// Messages
// ═══════════════════════════════════════════════════════════════════════════

type refreshedMsg struct {
	screen int
	err    error
}

type submittedMsg struct {
	screen int
	err    error
}

type statusClearMsg struct{}

// ═══════════════════════════════════════════════════════════════════════════
// Model
// ═══════════════════════════════════════════════════════════════════════════

type browseModel struct {
	ctx     context.Context
	log     *zap.SugaredLogger
	screens []admin.Screen
	active  int
	grid    view.Grid

	cursor    int // selected row on the visible page
	colCursor int // selected column
	width     int
	height    int
	mode      browseMode

	search      textinput.Model
	name        textinput.Model
	description textinput.Model
	spinner     spinner.Model

	// fetching is shared between model copies so Init can mark a fetch.
	fetching   []bool
	submitting bool

	statusMsg   string
	statusUntil time.Time
}

// ═══════════════════════════════════════════════════════════════════════════
// Key Bindings
// ═══════════════════════════════════════════════════════════════════════════

type browseKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	FirstPage  key.Binding
	LastPage   key.Binding
	Sort       key.Binding
	Search     key.Binding
	Open       key.Binding
	Dismiss    key.Binding
	NextScreen key.Binding
	YankCell   key.Binding
	YankRow    key.Binding
	YankID     key.Binding
	Quit       key.Binding

	Confirm   key.Binding
	Cancel    key.Binding
	NextField key.Binding
	Submit    key.Binding
}

var browseKeys = browseKeyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev column")),
	Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next column")),
	NextPage:   key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next page")),
	PrevPage:   key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "previous page")),
	FirstPage:  key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first page")),
	LastPage:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last page")),
	Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "row action")),
	Dismiss:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss alert")),
	NextScreen: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch table")),
	YankCell:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
	YankRow:    key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy row")),
	YankID:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "copy id")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

	Confirm:   key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirm")),
	Cancel:    key.NewBinding(key.WithKeys("esc", "n"), key.WithHelp("esc", "cancel")),
	NextField: key.NewBinding(key.WithKeys("tab", "shift+tab", "up", "down"), key.WithHelp("tab", "next field")),
	Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
}

// ═══════════════════════════════════════════════════════════════════════════
// Entry Point
// ═══════════════════════════════════════════════════════════════════════════

// Browse runs the interactive browser over screens until the user quits.
// Tab cycles between screens; each is fetched when first shown and again
// whenever its view state goes stale.
func Browse(ctx context.Context, screens []admin.Screen, log *zap.SugaredLogger) error {
	if len(screens) == 0 {
		return ErrNoScreens
	}
	m := newBrowseModel(ctx, screens, log)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	return ti
}

func newBrowseModel(ctx context.Context, screens []admin.Screen, log *zap.SugaredLogger) browseModel {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Accent)),
	)
	m := browseModel{
		ctx:         ctx,
		log:         log,
		screens:     screens,
		width:       defaultWidth,
		height:      defaultHeight,
		search:      newInput(screens[0].SearchPlaceholder(), 100),
		name:        newInput("Name", 100),
		description: newInput("Description", 200),
		spinner:     sp,
		fetching:    make([]bool, len(screens)),
	}
	m.search.Prompt = "/"
	m.sync()
	return m
}

func (m browseModel) screen() admin.Screen { return m.screens[m.active] }

// ═══════════════════════════════════════════════════════════════════════════
// Bubble Tea Interface
// ═══════════════════════════════════════════════════════════════════════════

func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh())
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshedMsg:
		m.fetching[msg.screen] = false
		if msg.err != nil {
			m.log.Debugw("refresh failed", "screen", m.screens[msg.screen].Title(), "error", msg.err)
		}
		m.sync()
		cmd := m.refresh()
		return m, cmd

	case submittedMsg:
		return m.afterSubmit(msg)

	case statusClearMsg:
		if !m.statusUntil.IsZero() && time.Now().After(m.statusUntil) {
			m.statusMsg = ""
			m.statusUntil = time.Time{}
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeRename:
			return m.updateRename(msg)
		default:
			return m.updateNormal(msg)
		}
	}

	return m, nil
}

func (m browseModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.screen()

	switch {
	case key.Matches(msg, browseKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, browseKeys.NextScreen):
		m.active = (m.active + 1) % len(m.screens)
		m.cursor, m.colCursor = 0, 0
		m.search.Placeholder = m.screen().SearchPlaceholder()
		m.sync()
		m.search.SetValue(m.grid.Query)
		cmd := m.refresh()
		return m, cmd

	case key.Matches(msg, browseKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, browseKeys.Down):
		if m.cursor < len(m.grid.Cells)-1 {
			m.cursor++
		}

	case key.Matches(msg, browseKeys.Left):
		if m.colCursor > 0 {
			m.colCursor--
		}

	case key.Matches(msg, browseKeys.Right):
		if m.colCursor < len(m.grid.IDs)-1 {
			m.colCursor++
		}

	case key.Matches(msg, browseKeys.Sort):
		if m.colCursor < len(m.grid.IDs) && m.grid.Sortable[m.colCursor] {
			s.ToggleSort(m.grid.IDs[m.colCursor])
			m.cursor = 0
		}
		m.sync()
		cmd := m.refresh()
		return m, cmd

	case key.Matches(msg, browseKeys.NextPage):
		s.NextPage()
		m.cursor = 0
		m.sync()
		cmd := m.refresh()
		return m, cmd

	case key.Matches(msg, browseKeys.PrevPage):
		s.PreviousPage()
		m.cursor = 0
		m.sync()
		cmd := m.refresh()
		return m, cmd

	case key.Matches(msg, browseKeys.FirstPage):
		s.GoToPage(1)
		m.cursor = 0
		m.sync()
		cmd := m.refresh()
		return m, cmd

	case key.Matches(msg, browseKeys.LastPage):
		s.GoToPage(max(1, m.grid.TotalPages))
		m.cursor = 0
		m.sync()
		cmd := m.refresh()
		return m, cmd

	case key.Matches(msg, browseKeys.Search):
		m.mode = modeSearch
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, browseKeys.Dismiss):
		s.DismissAlert()

	case key.Matches(msg, browseKeys.Open):
		return m.openRow()

	case key.Matches(msg, browseKeys.YankCell):
		cmd := m.yankCell()
		return m, cmd

	case key.Matches(msg, browseKeys.YankRow):
		cmd := m.yankRow()
		return m, cmd

	case key.Matches(msg, browseKeys.YankID):
		cmd := m.yankID()
		return m, cmd
	}

	return m, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Fetch / Submit
// ═══════════════════════════════════════════════════════════════════════════

// refresh fetches the active screen when it is stale and not already
// fetching.
func (m *browseModel) refresh() tea.Cmd {
	i := m.active
	s := m.screens[i]
	if m.fetching[i] || !s.Stale() {
		return nil
	}
	m.fetching[i] = true
	ctx := m.ctx
	return func() tea.Msg {
		return refreshedMsg{screen: i, err: s.Refresh(ctx)}
	}
}

func (m *browseModel) submit(form admin.Form) tea.Cmd {
	i := m.active
	s := m.screens[i]
	ctx := m.ctx
	m.submitting = true
	return func() tea.Msg {
		return submittedMsg{screen: i, err: s.Submit(ctx, form)}
	}
}

func (m browseModel) afterSubmit(msg submittedMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	s := m.screens[msg.screen]
	m.sync()

	// A validation failure keeps the dialog open with its message.
	if s.Dialog().Open() {
		return m, nil
	}
	m.mode = modeNormal
	m.name.Blur()
	m.description.Blur()
	if msg.err != nil {
		m.log.Debugw("submit failed", "screen", s.Title(), "error", msg.err)
	}

	cmds := []tea.Cmd{m.refresh()}
	if toast := s.TakeToast(); toast != "" {
		cmds = append(cmds, m.setStatus(toast))
	}
	return m, tea.Batch(cmds...)
}

// sync pulls the active screen's grid and keeps the cursors in range.
func (m *browseModel) sync() {
	m.grid = m.screen().Grid()
	// A screen that was never fetched shows placeholders, not "No results."
	if m.screen().Stale() && m.grid.Err == nil && len(m.grid.Cells) == 0 {
		m.grid.Loading = true
	}
	if n := len(m.grid.Cells); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	if n := len(m.grid.IDs); m.colCursor >= n {
		m.colCursor = max(0, n-1)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Search
// ═══════════════════════════════════════════════════════════════════════════

func (m browseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.search.Blur()
		m.search.SetValue("")
		m.screen().Search("")
		m.cursor = 0
		m.sync()
		cmd := m.refresh()
		return m, cmd
	case tea.KeyEnter:
		m.mode = modeNormal
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	// Live filter as user types
	if v := m.search.Value(); v != before {
		m.screen().Search(v)
		m.cursor = 0
		m.sync()
		return m, tea.Batch(cmd, m.refresh())
	}
	return m, cmd
}

// ═══════════════════════════════════════════════════════════════════════════
// Dialogs
// ═══════════════════════════════════════════════════════════════════════════

func (m browseModel) openRow() (tea.Model, tea.Cmd) {
	if m.grid.Status() != view.StatusRows {
		return m, nil
	}
	s := m.screen()
	if err := s.Open(m.cursor); err != nil {
		cmd := m.setStatus(err.Error())
		return m, cmd
	}

	d := s.Dialog()
	switch d.Kind {
	case admin.DialogDelete:
		m.mode = modeConfirm
	case admin.DialogRename:
		m.mode = modeRename
		m.name.SetValue(d.Name)
		m.description.SetValue(d.Description)
		m.name.CursorEnd()
		m.description.Blur()
		cmd := m.name.Focus()
		return m, cmd
	}
	return m, nil
}

func (m browseModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	switch {
	case key.Matches(msg, browseKeys.Confirm):
		cmd := m.submit(admin.Form{})
		return m, cmd
	case key.Matches(msg, browseKeys.Cancel):
		m.screen().Cancel()
		m.mode = modeNormal
	}
	return m, nil
}

func (m browseModel) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	switch {
	case msg.Type == tea.KeyEsc:
		m.screen().Cancel()
		m.mode = modeNormal
		m.name.Blur()
		m.description.Blur()
		return m, nil

	case key.Matches(msg, browseKeys.Submit):
		cmd := m.submit(admin.Form{
			Name:        m.name.Value(),
			Description: m.description.Value(),
		})
		return m, cmd

	case key.Matches(msg, browseKeys.NextField):
		var cmd tea.Cmd
		if m.name.Focused() {
			m.name.Blur()
			cmd = m.description.Focus()
		} else {
			m.description.Blur()
			cmd = m.name.Focus()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	if m.name.Focused() {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.description, cmd = m.description.Update(msg)
	}
	return m, cmd
}

// ═══════════════════════════════════════════════════════════════════════════
// Status Message (flash notification)
// ═══════════════════════════════════════════════════════════════════════════

const statusDuration = 2 * time.Second

// setStatus sets a temporary status message that auto-clears.
func (m *browseModel) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusUntil = time.Now().Add(statusDuration)
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// Clipboard (yank)
// ═══════════════════════════════════════════════════════════════════════════

func (m browseModel) selectedRow() []string {
	if m.grid.Status() != view.StatusRows || m.cursor >= len(m.grid.Cells) {
		return nil
	}
	return m.grid.Cells[m.cursor]
}

// yankCell copies the selected cell value to the system clipboard.
func (m *browseModel) yankCell() tea.Cmd {
	row := m.selectedRow()
	if row == nil || m.colCursor >= len(row) {
		return nil
	}
	val := row[m.colCursor]
	if err := clipboard.WriteAll(val); err != nil {
		return m.setStatus(fmt.Sprintf("clipboard error: %s", err))
	}
	return m.setStatus("Copied: " + runewidth.Truncate(val, 40, "…"))
}

// yankID copies the entity id of the selected row.
func (m *browseModel) yankID() tea.Cmd {
	if m.selectedRow() == nil {
		return nil
	}
	id := rowKey(m.grid, m.cursor)
	if id == "" {
		return nil
	}
	if err := clipboard.WriteAll(id); err != nil {
		return m.setStatus(fmt.Sprintf("clipboard error: %s", err))
	}
	return m.setStatus("Copied id: " + id)
}

// yankRow copies the data cells of the selected row, tab separated.
func (m *browseModel) yankRow() tea.Cmd {
	row := m.selectedRow()
	if row == nil {
		return nil
	}
	cols := m.grid.DataColumns()
	vals := make([]string, len(cols))
	for i, c := range cols {
		vals[i] = row[c]
	}
	if err := clipboard.WriteAll(strings.Join(vals, "\t")); err != nil {
		return m.setStatus(fmt.Sprintf("clipboard error: %s", err))
	}
	return m.setStatus(fmt.Sprintf("Copied row (%d columns)", len(vals)))
}

// ═══════════════════════════════════════════════════════════════════════════
// View
// ═══════════════════════════════════════════════════════════════════════════

func (m browseModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.renderTabs())
	sb.WriteString("\n")

	// Search bar
	switch {
	case m.mode == modeSearch:
		sb.WriteString(m.search.View())
	case m.grid.Query != "":
		sb.WriteString(styles.MutedMsg("filter: " + m.grid.Query))
	default:
		sb.WriteString(styles.MutedMsg(m.screen().SearchPlaceholder()))
	}
	sb.WriteString("\n")

	if alert := m.screen().Alert(); alert != "" {
		sb.WriteString(styles.Render(styles.AlertStyle, alert))
		sb.WriteString(styles.MutedMsg("  x dismiss"))
		sb.WriteString("\n")
	}

	sb.WriteString(m.renderBody())
	sb.WriteString("\n")
	sb.WriteString(Footer(m.grid))
	sb.WriteString("\n")

	if m.mode == modeConfirm || m.mode == modeRename {
		sb.WriteString(m.renderDialog())
		sb.WriteString("\n")
	}

	// Status / help
	switch {
	case m.statusMsg != "" && time.Now().Before(m.statusUntil):
		sb.WriteString(styles.SuccessMsg(m.statusMsg))
	case m.mode == modeSearch:
		sb.WriteString(styles.MutedMsg("enter confirm  esc clear"))
	case m.mode == modeConfirm:
		sb.WriteString(styles.MutedMsg("y confirm  esc cancel"))
	case m.mode == modeRename:
		sb.WriteString(styles.MutedMsg("tab next field  enter save  esc cancel"))
	default:
		sb.WriteString(styles.MutedMsg("↑↓←→ nav  s sort  / search  n/p page  enter action  y/i copy  tab switch  q quit"))
	}

	return sb.String()
}

func (m browseModel) renderTabs() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(styles.Accent)
	tabs := make([]string, len(m.screens))
	for i, s := range m.screens {
		if i == m.active {
			tabs[i] = styles.Render(active, s.Title())
		} else {
			tabs[i] = styles.Mute(s.Title())
		}
	}
	line := strings.Join(tabs, styles.Mute("  │  "))
	if m.grid.Loading && m.grid.Err == nil {
		line += "  " + m.spinner.View()
	}
	return line
}

func (m browseModel) renderDialog() string {
	d := m.screen().Dialog()
	var sb strings.Builder
	sb.WriteString(styles.SectionHeader(d.Title))
	sb.WriteString("\n")
	if d.Message != "" {
		sb.WriteString(d.Message)
		sb.WriteString("\n")
	}
	if m.mode == modeRename {
		sb.WriteString("\n")
		sb.WriteString(m.name.View())
		sb.WriteString("\n")
		sb.WriteString(m.description.View())
		sb.WriteString("\n")
	}
	if d.Err != "" {
		sb.WriteString(styles.Errorf("%s", d.Err))
		sb.WriteString("\n")
	}
	if m.submitting {
		sb.WriteString(m.spinner.View() + " Saving...")
	}
	return styles.Render(styles.DialogStyle, strings.TrimRight(sb.String(), "\n"))
}

// ═══════════════════════════════════════════════════════════════════════════
// Render Table
// ═══════════════════════════════════════════════════════════════════════════

func (m browseModel) colWidths(headers []string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = max(minColWidth, runewidth.StringWidth(h))
	}
	for _, row := range m.grid.Cells {
		for i, val := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(val))
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxColWidth)
	}
	return widths
}

func (m browseModel) renderBody() string {
	g := m.grid
	if g.Status() == view.StatusError {
		return ErrorPanel(g.Err)
	}
	if len(g.Headers) == 0 {
		return "No columns"
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Info)
	selectedHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Accent)
	separatorStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	selectedCellStyle := lipgloss.NewStyle().Background(styles.Accent).Foreground(lipgloss.Color("#000000"))

	headers := HeaderCells(g)
	widths := m.colWidths(headers)
	viewport := max(1, m.width-2)

	var sb strings.Builder
	var line strings.Builder
	for i, h := range headers {
		cell := PadOrTruncate(h, widths[i])
		if i == m.colCursor {
			line.WriteString(styles.Render(selectedHeaderStyle, cell))
		} else {
			line.WriteString(styles.Render(headerStyle, cell))
		}
		line.WriteString("  ")
	}
	sb.WriteString(clip(line.String(), viewport))
	sb.WriteString("\n")

	line.Reset()
	for _, w := range widths {
		line.WriteString(strings.Repeat("─", w) + "  ")
	}
	sb.WriteString(clip(styles.Render(separatorStyle, line.String()), viewport))
	sb.WriteString("\n")

	switch g.Status() {
	case view.StatusLoading:
		for range skeletonRows(g) {
			line.Reset()
			for _, w := range widths {
				line.WriteString(ui.Skeleton(4) + strings.Repeat(" ", w-4) + "  ")
			}
			sb.WriteString(clip(line.String(), viewport))
			sb.WriteString("\n")
		}
	case view.StatusEmpty:
		sb.WriteString(styles.MutedMsg(NoResults))
		sb.WriteString("\n")
	default:
		for r, row := range g.Cells {
			line.Reset()
			for i, val := range row {
				if i >= len(widths) {
					break
				}
				cell := PadOrTruncate(val, widths[i])
				switch {
				case r == m.cursor && i == m.colCursor:
					line.WriteString(styles.Render(selectedCellStyle, cell))
				case r == m.cursor:
					line.WriteString(styles.Render(styles.SelectedStyle, cell))
				default:
					line.WriteString(cell)
				}
				line.WriteString("  ")
			}
			sb.WriteString(clip(line.String(), viewport))
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// ═══════════════════════════════════════════════════════════════════════════
// ANSI-aware clipping
// ═══════════════════════════════════════════════════════════════════════════

// clip cuts s to width visible runes, keeping ANSI escape sequences intact
// and closing any style still open at the cut.
func clip(s string, width int) string {
	var out strings.Builder
	out.Grow(len(s))

	visible := 0
	styled := false
	inEscape := false
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\x1b' && i+1 < len(runes) && runes[i+1] == '[' {
			inEscape = true
			out.WriteRune(r)
			continue
		}
		if inEscape {
			out.WriteRune(r)
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
				styled = true
			}
			continue
		}
		if visible >= width {
			break
		}
		out.WriteRune(r)
		visible++
	}

	if styled && visible >= width {
		out.WriteString("\x1b[0m")
	}
	return strings.TrimRight(out.String(), " ")
}
