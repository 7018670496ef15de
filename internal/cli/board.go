package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/lifesync/internal/cli/formatter"
	"github.com/alexanderramin/lifesync/internal/config"
	"github.com/alexanderramin/lifesync/internal/domain"
	"github.com/alexanderramin/lifesync/internal/gesture"
	"github.com/alexanderramin/lifesync/internal/layout"
	"github.com/alexanderramin/lifesync/internal/logging"
	"github.com/alexanderramin/lifesync/internal/planner"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Screen geometry. The body between header and footer is the scrolling
// timeline; each row covers 60/rowsPerHour minutes.
const (
	boardHeaderRows = 2
	boardFooterRows = 2
	boardGutter     = 6
	wheelRows       = 3
)

// boardLoadedMsg carries a fresh copy of one day's blocks. err is set when
// the load, or the write that preceded it, failed.
type boardLoadedMsg struct {
	day    string
	blocks []domain.TimeBlock
	note   string
	err    error
}

// boardModel is the two-column day board. Pointer gestures go through the
// planner, are applied to the local copy immediately and persisted through
// DayService; every write ends with a reload so ids and linked blocks
// created by the service replace the optimistic guesses.
type boardModel struct {
	app     *App
	planner *planner.Planner
	keys    boardKeyMap
	help    help.Model

	day    string
	blocks []domain.TimeBlock

	rowsPerHour int
	scroll      int
	width       int
	height      int

	selected  string
	anchorRow int

	form       *huh.Form
	editing    domain.TimeBlock
	editTitle  string
	editNotes  string
	editStatus string

	flash string
	err   error
}

func newBoardModel(app *App, day string) *boardModel {
	cfg := app.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	rows := cfg.Timeline.RowsPerHour
	if rows <= 0 {
		rows = 4
	}
	p := planner.New(planner.Config{
		Day: day,
		// One row is one "pixel"; a drag shorter than a row is a tap.
		Scale:       gesture.Scale{PixelsPerMinute: float64(rows) / 60, TapThresholdPx: 1},
		PlanColor:   cfg.Defaults.PlanColor,
		ActualColor: cfg.Defaults.ActualColor,
	})
	return &boardModel{
		app:         app,
		planner:     p,
		keys:        newBoardKeyMap(),
		help:        help.New(),
		day:         day,
		rowsPerHour: rows,
		scroll:      8 * rows,
		width:       80,
		height:      24,
	}
}

func (m *boardModel) Init() tea.Cmd {
	return m.load()
}

func (m *boardModel) load() tea.Cmd {
	day := m.day
	return func() tea.Msg {
		blocks, err := m.app.Day.Blocks(context.Background(), day)
		return boardLoadedMsg{day: day, blocks: blocks, err: err}
	}
}

// persist runs write and then reloads the day, whether or not the write
// succeeded, so a rejected change is rolled back on screen.
func (m *boardModel) persist(note string, write func(ctx context.Context) error) tea.Cmd {
	day := m.day
	return func() tea.Msg {
		ctx := context.Background()
		werr := write(ctx)
		if werr != nil {
			log := logging.Component("board")
			log.Warn().Err(werr).Str("day", day).Msg("write failed")
		}
		blocks, err := m.app.Day.Blocks(ctx, day)
		if werr != nil {
			err = werr
		}
		return boardLoadedMsg{day: day, blocks: blocks, note: note, err: err}
	}
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.scrollBy(0)
		return m, nil
	case boardLoadedMsg:
		if msg.day != m.day {
			return m, nil
		}
		m.blocks = msg.blocks
		m.err = msg.err
		if msg.err == nil && msg.note != "" {
			m.flash = msg.note
		}
		if _, ok := domain.FindBlock(m.blocks, m.selected); !ok {
			m.selected = ""
		}
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.PrevDay):
		return m, m.shiftDay(-1)
	case key.Matches(msg, m.keys.NextDay):
		return m, m.shiftDay(1)
	case key.Matches(msg, m.keys.Today):
		return m, m.setDay(domain.DateOf(m.app.now()))
	case key.Matches(msg, m.keys.Up):
		m.scrollBy(-1)
	case key.Matches(msg, m.keys.Down):
		m.scrollBy(1)
	case key.Matches(msg, m.keys.Complete):
		return m, m.setStatus(domain.StatusCompleted)
	case key.Matches(msg, m.keys.Fail):
		return m, m.setStatus(domain.StatusFailed)
	case key.Matches(msg, m.keys.Reset):
		return m, m.setStatus(domain.StatusTodo)
	case key.Matches(msg, m.keys.Edit):
		if b, ok := domain.FindBlock(m.blocks, m.selected); ok {
			return m, m.openEditor(b)
		}
	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteSelected()
	case key.Matches(msg, m.keys.Deselect):
		m.selected = ""
	case key.Matches(msg, m.keys.Reload):
		return m, m.load()
	}
	return m, nil
}

func (m *boardModel) shiftDay(days int) tea.Cmd {
	t, err := time.Parse(domain.DateLayout, m.day)
	if err != nil {
		return nil
	}
	return m.setDay(domain.DateOf(t.AddDate(0, 0, days)))
}

func (m *boardModel) setDay(day string) tea.Cmd {
	if day == m.day {
		return nil
	}
	m.day = day
	m.planner.SetDay(day)
	m.blocks = nil
	m.selected = ""
	return m.load()
}

func (m *boardModel) setStatus(status domain.BlockStatus) tea.Cmd {
	b, ok := domain.FindBlock(m.blocks, m.selected)
	if !ok {
		return nil
	}
	if !b.IsPlan() {
		m.flash = "only plan blocks have a status"
		return nil
	}
	batch := m.planner.ApplyStatusTransition(b, status, m.blocks)
	m.blocks = batch.Apply(m.blocks)
	return m.persist(fmt.Sprintf("%s → %s", b.Title, status), func(ctx context.Context) error {
		_, err := m.app.Day.SetStatus(ctx, b.ID, status)
		return err
	})
}

func (m *boardModel) deleteSelected() tea.Cmd {
	b, ok := domain.FindBlock(m.blocks, m.selected)
	if !ok {
		return nil
	}
	m.blocks = m.planner.DeleteBlock(b.ID, m.blocks).Apply(m.blocks)
	m.selected = ""
	return m.persist("deleted "+b.Title, func(ctx context.Context) error {
		_, err := m.app.Day.Delete(ctx, b.ID)
		return err
	})
}

// --- Pointer gestures ---

func (m *boardModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollBy(-wheelRows)
		return nil
	case tea.MouseButtonWheelDown:
		m.scrollBy(wheelRows)
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.press(msg)
		}
	case tea.MouseActionMotion:
		m.drag(msg)
	case tea.MouseActionRelease:
		return m.release()
	}
	return nil
}

func (m *boardModel) press(msg tea.MouseMsg) {
	m.flash = ""
	column, row, ok := m.cellAt(msg.X, msg.Y)
	if !ok {
		return
	}
	m.anchorRow = row
	ptr := gesture.Pointer{Y: float64(row)}

	req := planner.GestureRequest{Kind: gesture.Create, Column: column, Pointer: ptr}
	if b, ok := m.blockAt(column, msg.X, row); ok {
		m.selected = b.ID
		req = planner.GestureRequest{Kind: m.editKind(b, row, msg.Shift), BlockID: b.ID, Column: b.Column, Pointer: ptr}
	}
	m.planner.BeginGesture(req, m.blocks)
}

// editKind picks the gesture for a press on b: the first and last rows of a
// block three rows or taller are resize handles, anything else moves it.
// Shift always resizes from the end.
func (m *boardModel) editKind(b domain.TimeBlock, row int, shift bool) gesture.Kind {
	if shift {
		return gesture.ResizeEnd
	}
	first, end := m.rowSpan(b)
	if end-first >= 3 {
		switch row {
		case first:
			return gesture.ResizeStart
		case end - 1:
			return gesture.ResizeEnd
		}
	}
	return gesture.Move
}

func (m *boardModel) drag(msg tea.MouseMsg) {
	h := m.planner.Active()
	if h == nil {
		return
	}
	row := m.rowAt(msg.Y)
	y := float64(row)
	// A create covers every row the pointer passed over, the anchor
	// included, so dragging down reaches the bottom edge of the row.
	if h.Kind() == gesture.Create && row > m.anchorRow {
		y = float64(row + 1)
	}
	m.planner.UpdateGesture(h, gesture.Pointer{Y: y})
}

func (m *boardModel) release() tea.Cmd {
	intent := m.planner.Release()
	if intent == nil {
		return nil
	}
	batch := intent.Batch()
	m.blocks = batch.Apply(m.blocks)
	m.selected = intent.Block.ID

	verb := "moved"
	if intent.Op == domain.IntentCreate {
		verb = "added"
	}
	save := m.persist(fmt.Sprintf("%s %s %s", verb, intent.Block.Title, formatter.Span(intent.Block)), func(ctx context.Context) error {
		return m.app.Day.Apply(ctx, batch)
	})
	if intent.OpenEditor {
		return tea.Batch(save, m.openEditor(intent.Block))
	}
	return save
}

// --- Editor ---

func (m *boardModel) openEditor(b domain.TimeBlock) tea.Cmd {
	m.editing = b
	m.editTitle = b.Title
	m.editNotes = b.Description
	m.editStatus = string(b.Status)
	m.form = blockEditorForm(&m.editTitle, &m.editNotes, &m.editStatus, b.Column)
	return m.form.Init()
}

func (m *boardModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		m.flash = "edit cancelled"
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		next := m.editing
		next.Title = strings.TrimSpace(m.editTitle)
		next.Description = m.editNotes
		if next.IsPlan() {
			next.Status = domain.BlockStatus(m.editStatus)
		}
		m.blocks = m.planner.UpdateBlock(next, m.blocks).Apply(m.blocks)
		return m, tea.Batch(cmd, m.persist("saved "+next.Title, func(ctx context.Context) error {
			_, err := m.app.Day.Update(ctx, next)
			return err
		}))
	case huh.StateAborted:
		m.form = nil
	}
	return m, cmd
}

// --- Geometry ---

func (m *boardModel) bodyRows() int {
	return max(m.height-boardHeaderRows-boardFooterRows, 1)
}

func (m *boardModel) columnWidth() int {
	return max((m.width-boardGutter-1)/2, 4)
}

func (m *boardModel) totalRows() int {
	return 24 * m.rowsPerHour
}

func (m *boardModel) minutesPerRow() int {
	return 60 / m.rowsPerHour
}

func (m *boardModel) scrollBy(delta int) {
	m.scroll = min(max(m.scroll+delta, 0), max(m.totalRows()-m.bodyRows(), 0))
}

// rowAt maps a screen line to a timeline row, clamped to the day.
func (m *boardModel) rowAt(y int) int {
	return min(max(y-boardHeaderRows+m.scroll, 0), m.totalRows()-1)
}

// cellAt maps a screen position to the timeline column and row under it.
func (m *boardModel) cellAt(x, y int) (domain.Column, int, bool) {
	if y < boardHeaderRows || y >= boardHeaderRows+m.bodyRows() {
		return "", 0, false
	}
	row := y - boardHeaderRows + m.scroll
	if row >= m.totalRows() {
		return "", 0, false
	}
	w := m.columnWidth()
	switch {
	case x >= boardGutter && x < boardGutter+w:
		return domain.ColumnPlan, row, true
	case x > boardGutter+w && x <= boardGutter+2*w:
		return domain.ColumnActual, row, true
	}
	return "", 0, false
}

func (m *boardModel) columnX(column domain.Column) int {
	if column == domain.ColumnPlan {
		return boardGutter
	}
	return boardGutter + m.columnWidth() + 1
}

// rowSpan is the half-open row range b covers; every block gets at least
// one row.
func (m *boardModel) rowSpan(b domain.TimeBlock) (int, int) {
	per := m.minutesPerRow()
	first := b.StartTime / per
	end := (b.End() + per - 1) / per
	return first, max(end, first+1)
}

// laneSpan is the half-open cell range of a lane inside a column.
func laneSpan(slot layout.Slot, width int) (int, int) {
	count := max(slot.LaneCount, 1)
	return width * slot.Lane / count, width * (slot.Lane + 1) / count
}

// blockAt finds the block drawn at screen column x on row.
func (m *boardModel) blockAt(column domain.Column, x, row int) (domain.TimeBlock, bool) {
	w := m.columnWidth()
	rel := x - m.columnX(column)
	slots := m.planner.ComputeLayout(m.blocks, column)
	for _, b := range layout.Columnar(m.planner.OnDay(m.blocks), column) {
		first, end := m.rowSpan(b)
		if row < first || row >= end {
			continue
		}
		x0, x1 := laneSpan(slots[b.ID], w)
		if rel >= x0 && rel < x1 {
			return b, true
		}
	}
	return domain.TimeBlock{}, false
}

// --- Rendering ---

type cell struct {
	r     rune
	style *lipgloss.Style
	// wide marks the second half of a double-width rune.
	wide bool
}

var (
	hourLineStyle = lipgloss.NewStyle().Foreground(formatter.ColorDim).Faint(true)
	ghostStyle    = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorDim)
	separator     = formatter.StyleDim.Render("│")
)

func (m *boardModel) View() string {
	if m.form != nil {
		return formatter.RenderBox("Edit block", m.form.View())
	}

	preview := m.planner.Preview(m.blocks)
	first, n, w := m.scroll, m.bodyRows(), m.columnWidth()
	plan := m.renderColumn(preview, domain.ColumnPlan, first, n, w)
	actual := m.renderColumn(preview, domain.ColumnActual, first, n, w)

	var sb strings.Builder
	sb.WriteString(m.headerView() + "\n")
	sb.WriteString(strings.Repeat(" ", boardGutter) +
		formatter.StyleHeader.Render(padRight("PLAN", w)) + separator + formatter.StyleHeader.Render(padRight("ACTUAL", w)) + "\n")

	for i := 0; i < n; i++ {
		row := first + i
		gutter := strings.Repeat(" ", boardGutter)
		if row < m.totalRows() && row%m.rowsPerHour == 0 {
			gutter = formatter.Dim(domain.FormatClock(row*m.minutesPerRow()) + " ")
		}
		sb.WriteString(gutter + renderCells(plan[i]) + separator + renderCells(actual[i]) + "\n")
	}

	sb.WriteString(m.statusLine() + "\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m *boardModel) headerView() string {
	title := m.day
	if t, err := time.Parse(domain.DateLayout, m.day); err == nil {
		title = t.Format("Mon 2006-01-02")
	}
	if m.day == domain.DateOf(m.app.now()) {
		title += " (today)"
	}

	plans, done, logged := 0, 0, 0
	for _, b := range m.blocks {
		switch {
		case b.IsPlan():
			plans++
			if b.Status == domain.StatusCompleted {
				done++
			}
		case b.IsActualLike():
			logged += b.Duration
		}
	}
	summary := fmt.Sprintf("%d/%d done · logged %s", done, plans, formatter.FormatMinutes(logged))
	return "◀ " + formatter.StyleHeader.Render(title) + " ▶  " + formatter.Dim(summary)
}

func (m *boardModel) statusLine() string {
	if m.err != nil {
		return formatter.StyleRed.Render("Error: " + m.err.Error())
	}
	if m.flash != "" {
		return formatter.Dim(m.flash)
	}
	if h := m.planner.Active(); h != nil {
		p := h.Proposal()
		return formatter.StyleYellow.Render(fmt.Sprintf("%s %s-%s",
			h.Kind(), domain.FormatClock(p.Start), domain.FormatClock(p.Start+p.Duration)))
	}
	if b, ok := domain.FindBlock(m.blocks, m.selected); ok {
		return fmt.Sprintf("%s  %s  %s", formatter.Bold(b.Title), formatter.Span(b), formatter.StatusIndicator(b.Status))
	}
	return formatter.Dim("drag on a timeline to add a block · click a block to select it")
}

// renderColumn draws rows [first, first+n) of one timeline into cells.
func (m *boardModel) renderColumn(blocks []domain.TimeBlock, column domain.Column, first, n, width int) [][]cell {
	grid := make([][]cell, n)
	for i := range grid {
		fill, style := ' ', (*lipgloss.Style)(nil)
		if (first+i)%m.rowsPerHour == 0 {
			fill, style = '┈', &hourLineStyle
		}
		grid[i] = make([]cell, width)
		for x := range grid[i] {
			grid[i][x] = cell{r: fill, style: style}
		}
	}

	slots := m.planner.ComputeLayout(blocks, column)
	for _, b := range layout.Columnar(m.planner.OnDay(blocks), column) {
		x0, x1 := laneSpan(slots[b.ID], width)
		r0, r1 := m.rowSpan(b)
		style := m.blockStyle(b)
		for row := max(r0, first); row < min(r1, first+n); row++ {
			line := grid[row-first][x0:x1]
			for x := range line {
				line[x] = cell{r: ' ', style: style}
			}
			switch row - r0 {
			case 0:
				writeText(line, " "+blockLabel(b), style)
			case 1:
				writeText(line, " "+formatter.Span(b), style)
			}
		}
	}
	return grid
}

func (m *boardModel) blockStyle(b domain.TimeBlock) *lipgloss.Style {
	if b.ID == gesture.GhostID {
		return &ghostStyle
	}
	s := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1d2021")).
		Background(lipgloss.Color(domain.CoalesceStr(b.Color, string(formatter.ColorBlue))))
	if b.IsPlan() && b.Status == domain.StatusFailed {
		s = s.Strikethrough(true)
	}
	if b.ID == m.selected {
		s = s.Bold(true).Underline(true)
	}
	return &s
}

func blockLabel(b domain.TimeBlock) string {
	if b.ID == gesture.GhostID {
		return "new"
	}
	switch {
	case b.DeviceSource != domain.DeviceNone:
		return "◆ " + b.Title
	case b.IsPlan() && b.Status == domain.StatusCompleted:
		return "✔ " + b.Title
	case b.IsPlan() && b.Status == domain.StatusFailed:
		return "✖ " + b.Title
	}
	return b.Title
}

// writeText lays text over line from the left, clipping at the edge.
func writeText(line []cell, text string, style *lipgloss.Style) {
	x := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > len(line) {
			break
		}
		line[x] = cell{r: r, style: style}
		for k := 1; k < w; k++ {
			line[x+k] = cell{style: style, wide: true}
		}
		x += w
	}
}

func renderCells(line []cell) string {
	var sb strings.Builder
	var run []rune
	var cur *lipgloss.Style
	flush := func() {
		if len(run) == 0 {
			return
		}
		s := string(run)
		if cur != nil {
			s = cur.Render(s)
		}
		sb.WriteString(s)
		run = run[:0]
	}
	for _, c := range line {
		if c.style != cur {
			flush()
			cur = c.style
		}
		if c.wide {
			continue
		}
		run = append(run, c.r)
	}
	flush()
	return sb.String()
}

func padRight(s string, width int) string {
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return runewidth.Truncate(s, width, "")
}
