package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/prk7048/LOA-AGENT/internal/engine"
	"github.com/prk7048/LOA-AGENT/internal/storage"
	"github.com/prk7048/LOA-AGENT/internal/ui"
)

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	characters  []storage.Character
	todos       []storage.Todo
	expeditions []storage.ExpeditionTask
	income      *engine.Income

	tab      engine.Category
	expanded map[string]bool
	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	characters  []storage.Character
	todos       []storage.Todo
	expeditions []storage.ExpeditionTask
	income      *engine.Income
	resets      []string
	err         error
}

type toggledMsg struct {
	label string
	done  bool
	err   error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	return boardModel{
		ctx:      ctx,
		svc:      svc,
		tab:      engine.CategoryWeekly,
		expanded: map[string]bool{},
		loading:  true,
		lastLog:  "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd(true)
}

// loadCmd reads everything the board shows. With reset set it first applies
// due resets, so a refresh after 06:00 shows cleared boxes.
func (m boardModel) loadCmd(reset bool) tea.Cmd {
	return func() tea.Msg {
		var msg loadedMsg
		if reset {
			lines, err := m.svc.Tick(m.ctx)
			if err != nil {
				return loadedMsg{err: err}
			}
			msg.resets = lines
		}
		var err error
		if msg.characters, err = m.svc.ListCharacters(m.ctx, storage.OrderByProgress); err != nil {
			return loadedMsg{err: err}
		}
		if msg.todos, err = m.svc.ListTasks(m.ctx, ""); err != nil {
			return loadedMsg{err: err}
		}
		if msg.expeditions, err = m.svc.ListExpeditions(m.ctx); err != nil {
			return loadedMsg{err: err}
		}
		if msg.income, err = m.svc.IncomeSummary(m.ctx, m.svc.Now()); err != nil {
			return loadedMsg{err: err}
		}
		return msg
	}
}

func (m boardModel) toggleCmd(l boardLine) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch l.kind {
		case lineTodo:
			_, err = m.svc.ToggleTask(m.ctx, l.id, !l.done)
		case lineExpedition:
			err = m.svc.SetExpeditionChecked(m.ctx, l.id, !l.done)
		}
		return toggledMsg{label: l.title, done: !l.done, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.characters = msg.characters
		m.todos = msg.todos
		m.expeditions = msg.expeditions
		m.income = msg.income
		if len(m.expanded) == 0 {
			for _, c := range m.characters {
				m.expanded[c.Name] = true
			}
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", m.svc.Now().In(m.svc.Location()).Format("15:04:05"))
		if len(msg.resets) > 0 {
			m.lastLog += " " + strings.Join(msg.resets, ", ")
		}
		return m, nil
	case toggledMsg:
		if msg.err != nil {
			m.lastLog = "Update failed: " + msg.err.Error()
			return m, nil
		}
		state := "cleared"
		if msg.done {
			state = "done"
		}
		m.lastLog = fmt.Sprintf("%s %s.", msg.label, state)
		return m, m.loadCmd(false)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd(true)
		case "tab":
			if m.tab == engine.CategoryWeekly {
				m.tab = engine.CategoryDaily
			} else {
				m.tab = engine.CategoryWeekly
			}
			m.selected = 0
			return m, nil
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.boardLines())-1 {
				m.selected++
			}
			return m, nil
		case "enter", "c", " ", "space":
			lines := m.boardLines()
			if m.selected < 0 || m.selected >= len(lines) {
				return m, nil
			}
			line := lines[m.selected]
			if line.kind == lineCharacter {
				m.expanded[line.key] = !m.expanded[line.key]
				return m, nil
			}
			if line.kind == lineHeader {
				return m, nil
			}
			return m, m.toggleCmd(line)
		}
	}
	return m, nil
}

type lineKind int

const (
	lineHeader lineKind = iota
	lineCharacter
	lineTodo
	lineExpedition
)

type boardLine struct {
	kind     lineKind
	id       int64
	key      string
	title    string
	detail   string
	done     bool
	depth    int
	expanded bool
}

// boardLines flattens expeditions and the characters of the current tab.
func (m boardModel) boardLines() []boardLine {
	var out []boardLine
	if len(m.expeditions) > 0 {
		out = append(out, boardLine{kind: lineHeader, title: ui.IconCastle + " Expedition"})
		for _, e := range m.expeditions {
			detail := strings.ToLower(e.ResetCycle)
			if engine.ResetCycle(e.ResetCycle) == engine.CycleInterval {
				detail = fmt.Sprintf("every %dd", e.IntervalDays)
			}
			out = append(out, boardLine{kind: lineExpedition, id: e.ID, title: e.Name, detail: detail, done: e.Checked, depth: 1})
		}
	}

	byCharacter := map[string][]storage.Todo{}
	for _, t := range m.todos {
		if engine.Category(t.Category) == m.tab {
			byCharacter[t.CharacterName] = append(byCharacter[t.CharacterName], t)
		}
	}
	for _, c := range m.characters {
		out = append(out, boardLine{
			kind:     lineCharacter,
			key:      c.Name,
			title:    c.Name,
			detail:   fmt.Sprintf("%s | Lv.%.2f | %s%s", c.Class, c.ItemLevel, ui.IconSword, ui.GroupThousands(int(c.CombatPower))),
			expanded: m.expanded[c.Name],
		})
		if !m.expanded[c.Name] {
			continue
		}
		for _, t := range byCharacter[c.Name] {
			detail := ""
			if t.Reward > 0 {
				detail = ui.FormatGold(t.Reward)
			}
			if t.Target > 1 {
				detail = strings.TrimSpace(fmt.Sprintf("%s (%d/%d)", detail, t.Current, t.Target))
			}
			out = append(out, boardLine{kind: lineTodo, id: t.ID, title: t.TaskName, detail: detail, done: t.Done(), depth: 1})
		}
	}
	return out
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 30
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	now := m.svc.Now()
	next := engine.NextResetBoundaries(now, m.svc.Location())
	tab := "Weekly"
	if m.tab == engine.CategoryDaily {
		tab = "Daily"
	}
	return fmt.Sprintf("LOA homework | %s | %d characters | daily reset in %s | weekly reset in %s",
		tab, len(m.characters), untilText(next.Daily.Sub(now)), untilText(next.Weekly.Sub(now)))
}

func (m boardModel) renderSidebar() string {
	if m.income == nil {
		return "Income\n\nLoading…"
	}
	lines := []string{"Weekly gold"}
	for _, c := range m.income.Characters {
		lines = append(lines, fmt.Sprintf("- %s", c.Name))
		lines = append(lines, fmt.Sprintf("  %s %s", progressBar(c.Earned, c.Potential, 12), ui.GroupThousands(c.Earned)))
	}
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Earned %s / %s", ui.GroupThousands(m.income.Earned), ui.FormatGold(m.income.Potential)))
	lines = append(lines, fmt.Sprintf("Spent  %s", ui.FormatGold(m.income.Spent)))
	if m.income.TargetDate != "" {
		lines = append(lines, fmt.Sprintf("By %s: +%s", m.income.TargetDate, ui.FormatGold(m.income.ProjectedByDate)))
	}
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- space: toggle")
	lines = append(lines, "- enter: fold character")
	lines = append(lines, "- tab: weekly/daily")
	lines = append(lines, "- r: reset check + refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	lines := m.boardLines()
	if len(lines) == 0 {
		return "(no characters yet, run `loa sync <name>`)"
	}
	selected := m.selected
	if selected >= len(lines) {
		selected = len(lines) - 1
	}

	var out []string
	for i, l := range lines {
		cursor := "  "
		if i == selected {
			cursor = "> "
		}
		indent := strings.Repeat("  ", l.depth)
		var text string
		switch l.kind {
		case lineHeader:
			text = l.title
		case lineCharacter:
			fold := "▸ "
			if l.expanded {
				fold = "▾ "
			}
			text = fold + l.title + "  " + l.detail
		default:
			text = ui.Check(l.done) + " " + l.title
			if l.detail != "" {
				text += "  " + l.detail
			}
		}
		out = append(out, cursor+indent+text)
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func untilText(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Minute)
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	h := int(d / time.Hour)
	mins := int((d % time.Hour) / time.Minute)
	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, h)
	}
	return fmt.Sprintf("%dh %02dm", h, mins)
}

func progressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	ratio := float64(value) / float64(total)
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
