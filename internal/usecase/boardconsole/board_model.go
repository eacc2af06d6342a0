package boardconsole

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/domain/complaint"
	domainkanban "condoqueixas/internal/domain/kanban"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/usecase/kanban"
)

const maxActionLines = 8

// BoardService is the part of the kanban service the console drives.
type BoardService interface {
	GetBoard(ctx context.Context, boardID string) (kanban.BoardView, error)
	MoveCard(ctx context.Context, input kanban.MoveCardInput) (kanban.MoveResult, error)
	SyncAll(ctx context.Context, requester complaint.Requester) (kanban.SyncSummary, error)
}

type Options struct {
	BoardID         string
	Requester       complaint.Requester
	RefreshInterval time.Duration
}

type boardModel struct {
	ctx             context.Context
	service         BoardService
	boardID         string
	requester       complaint.Requester
	refreshInterval time.Duration

	view      kanban.BoardView
	loaded    bool
	column    int
	row       int
	status    string
	actionLog []string
}

type boardLoadedMsg struct {
	view      kanban.BoardView
	focusCard string
	err       error
}

type tickMsg struct{}

type actionDoneMsg struct {
	action string
	result string
	// focusCard keeps the cursor on the moved card after reload.
	focusCard string
	err       error
}

func NewBoardModel(ctx context.Context, service BoardService, options Options) tea.Model {
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &boardModel{
		ctx:             logging.WithAttrs(ctx, slog.String("component", "console.board")),
		service:         service,
		boardID:         strings.TrimSpace(options.BoardID),
		requester:       options.Requester,
		refreshInterval: interval,
		status:          "loading",
	}
}

func (m *boardModel) Init() tea.Cmd {
	return tea.Batch(m.loadBoardCmd(), m.tickCmd())
}

func (m *boardModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadBoardCmd(), m.tickCmd())
	case boardLoadedMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + errs.PublicMessage(msg.err)
			return m, nil
		}
		m.view = msg.view
		m.loaded = true
		if msg.focusCard != "" {
			m.focus(msg.focusCard)
		}
		m.clampCursor()
		m.status = fmt.Sprintf("board %q loaded, %d cards", m.view.Board.Title, m.cardCount())
		return m, nil
	case actionDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %s", msg.action, errs.PublicMessage(msg.err))
			m.appendAction(msg.action, "failed: "+errs.PublicMessage(msg.err))
			return m, m.loadBoardCmd()
		}
		m.status = fmt.Sprintf("%s done: %s", msg.action, msg.result)
		m.appendAction(msg.action, msg.result)
		return m, m.reloadFocusingCmd(msg.focusCard)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.status = "refreshing"
			return m, m.loadBoardCmd()
		case "left", "h":
			if m.column > 0 {
				m.column--
				m.clampCursor()
			}
			return m, nil
		case "right", "l":
			if m.column < len(m.view.Columns)-1 {
				m.column++
				m.clampCursor()
			}
			return m, nil
		case "up", "k":
			if m.row > 0 {
				m.row--
			}
			return m, nil
		case "down", "j":
			if m.row < len(m.currentCards())-1 {
				m.row++
			}
			return m, nil
		case "[":
			return m, m.moveAcrossCmd(-1)
		case "]":
			return m, m.moveAcrossCmd(1)
		case "K":
			return m, m.reorderCmd(-1)
		case "J":
			return m, m.reorderCmd(1)
		case "s":
			return m, m.syncAllCmd()
		}
	}
	return m, nil
}

func (m *boardModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))
	columnStyle := lipgloss.NewStyle().Width(30).PaddingRight(2)

	var builder strings.Builder
	title := "Complaint Board"
	if m.loaded {
		title = m.view.Board.Title
	}
	builder.WriteString(titleStyle.Render(title))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf("user=%s role=%s refresh=%s", m.requester.ID, m.requester.Role, m.refreshInterval)))
	builder.WriteString("\n\n")

	if !m.loaded || len(m.view.Columns) == 0 {
		builder.WriteString(dimStyle.Render("- no columns"))
		builder.WriteString("\n\n")
	} else {
		rendered := make([]string, 0, len(m.view.Columns))
		for columnIndex, column := range m.view.Columns {
			var cell strings.Builder
			cell.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", column.Column.Name, len(column.Cards))))
			cell.WriteString("\n")
			if len(column.Cards) == 0 {
				cell.WriteString(dimStyle.Render("- empty"))
			}
			for rowIndex, card := range column.Cards {
				line := fmt.Sprintf("%4d %s", card.Order, card.Title)
				if columnIndex == m.column && rowIndex == m.row {
					cell.WriteString(selectedStyle.Render("> " + line))
				} else {
					cell.WriteString("  " + line)
				}
				cell.WriteString("\n")
			}
			rendered = append(rendered, columnStyle.Render(cell.String()))
		}
		builder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
		builder.WriteString("\n\n")
	}

	builder.WriteString(headerStyle.Render("Status"))
	builder.WriteString("\n- " + firstNonEmpty(m.status, "ready") + "\n\n")

	builder.WriteString(headerStyle.Render("Actions"))
	builder.WriteString("\n")
	if len(m.actionLog) == 0 {
		builder.WriteString(dimStyle.Render("- no actions"))
		builder.WriteString("\n")
	}
	for _, line := range m.actionLog {
		builder.WriteString("- " + line + "\n")
	}
	builder.WriteString("\n")

	builder.WriteString(dimStyle.Render("Keys: ←/h →/l column  ↑/k ↓/j card  [ ] move column  K/J reorder  s sync  g refresh  q quit"))
	return builder.String()
}

func (m *boardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *boardModel) loadBoardCmd() tea.Cmd {
	return func() tea.Msg {
		view, err := m.service.GetBoard(m.ctx, m.boardID)
		return boardLoadedMsg{view: view, err: err}
	}
}

// reloadFocusingCmd reloads the board and, when cardID is set, moves the
// cursor to wherever that card landed.
func (m *boardModel) reloadFocusingCmd(cardID string) tea.Cmd {
	return func() tea.Msg {
		view, err := m.service.GetBoard(m.ctx, m.boardID)
		return boardLoadedMsg{view: view, focusCard: cardID, err: err}
	}
}

func (m *boardModel) focus(cardID string) {
	for columnIndex, column := range m.view.Columns {
		for rowIndex, card := range column.Cards {
			if card.ID == cardID {
				m.column, m.row = columnIndex, rowIndex
				return
			}
		}
	}
}

// moveAcrossCmd sends the selected card to the end of the neighbouring column.
func (m *boardModel) moveAcrossCmd(step int) tea.Cmd {
	card, ok := m.selectedCard()
	if !ok {
		m.status = "no card selected"
		return nil
	}
	target := m.column + step
	if target < 0 || target >= len(m.view.Columns) {
		m.status = "no column in that direction"
		return nil
	}
	destination := m.view.Columns[target]
	return m.moveCmd(card.ID, card.Title, destination.Column.ID, len(destination.Cards))
}

// reorderCmd shifts the selected card one slot inside its column.
func (m *boardModel) reorderCmd(step int) tea.Cmd {
	card, ok := m.selectedCard()
	if !ok {
		m.status = "no card selected"
		return nil
	}
	index := m.row + step
	if index < 0 || index >= len(m.currentCards()) {
		m.status = "card already at the edge"
		return nil
	}
	return m.moveCmd(card.ID, card.Title, m.view.Columns[m.column].Column.ID, index)
}

func (m *boardModel) moveCmd(cardID string, title string, targetColumnID string, index int) tea.Cmd {
	m.status = "moving " + title
	boardID := m.view.Board.ID
	targetName := m.columnName(targetColumnID)
	return func() tea.Msg {
		result, err := m.service.MoveCard(m.ctx, kanban.MoveCardInput{
			Requester:      m.requester,
			BoardID:        boardID,
			CardID:         cardID,
			TargetColumnID: targetColumnID,
			Index:          index,
		})
		if err != nil {
			return actionDoneMsg{action: "move", err: err}
		}
		return actionDoneMsg{
			action:    "move",
			result:    fmt.Sprintf("%s -> %s @%d", title, targetName, result.Order),
			focusCard: cardID,
		}
	}
}

func (m *boardModel) syncAllCmd() tea.Cmd {
	m.status = "syncing complaints"
	return func() tea.Msg {
		summary, err := m.service.SyncAll(m.ctx, m.requester)
		if err != nil {
			return actionDoneMsg{action: "sync", err: err}
		}
		return actionDoneMsg{
			action: "sync",
			result: fmt.Sprintf("scanned=%d created=%d moved=%d updated=%d", summary.Scanned, summary.Created, summary.Moved, summary.Updated),
		}
	}
}

func (m *boardModel) currentCards() []domainkanban.Card {
	if m.column < 0 || m.column >= len(m.view.Columns) {
		return nil
	}
	return m.view.Columns[m.column].Cards
}

func (m *boardModel) selectedCard() (domainkanban.Card, bool) {
	cards := m.currentCards()
	if m.row < 0 || m.row >= len(cards) {
		return domainkanban.Card{}, false
	}
	return cards[m.row], true
}

func (m *boardModel) clampCursor() {
	if m.column >= len(m.view.Columns) {
		m.column = len(m.view.Columns) - 1
	}
	if m.column < 0 {
		m.column = 0
	}
	cards := m.currentCards()
	if m.row >= len(cards) {
		m.row = len(cards) - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m *boardModel) cardCount() int {
	total := 0
	for _, column := range m.view.Columns {
		total += len(column.Cards)
	}
	return total
}

func (m *boardModel) columnName(columnID string) string {
	for _, column := range m.view.Columns {
		if column.Column.ID == columnID {
			return column.Column.Name
		}
	}
	return columnID
}

func (m *boardModel) appendAction(action string, result string) {
	line := fmt.Sprintf("%s %s %s", time.Now().Format("15:04:05"), action, result)
	m.actionLog = append(m.actionLog, line)
	if len(m.actionLog) > maxActionLines {
		m.actionLog = m.actionLog[len(m.actionLog)-maxActionLines:]
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
