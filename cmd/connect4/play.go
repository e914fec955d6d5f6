package main

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iamasit07/connect4-ai/internal/config"
	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/internal/strategy"
)

var (
	playStack  string
	playSecond bool

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play against a strategy stack in the terminal",
		Run:   runPlay,
	}
)

func init() {
	playCmd.Flags().StringVar(&playStack, "stack", "", "policies for the AI, comma separated")
	playCmd.Flags().BoolVar(&playSecond, "second", false, "let the AI open the game")
}

func runPlay(cmd *cobra.Command, args []string) {
	stackNames := parseStack(playStack, config.AppConfig.DefaultStack)
	if stackNames == nil {
		stackNames = strategy.DefaultStackNames()
	}

	model, err := newPlayModel(stackNames, !playSecond, config.AppConfig.SearchDepth)
	if err != nil {
		log.Fatalf("Invalid stack: %v", err)
	}

	if _, err := tea.NewProgram(model).Run(); err != nil {
		log.Fatalf("TUI error: %v", err)
	}
}

type aiMoveMsg struct {
	column int
	err    error
}

type playModel struct {
	game        *domain.Game
	agent       strategy.Agent
	humanPiece  domain.Piece
	aiPiece     domain.Piece
	stackNames  []string
	searchDepth int

	cursor   int
	thinking bool
	status   string
}

func newPlayModel(stackNames []string, humanFirst bool, searchDepth int) (*playModel, error) {
	humanPiece, aiPiece := domain.PlayerA, domain.PlayerB
	if !humanFirst {
		humanPiece, aiPiece = domain.PlayerB, domain.PlayerA
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	agent, err := strategy.BuildStack(stackNames, aiPiece, rng, searchDepth)
	if err != nil {
		return nil, err
	}

	return &playModel{
		game:        domain.NewGame(),
		agent:       agent,
		humanPiece:  humanPiece,
		aiPiece:     aiPiece,
		stackNames:  stackNames,
		searchDepth: searchDepth,
		cursor:      domain.Columns / 2,
		status:      "Your move",
	}, nil
}

func (m *playModel) Init() tea.Cmd {
	if m.game.Board.NextPlayer() == m.aiPiece {
		return m.aiMove()
	}
	return nil
}

func (m *playModel) aiMove() tea.Cmd {
	m.thinking = true
	m.status = "Thinking..."
	board := m.game.Board
	return func() tea.Msg {
		col, ok := m.agent.Play(board)
		if !ok {
			return aiMoveMsg{err: domain.ErrGameOver}
		}
		return aiMoveMsg{column: col}
	}
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case aiMoveMsg:
		m.thinking = false
		if msg.err != nil {
			m.status = fmt.Sprintf("AI error: %v", msg.err)
			return m, nil
		}
		if err := m.game.MakeMove(msg.column); err != nil {
			m.status = fmt.Sprintf("AI error: %v", err)
			return m, nil
		}
		m.refreshStatus()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "r":
			fresh, err := newPlayModel(m.stackNames, m.humanPiece == domain.PlayerA, m.searchDepth)
			if err != nil {
				return m, nil
			}
			return fresh, fresh.Init()

		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}

		case "right", "l":
			if m.cursor < domain.Columns-1 {
				m.cursor++
			}

		case "enter", " ":
			return m.humanMove(m.cursor)

		case "1", "2", "3", "4", "5", "6", "7":
			col := int(msg.String()[0] - '1')
			m.cursor = col
			return m.humanMove(col)
		}
	}
	return m, nil
}

func (m *playModel) humanMove(column int) (tea.Model, tea.Cmd) {
	if m.thinking || m.game.IsFinished() {
		return m, nil
	}
	if m.game.Board.NextPlayer() != m.humanPiece {
		return m, nil
	}
	if err := m.game.MakeMove(column); err != nil {
		m.status = err.Error()
		return m, nil
	}
	if m.game.IsFinished() {
		m.refreshStatus()
		return m, nil
	}
	return m, m.aiMove()
}

func (m *playModel) refreshStatus() {
	switch m.game.Status {
	case domain.StatusWon:
		if m.game.Winner == m.humanPiece {
			m.status = "You win! Press r to play again, q to quit"
		} else {
			m.status = "The AI wins. Press r to play again, q to quit"
		}
	case domain.StatusDraw:
		m.status = "Draw. Press r to play again, q to quit"
	default:
		m.status = "Your move"
	}
}

var (
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	humanCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	aiCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func (m *playModel) View() string {
	var sb strings.Builder

	// Cursor row above the board.
	for col := 0; col < domain.Columns; col++ {
		if col == m.cursor {
			sb.WriteString(cursorStyle.Render(" v "))
		} else {
			sb.WriteString("   ")
		}
	}
	sb.WriteString("\n")

	var grid strings.Builder
	for row := domain.Rows - 1; row >= 0; row-- {
		for col := 0; col < domain.Columns; col++ {
			switch m.game.Board.Get(row, col) {
			case m.humanPiece:
				grid.WriteString(humanCellStyle.Render(" ● "))
			case m.aiPiece:
				grid.WriteString(aiCellStyle.Render(" ● "))
			default:
				grid.WriteString(" · ")
			}
		}
		if row > 0 {
			grid.WriteString("\n")
		}
	}
	sb.WriteString(boardStyle.Render(grid.String()))
	sb.WriteString("\n")

	for col := 0; col < domain.Columns; col++ {
		sb.WriteString(helpStyle.Render(fmt.Sprintf(" %d ", col+1)))
	}
	sb.WriteString("\n\n")

	sb.WriteString(statusStyle.Render(m.status))
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("←/→ move · enter drop · 1-7 direct · r restart · q quit"))
	sb.WriteString("\n")

	return sb.String()
}
