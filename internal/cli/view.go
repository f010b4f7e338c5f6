package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/lennartvogel/foldview/pkg/fold"
	"github.com/lennartvogel/foldview/pkg/kgraph"
	"github.com/lennartvogel/foldview/pkg/pipeline"
)

// viewCommand creates the view command: an interactive viewport explorer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		canvasW float64
		canvasH float64
	)
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "view [model.json]",
		Short: "Explore fold behavior interactively",
		Long: `Explore fold behavior interactively.

The view command opens a terminal UI simulating an editor viewport over
the model: arrow keys pan, + and - zoom, and the region table updates
live so the expand/collapse behavior of every zoom and scroll step is
visible immediately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], opts, canvasW, canvasH)
		},
	}

	cmd.Flags().Float64Var(&opts.Threshold, "threshold", opts.Threshold, "minimum on-screen size ratio to stay expanded")
	cmd.Flags().Float64Var(&opts.Buffer, "buffer", opts.Buffer, "visibility buffer in diagram units")
	cmd.Flags().Float64Var(&canvasW, "canvas-width", 1920, "simulated canvas width in pixels")
	cmd.Flags().Float64Var(&canvasH, "canvas-height", 1080, "simulated canvas height in pixels")

	return cmd
}

func (c *CLI) runView(ctx context.Context, input string, opts pipeline.Options, canvasW, canvasH float64) error {
	runner := pipeline.NewRunner(nil, c.Logger)
	root, err := runner.LoadModel(input)
	if err != nil {
		return err
	}

	m := newViewModel(ctx, runner, root, input, opts, kgraph.Size{Width: canvasW, Height: canvasH})
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// =============================================================================
// ViewModel - Interactive viewport simulation
// =============================================================================

// panStep is the scroll distance per keypress in diagram units at zoom 1.
const panStep = 100.0

// zoomFactor is the zoom multiplier per keypress.
const zoomFactor = 1.25

// viewModel is the bubbletea model for the viewport explorer.
type viewModel struct {
	ctx     context.Context
	runner  *pipeline.Runner
	root    *kgraph.Node
	modelID string
	opts    pipeline.Options

	viewport fold.Viewport
	states   []fold.RegionState

	height int
	offset int
}

func newViewModel(ctx context.Context, runner *pipeline.Runner, root *kgraph.Node, modelID string, opts pipeline.Options, canvas kgraph.Size) viewModel {
	m := viewModel{
		ctx:      ctx,
		runner:   runner,
		root:     root,
		modelID:  modelID,
		opts:     opts,
		viewport: fold.Viewport{Zoom: 1, Canvas: canvas},
		height:   20,
	}
	m.states = runner.ApplyViewport(ctx, modelID, root, m.viewport, opts)
	return m
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.viewport.Scroll.Y -= panStep / m.viewport.Zoom
		case "down", "j":
			m.viewport.Scroll.Y += panStep / m.viewport.Zoom
		case "left", "h":
			m.viewport.Scroll.X -= panStep / m.viewport.Zoom
		case "right", "l":
			m.viewport.Scroll.X += panStep / m.viewport.Zoom
		case "+", "=":
			m.viewport.Zoom *= zoomFactor
		case "-", "_":
			m.viewport.Zoom /= zoomFactor
		case "0":
			m.viewport.Scroll = kgraph.Point{}
			m.viewport.Zoom = 1
		case "pgup":
			if m.offset > 0 {
				m.offset--
			}
		case "pgdown":
			if m.offset < len(m.states)-1 {
				m.offset++
			}
		default:
			return m, nil
		}
		m.states = m.runner.ApplyViewport(m.ctx, m.modelID, m.root, m.viewport, m.opts)
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m viewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Foldview"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(m.modelID))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←→↑↓ pan  +/- zoom  0 reset  q quit"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %s   %s %s\n\n",
		StyleDim.Render("zoom"),
		StyleHighlight.Render(fmt.Sprintf("%.3f", m.viewport.Zoom)),
		StyleDim.Render("scroll"),
		StyleValue.Render(fmt.Sprintf("(%.0f, %.0f)", m.viewport.Scroll.X, m.viewport.Scroll.Y)),
	))

	end := m.offset + m.height
	if end > len(m.states) {
		end = len(m.states)
	}

	expanded := 0
	for _, s := range m.states {
		if s.Expanded {
			expanded++
		}
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		s := m.states[i]
		state := "collapsed"
		if s.Expanded {
			state = "expanded"
		}
		indent := strings.Repeat("  ", s.Depth)
		rows = append(rows, []string{regionIcon(s.Expanded), indent + s.ID, state})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Region", "State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d/%d regions expanded", expanded, len(m.states))))
	b.WriteString("\n")

	return b.String()
}
