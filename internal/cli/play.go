package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vizbind/pkg/chart"
	"github.com/matzehuels/vizbind/pkg/pipeline"
	"github.com/matzehuels/vizbind/pkg/sink"
	"github.com/matzehuels/vizbind/pkg/transition"
)

const (
	playFrameRate = 16 * time.Millisecond
	playBarWidth  = 24
	playMaxRows   = 20
)

var (
	playBarStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	playEnterStyle = lipgloss.NewStyle().Foreground(colorGreen)
	playExitStyle  = lipgloss.NewStyle().Foreground(colorRed)
	playHeadStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
)

// tickMsg carries the terminal's animation frame time.
type tickMsg time.Time

// playModel drives a chart instance from bubbletea frames. Each frame
// moves the transition clock to wall time; keys apply the next dataset.
type playModel struct {
	in    *pipeline.Inputs
	inst  *chart.Instance
	clock *transition.Clock
	scene *sink.Scene

	frame    int // Next dataset frame to apply
	auto     time.Duration
	lastStep time.Time
	err      error
}

func newPlayModel(ctx context.Context, in *pipeline.Inputs, opts pipeline.Options, auto time.Duration, now time.Time) (*playModel, error) {
	m := &playModel{
		in:    in,
		clock: transition.NewClock(now),
		scene: sink.NewScene(),
		auto:  auto,
	}
	m.inst = chart.New(m.scene,
		chart.WithScheduler(m.clock),
		chart.WithLogger(opts.Logger),
		chart.WithEase(in.Ease),
	)
	if err := m.step(ctx, now); err != nil {
		return nil, err
	}
	return m, nil
}

// step applies the next dataset frame.
func (m *playModel) step(ctx context.Context, now time.Time) error {
	if m.frame >= len(m.in.Frames) {
		return nil
	}
	if _, err := m.inst.Update(ctx, m.in.Frames[m.frame], m.in.Config); err != nil {
		return err
	}
	m.frame++
	m.lastStep = now
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(playFrameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *playModel) Init() tea.Cmd {
	return tick()
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		m.clock.Set(now)
		if m.auto > 0 && now.Sub(m.lastStep) >= m.auto && m.frame < len(m.in.Frames) {
			m.err = m.step(context.Background(), now)
		}
		return m, tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.inst.Dispose()
			return m, tea.Quit
		case "n", "right", " ":
			m.err = m.step(context.Background(), m.clock.Now())
		case "r":
			m.frame = 0
			m.err = m.step(context.Background(), m.clock.Now())
		}
	}
	return m, nil
}

func (m *playModel) View() string {
	var b strings.Builder
	title := m.in.Chart.Title
	if title == "" {
		title = "vizbind"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("frame %d/%d · %d transitions · %d marks",
		m.frame, len(m.in.Frames), m.inst.InFlight(), m.scene.Len())))
	b.WriteString("\n\n")

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("COMPONENT", "KEY", "SHAPE", "POSITION", "OPACITY").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return playHeadStyle
			}
			return lipgloss.NewStyle().PaddingRight(1)
		})
	marks := m.scene.Marks()
	for i, mk := range marks {
		if i == playMaxRows {
			t.Row("…", strconv.Itoa(len(marks)-i)+" more", "", "", "")
			break
		}
		t.Row(mk.Component, phaseStyle(mk).Render(mk.Key), mk.Shape,
			bar(position(mk, m.in.Config.Width), playBarWidth),
			opacity(mk))
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error() + "\n")
	}
	b.WriteString(StyleDim.Render("n next frame  r restart  q quit"))
	b.WriteString("\n")
	return b.String()
}

func phaseStyle(m sink.Mark) lipgloss.Style {
	switch m.Phase {
	case chart.PhaseEnter:
		return playEnterStyle
	case chart.PhaseExit:
		return playExitStyle
	}
	return StyleValue
}

// position returns the horizontal position of a mark as a fraction of width.
func position(m sink.Mark, width float64) float64 {
	if width <= 0 {
		return 0
	}
	for _, k := range []string{"cx", "x", "x1"} {
		if v, ok := m.Attrs.Float(k); ok {
			return v / width
		}
	}
	return 0
}

func opacity(m sink.Mark) string {
	v, ok := m.Attrs.Float("opacity")
	if !ok {
		v = 1
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// bar draws frac of width as a block bar.
func bar(frac float64, width int) string {
	n := int(min(max(frac, 0), 1)*float64(width) + 0.5)
	return playBarStyle.Render(strings.Repeat("█", n)) + StyleDim.Render(strings.Repeat("·", width-n))
}

func (c *CLI) playCommand() *cobra.Command {
	var (
		flags inputFlags
		auto  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "play <spec> <dataset> [dataset...]",
		Short: "Animate dataset frames in the terminal",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(args[0], args[1:])
			if err != nil {
				return err
			}
			opts.SetDefaults()
			in, err := pipeline.Decode(opts)
			if err != nil {
				return err
			}
			m, err := newPlayModel(cmd.Context(), in, opts, auto, time.Now())
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&auto, "auto", 0, "advance frames automatically at this interval")
	return cmd
}
