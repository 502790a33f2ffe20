package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sigcrop/pkg/catalog"
)

// View renders the whole interface.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	th := themeFor(m.dark)

	if m.completed {
		var sections []string
		sections = append(sections, th.done.Render("All files processed"))
		sections = append(sections, th.help.Render("press q to quit"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.table == nil || m.sess == nil {
		return "Loading catalog..."
	}

	var sections []string

	title := fmt.Sprintf("%s  |  (%d, %d)", m.name, m.table.Rows, m.table.Cols)
	sections = append(sections, th.title.Render(title))

	state := m.sess.State()
	frac := float64(state.CurrentIndex) / float64(state.TotalFiles)
	sections = append(sections, fmt.Sprintf("%s  %s", m.prog.ViewAs(frac), m.sess.Progress()))

	chartWidth := m.width - 6
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := m.height - 14
	if chartHeight < 6 {
		chartHeight = 6
	}

	sections = append(sections, th.panel.Render(
		renderChart(m.table, chartWidth, chartHeight, th, m.selStart, m.selEnd)))

	sel := fmt.Sprintf("selection: [%d .. %d]  (%d samples)",
		m.selStart, m.selEnd, m.selEnd-m.selStart+1)
	sections = append(sections, th.status.Render(sel))

	if m.preview != nil {
		previewHeight := chartHeight / 3
		if previewHeight < 4 {
			previewHeight = 4
		}
		sections = append(sections, th.title.Render(
			fmt.Sprintf("preview  (%d, %d)", m.preview.Rows, m.preview.Cols)))
		sections = append(sections, th.panel.Render(
			renderChart(m.preview, chartWidth, previewHeight, th, -1, -1)))
	}

	if m.editingTag {
		sections = append(sections, "tag: "+m.tagInput.View())
	} else if tag := m.sess.Tag(); tag != "" {
		sections = append(sections, th.help.Render("tag: "+tag))
	}

	if m.showHelp {
		sections = append(sections, th.help.Render(helpText))
	} else {
		sections = append(sections, th.help.Render("ctrl+s save · ctrl+d skip · space next · ? help"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

const helpText = `←/h →/l   move selection        ,/.      shrink/grow selection
ctrl+s    save selected crop     ctrl+d   skip current file
space     next file              t        toggle theme
g         edit tag prefix        q        quit`

// renderChart draws up to two channels as a block chart, one column per
// sample bucket. Columns inside [selStart, selEnd] get the selection
// background; pass a negative range to disable highlighting.
func renderChart(t *catalog.Table, width, height int, th theme, selStart, selEnd int) string {
	if t.Rows < width {
		width = t.Rows
	}

	channels := t.Cols
	if channels > 2 {
		channels = 2
	}
	chStyles := []lipgloss.Style{th.channel0, th.channel1}
	chMarks := []string{"•", "◦"}

	lo, hi := tableRange(t, channels)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	// cell grid; [row][col], row 0 at the top
	grid := make([][]string, height)
	for r := range grid {
		grid[r] = make([]string, width)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	for ch := 0; ch < channels; ch++ {
		for c := 0; c < width; c++ {
			v := bucketMean(t, ch, c, width)
			r := int(math.Round((hi - v) / span * float64(height-1)))
			if r < 0 {
				r = 0
			}
			if r > height-1 {
				r = height - 1
			}
			grid[r][c] = chStyles[ch].Render(chMarks[ch])
		}
	}

	// Column range covered by the selection
	c0 := sampleToColumn(selStart, t.Rows, width)
	c1 := sampleToColumn(selEnd, t.Rows, width)

	var b strings.Builder
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			cell := grid[r][c]
			if selStart >= 0 && c >= c0 && c <= c1 && cell == " " {
				cell = th.selection.Render(" ")
			}
			b.WriteString(cell)
		}
		if r < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func sampleToColumn(sample, rows, width int) int {
	if sample < 0 {
		return -1
	}
	col := sample * width / rows
	if col > width-1 {
		col = width - 1
	}
	return col
}

// bucketMean averages channel ch over the samples that map to column c.
func bucketMean(t *catalog.Table, ch, c, width int) float64 {
	start := c * t.Rows / width
	end := (c + 1) * t.Rows / width
	if end <= start {
		end = start + 1
	}
	sum := 0.0
	for i := start; i < end && i < t.Rows; i++ {
		sum += float64(t.At(i, ch))
	}
	return sum / float64(end-start)
}

func tableRange(t *catalog.Table, channels int) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for ch := 0; ch < channels; ch++ {
		for i := 0; i < t.Rows; i++ {
			v := float64(t.At(i, ch))
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}
