package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"floorplan/internal/domain"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary
	colorGreen  = lipgloss.Color("35")  // Green - success, available
	colorYellow = lipgloss.Color("220") // Amber - warnings, reserved
	colorRed    = lipgloss.Color("167") // Soft red - occupied
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(colorGray).Padding(0, 1)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	statusStyles = map[domain.TableStatus]lipgloss.Style{
		domain.TableStatusAvailable: lipgloss.NewStyle().Foreground(colorGreen),
		domain.TableStatusOccupied:  lipgloss.NewStyle().Foreground(colorRed),
		domain.TableStatusReserved:  lipgloss.NewStyle().Foreground(colorYellow),
	}
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+value)
}

// =============================================================================
// Tables
// =============================================================================

func renderGrid(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleDim).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func printFloorPlans(w io.Writer, plans []domain.FloorPlan) {
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{p.ID, p.Name, fmt.Sprintf("%.0f×%.0f", p.CanvasWidth, p.CanvasHeight)})
	}
	fmt.Fprintln(w, renderGrid([]string{"ID", "NAME", "CANVAS"}, rows))
}

func printTables(w io.Writer, tables []domain.Table, overlaps map[string][]string) {
	rows := make([][]string, 0, len(tables))
	for _, t := range tables {
		flag := ""
		if len(overlaps[t.ID]) > 0 {
			flag = styleWarning.Render("overlap")
		}
		rows = append(rows, []string{
			strconv.Itoa(t.Number),
			t.ID,
			string(t.Shape),
			strconv.Itoa(t.Capacity),
			fmt.Sprintf("%.0f,%.0f", t.X, t.Y),
			fmt.Sprintf("%.0f×%.0f", t.Width, t.Height),
			statusStyles[t.Status].Render(string(t.Status)),
			flag,
		})
	}
	fmt.Fprintln(w, renderGrid([]string{"#", "ID", "SHAPE", "SEATS", "POS", "SIZE", "STATUS", ""}, rows))
}

func printTemplates(w io.Writer, templates []domain.TableTemplate) {
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []string{
			t.Name, string(t.Shape), strconv.Itoa(t.Capacity),
			fmt.Sprintf("%.0f×%.0f", t.DefaultWidth, t.DefaultHeight),
		})
	}
	fmt.Fprintln(w, renderGrid([]string{"TEMPLATE", "SHAPE", "SEATS", "SIZE"}, rows))
}

func formatSize(w, h float64) string {
	return fmt.Sprintf("%.0f×%.0f", w, h)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
