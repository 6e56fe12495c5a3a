package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MKhiriev/go-duct-tape/models"
)

// Table renders rows of one model as a bordered table with a column per
// field, in field order. caption is printed above it.
func Table(meta models.Meta, rows []models.Model, caption string) string {
	headers := make([]string, len(meta.Fields))
	for i, field := range meta.Fields {
		headers[i] = field.DisplayName()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, row := range rows {
		values := models.Values(row)
		cells := make([]string, len(values))
		for i, value := range values {
			cells[i] = formatValue(value)
		}
		t.Row(cells...)
	}

	var out strings.Builder
	if caption != "" {
		out.WriteString(titleStyle.Render(caption))
		out.WriteString("\n")
	}
	out.WriteString(t.Render())
	return out.String()
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(time.DateTime)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
