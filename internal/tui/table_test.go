package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-duct-tape/models"
)

func TestTable(t *testing.T) {
	author := &models.Author{ID: 1, Name: "Stanislaw Lem", Country: "Poland"}
	out := Table(author.Meta(), []models.Model{author}, "Authors")

	assert.Contains(t, out, "Authors")
	assert.Contains(t, out, "Stanislaw Lem")
	assert.Contains(t, out, "Poland")
	for _, field := range author.Meta().Fields {
		assert.Contains(t, out, field.DisplayName())
	}
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: ""},
		{name: "zero time", value: time.Time{}, want: ""},
		{name: "time", value: ts, want: "2026-01-02 03:04:05"},
		{name: "string", value: "Solaris", want: "Solaris"},
		{name: "int", value: int64(42), want: "42"},
		{name: "bool", value: true, want: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.value))
		})
	}
}
