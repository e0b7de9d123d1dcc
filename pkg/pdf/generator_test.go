package pdf

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Table(t *testing.T) {
	g, err := NewGenerator()
	if err != nil {
		t.Skip("no unicode font available")
	}

	rows := make([][]string, 0, 60)
	for i := 0; i < 60; i++ {
		rows = append(rows, []string{fmt.Sprint(i), "Ravi Kumar", "9876543210", "registered"})
	}

	data, err := g.Table(Table{
		Title:   "Registrations",
		Headers: []string{"#", "Name", "Phone", "Status"},
		Rows:    rows,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestColumnWidths(t *testing.T) {
	assert.Equal(t, []float64{10, 20}, columnWidths([]float64{10, 20}, 2))
	got := columnWidths(nil, 2)
	assert.InDelta(t, (pageWidth-2*margin)/2, got[0], 0.001)
}
