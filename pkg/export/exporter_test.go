package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Fecha", "Carátula"},
		Rows: []map[string]string{
			{"Fecha": "13/05/2025", "Carátula": "Smith v. Jones, S.A."},
			{"Fecha": "20/05/2025"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter(0, false).Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Fecha,Carátula\n13/05/2025,\"Smith v. Jones, S.A.\"\n20/05/2025,\n", string(out))
}

func TestCSVExporterSemicolonWithBOM(t *testing.T) {
	out, err := NewCSVExporter(';', true).Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, utf8BOM))
	assert.True(t, strings.HasPrefix(string(out[len(utf8BOM):]), "Fecha;Carátula\n"))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter(0, false).Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Reporte de audiencias", "AudLex")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().Render(Dataset{}, "", "")
	assert.Error(t, err)
}
