package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/csc-helpdesk/csc/internal/application/report/dto"
)

func sampleRows() []dto.ExportRow {
	created := time.Date(2026, 3, 2, 13, 30, 0, 0, time.UTC)
	return []dto.ExportRow{
		{
			TicketNumber:   "CSC202603020001",
			Title:          "Impressora, 2º andar",
			Area:           "TI",
			Board:          "Incidentes",
			Priority:       "HIGH",
			Status:         "FECHADO",
			RequesterName:  "Ana",
			RequesterEmail: "ana@corp.com",
			AssigneeName:   null.StringFrom("Bruno"),
			AssigneeEmail:  null.StringFrom("bruno@corp.com"),
			CreatedAt:      created,
			ClosedAt:       null.TimeFrom(created.Add(3 * time.Hour)),
			ActualHours:    null.FloatFrom(2.5),
			HoursOpen:      3,
		},
		{
			TicketNumber:   "CSC202603020002",
			Title:          "Acesso ao ERP",
			Area:           "Financeiro",
			Board:          "Solicitações",
			Priority:       "LOW",
			Status:         "ABERTO",
			RequesterName:  "Carla",
			RequesterEmail: "carla@corp.com",
			CreatedAt:      created,
			HoursOpen:      10,
		},
	}
}

func writeAll(t *testing.T, format dto.ExportFormat) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewFactory().NewWriter(format, &buf)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader(dto.ExportColumns))
	for _, r := range sampleRows() {
		require.NoError(t, w.WriteRow(r.Values()))
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestCSVWriter(t *testing.T) {
	raw := writeAll(t, dto.FormatCSV)
	require.True(t, bytes.HasPrefix(raw, utf8BOM))

	records, err := csv.NewReader(bytes.NewReader(raw[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, dto.ExportColumns, records[0])
	assert.Equal(t, "Impressora, 2º andar", records[1][1])
	assert.Equal(t, "bruno@corp.com", records[1][9])
	assert.Equal(t, "2.50", records[1][12])
	assert.Equal(t, "3", records[1][13])

	assert.Equal(t, "", records[2][8], "missing assignee is an empty cell")
	assert.Equal(t, "", records[2][11], "open ticket has no close date")
	assert.Equal(t, "", records[2][12])
}

func TestExcelWriter(t *testing.T) {
	raw := writeAll(t, dto.FormatExcel)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, dto.ExportColumns, rows[0])
	assert.Equal(t, "CSC202603020001", rows[1][0])
	assert.Equal(t, "Solicitações", rows[2][3])
}

func TestFactory_UnknownFormat(t *testing.T) {
	_, err := NewFactory().NewWriter(dto.ExportFormat("pdf"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", formatCell(nil))
	assert.Equal(t, "1.00", formatCell(1.0))
	assert.Equal(t, "42", formatCell(int64(42)))
}
