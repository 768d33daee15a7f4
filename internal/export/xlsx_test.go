package export

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spenso/internal/domain"
)

func TestBuildWorkbook_Header(t *testing.T) {
	f, err := BuildWorkbook(nil)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, columns, rows[0])
}

func TestBuildWorkbook_Rows(t *testing.T) {
	id := uuid.New()
	receipts := []domain.Receipt{
		{
			ID:         id,
			Vendor:     "WALMART",
			Amount:     45.67,
			Date:       time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			Category:   "Groceries",
			Status:     domain.ReceiptStatusPending,
			Flags:      domain.Flags{domain.FraudFlag},
			Confidence: 0.91,
			Items: domain.LineItems{
				{Description: "MILK", Amount: 3.99},
				{Description: "BREAD", Amount: 2.50},
			},
			CreatedAt: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:       uuid.New(),
			Vendor:   "UBER",
			Amount:   18.20,
			Date:     time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
			Category: "Transport",
			Status:   domain.ReceiptStatusApproved,
		},
	}

	f, err := BuildWorkbook(receipts)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[1]
	assert.Equal(t, id.String(), first[0])
	assert.Equal(t, "WALMART", first[1])
	assert.Equal(t, "45.67", first[2])
	assert.Equal(t, "2024-03-14", first[3])
	assert.Equal(t, "Groceries", first[4])
	assert.Equal(t, "pending", first[5])
	assert.Equal(t, domain.FraudFlag, first[6])
	assert.Equal(t, "MILK ($3.99); BREAD ($2.50)", first[8])

	second := rows[2]
	assert.Equal(t, "UBER", second[1])
	assert.Equal(t, "approved", second[5])
}
