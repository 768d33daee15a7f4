package structurer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spenso/internal/domain"
	"spenso/internal/structurer"
	"spenso/mocks"
)

func draftFor(vendor string, amount float64, date time.Time) domain.DraftFields {
	return domain.DraftFields{Vendor: &vendor, Amount: &amount, Date: &date}
}

func TestStructure_Success(t *testing.T) {
	reasoner := new(mocks.MockTextReasoner)
	reasoner.On("Structure", mock.Anything, mock.AnythingOfType("string")).
		Return(`{"vendor":"WALMART","amount":45.67,"date":"2024-03-14","category":"Groceries","items":[{"description":"Milk","amount":3.99}],"policy_flags":[]}`, nil)

	draft := draftFor("WALMART", 45.67, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC))
	got, err := structurer.Structure(context.Background(), draft, "WALMART\n$45.67\n03/14/2024", reasoner)

	require.NoError(t, err)
	assert.Equal(t, "WALMART", got.Vendor)
	assert.Equal(t, 45.67, got.Amount)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), got.Date)
	assert.Equal(t, "Groceries", got.Category)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Milk", got.Items[0].Description)
	assert.Empty(t, got.PolicyFlags)
	reasoner.AssertExpectations(t)
}

func TestStructure_PolicyFlagsSurfaced(t *testing.T) {
	reasoner := new(mocks.MockTextReasoner)
	reasoner.On("Structure", mock.Anything, mock.Anything).
		Return(`{"vendor":"BAR","amount":120.00,"date":"2024-06-01","category":"Entertainment","items":[],"policy_flags":["Alcohol purchase","Exceeds $100 limit"]}`, nil)

	got, err := structurer.Structure(context.Background(), domain.DraftFields{}, "BAR $120.00", reasoner)

	require.NoError(t, err)
	assert.Equal(t, []string{"Alcohol purchase", "Exceeds $100 limit"}, got.PolicyFlags)
}

func TestStructure_MalformedResponse(t *testing.T) {
	reasoner := new(mocks.MockTextReasoner)
	reasoner.On("Structure", mock.Anything, mock.Anything).
		Return("Sure! Here is the structured receipt you asked for:", nil)

	_, err := structurer.Structure(context.Background(), domain.DraftFields{}, "text", reasoner)

	assert.ErrorIs(t, err, domain.ErrMalformedStructuringResponse)
}

func TestStructure_NegativeAmountRejected(t *testing.T) {
	reasoner := new(mocks.MockTextReasoner)
	reasoner.On("Structure", mock.Anything, mock.Anything).
		Return(`{"vendor":"X","amount":-5.00,"date":"2024-01-01","category":"Other","items":[],"policy_flags":[]}`, nil)

	_, err := structurer.Structure(context.Background(), domain.DraftFields{}, "text", reasoner)

	assert.ErrorIs(t, err, domain.ErrMalformedStructuringResponse)
}

func TestStructure_UnparseableDateRejected(t *testing.T) {
	reasoner := new(mocks.MockTextReasoner)
	reasoner.On("Structure", mock.Anything, mock.Anything).
		Return(`{"vendor":"X","amount":5.00,"date":"the 3rd of March","category":"Other","items":[],"policy_flags":[]}`, nil)

	_, err := structurer.Structure(context.Background(), domain.DraftFields{}, "text", reasoner)

	assert.ErrorIs(t, err, domain.ErrMalformedStructuringResponse)
}

func TestStructure_TransportErrorPropagates(t *testing.T) {
	transportErr := errors.New("connection refused")
	reasoner := new(mocks.MockTextReasoner)
	reasoner.On("Structure", mock.Anything, mock.Anything).Return("", transportErr)

	_, err := structurer.Structure(context.Background(), domain.DraftFields{}, "text", reasoner)

	assert.ErrorIs(t, err, transportErr)
	assert.NotErrorIs(t, err, domain.ErrMalformedStructuringResponse)
}

func TestStructure_DefaultsAppliedAfterParse(t *testing.T) {
	// The reasoner legitimately found nothing; defaults fill in after a
	// successful parse, not instead of one.
	reasoner := new(mocks.MockTextReasoner)
	reasoner.On("Structure", mock.Anything, mock.Anything).
		Return(`{"vendor":"","amount":0,"date":"","category":"","items":null,"policy_flags":null}`, nil)

	before := time.Now().UTC()
	got, err := structurer.Structure(context.Background(), domain.DraftFields{}, "illegible", reasoner)
	after := time.Now().UTC()

	require.NoError(t, err)
	assert.Equal(t, "Unknown", got.Vendor)
	assert.Equal(t, 0.0, got.Amount)
	assert.False(t, got.Date.Before(before))
	assert.False(t, got.Date.After(after))
	assert.Equal(t, "Other", got.Category)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
	assert.NotNil(t, got.PolicyFlags)
	assert.Empty(t, got.PolicyFlags)
}

func TestStructure_DraftFillsUnknowns(t *testing.T) {
	reasoner := new(mocks.MockTextReasoner)
	reasoner.On("Structure", mock.Anything, mock.Anything).
		Return(`{"vendor":"","amount":0,"date":"","category":"Dining","items":[],"policy_flags":[]}`, nil)

	draft := draftFor("CAFE LUNA", 18.25, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	got, err := structurer.Structure(context.Background(), draft, "CAFE LUNA $18.25", reasoner)

	require.NoError(t, err)
	assert.Equal(t, "CAFE LUNA", got.Vendor)
	assert.Equal(t, 18.25, got.Amount)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), got.Date)
}

func TestStructure_PromptCarriesDraftAndRawText(t *testing.T) {
	var captured string
	reasoner := new(mocks.MockTextReasoner)
	reasoner.On("Structure", mock.Anything, mock.MatchedBy(func(p string) bool {
		captured = p
		return true
	})).Return(`{"vendor":"WALMART","amount":45.67,"date":"2024-03-14","category":"Groceries","items":[],"policy_flags":[]}`, nil)

	draft := draftFor("WALMART", 45.67, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC))
	_, err := structurer.Structure(context.Background(), draft, "WALMART raw body", reasoner)

	require.NoError(t, err)
	assert.Contains(t, captured, "WALMART raw body")
	assert.Contains(t, captured, "vendor: WALMART")
	assert.Contains(t, captured, "amount: 45.67")
	assert.Contains(t, captured, "date: 2024-03-14")
}
