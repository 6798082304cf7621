package store

import (
	"testing"
	"time"

	"claimdesk/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLookup() *Lookup {
	return NewLookup(
		[]*types.ItemType{
			{ID: "it-meals", Code: "C1", Name: "Meals"},
			{ID: "it-transport", Code: "C2", Name: "Transport"},
		},
		[]*types.Currency{
			{ID: "cur-sgd", Code: "SGD", Name: "Singapore Dollar"},
			{ID: "cur-usd", Code: "USD", Name: "US Dollar"},
		},
	)
}

var testNow = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

func TestBuildClaimItemsPricesAndTotals(t *testing.T) {
	raw := []types.RawItem{
		{Date: "03/15", ItemType: "C2", Currency: "SGD", Amount: "25.00", Rate: "1.0"},
		{Date: "03/16", ItemType: "C1", Currency: "USD", Amount: "100.00", Rate: "1.3562", Note: "client lunch"},
	}

	items, total, err := buildClaimItems(testLookup(), "clm-1", "emp-7", raw, testNow, testNow)
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "clm-1", first.ClaimID)
	assert.Equal(t, "emp-7", first.EmployeeID)
	assert.Equal(t, "it-transport", first.ItemTypeID)
	assert.Equal(t, "cur-sgd", first.CurrencyID)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "25", first.SGDAmount.String())
	assert.Nil(t, first.Note)

	second := items[1]
	assert.Equal(t, "135.62", second.SGDAmount.String())
	require.NotNil(t, second.Note)
	assert.Equal(t, "client lunch", *second.Note)

	assert.Equal(t, "160.62", total.String())
}

func TestBuildClaimItemsUnknownCodeAbortsWholeSet(t *testing.T) {
	raw := []types.RawItem{
		{Date: "03/15", ItemType: "C2", Currency: "SGD", Amount: "25.00", Rate: "1.0"},
		{Date: "03/16", ItemType: "C9", Currency: "SGD", Amount: "10.00", Rate: "1.0"},
	}

	items, _, err := buildClaimItems(testLookup(), "clm-1", "emp-7", raw, testNow, testNow)
	require.Error(t, err)
	assert.Nil(t, items)
	assert.ErrorIs(t, err, types.ErrUnknownReferenceCode)

	raw[1].ItemType = "C2"
	raw[1].Currency = "XXX"
	items, _, err = buildClaimItems(testLookup(), "clm-1", "emp-7", raw, testNow, testNow)
	require.Error(t, err)
	assert.Nil(t, items)
	assert.ErrorIs(t, err, types.ErrUnknownReferenceCode)
}

func TestBuildClaimItemsRejectsMalformedNumbers(t *testing.T) {
	for _, amount := range []string{"abc", "12.3.4", "-5.00", ""} {
		raw := []types.RawItem{
			{Date: "03/15", ItemType: "C2", Currency: "SGD", Amount: amount, Rate: "1.0"},
		}
		_, _, err := buildClaimItems(testLookup(), "clm-1", "emp-7", raw, testNow, testNow)
		require.Error(t, err, "amount %q", amount)
		assert.ErrorIs(t, err, types.ErrValidation, "amount %q", amount)
	}
}

func TestBuildClaimItemsPropagatesDateErrors(t *testing.T) {
	raw := []types.RawItem{
		{Date: "13/45", ItemType: "C2", Currency: "SGD", Amount: "25.00", Rate: "1.0"},
	}

	_, _, err := buildClaimItems(testLookup(), "clm-1", "emp-7", raw, testNow, testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidDate)
}

func TestBuildClaimItemsRequiredFields(t *testing.T) {
	raw := []types.RawItem{
		{Date: "03/15", ItemType: "C2", Amount: "25.00", Rate: "1.0"},
	}

	_, _, err := buildClaimItems(testLookup(), "clm-1", "emp-7", raw, testNow, testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestBuildReplacementPlanReparentsRetainedAttachments(t *testing.T) {
	// Old state: item A carries two attachments, item B carries one. The
	// edit drops A and keeps B with its attachment retained.
	oldItemA := "itm-a"
	oldItemB := "itm-b"
	existing := []*types.Attachment{
		{ID: "att-1", ClaimItemID: &oldItemA, FileName: "taxi.pdf", URL: "https://blobs/taxi.pdf"},
		{ID: "att-2", ClaimItemID: &oldItemA, FileName: "bus.pdf", URL: "https://blobs/bus.pdf"},
		{ID: "att-3", ClaimItemID: &oldItemB, FileName: "hotel.pdf", URL: "https://blobs/hotel.pdf"},
	}

	raw := []types.RawItem{
		{
			Date: "03/16", ItemType: "C1", Currency: "SGD", Amount: "80.00", Rate: "1.0",
			Retain: []types.RetainedAttachment{
				{FileName: "hotel.pdf", URL: "https://blobs/hotel.pdf", FileSize: 1024, FileType: "application/pdf"},
			},
		},
	}

	items, _, err := buildClaimItems(testLookup(), "clm-1", "emp-7", raw, testNow, testNow)
	require.NoError(t, err)
	require.Len(t, items, 1)

	plan := buildReplacementPlan(existing, items, raw, testNow)

	// A's two blobs become orphans; the retained blob is untouched.
	assert.ElementsMatch(t, []string{"https://blobs/taxi.pdf", "https://blobs/bus.pdf"}, plan.orphanURLs)

	require.Len(t, plan.relinked, 1)
	relinked := plan.relinked[0]
	assert.NotEqual(t, "att-3", relinked.ID)
	require.NotNil(t, relinked.ClaimItemID)
	assert.Equal(t, items[0].ID, *relinked.ClaimItemID)
	assert.Equal(t, "hotel.pdf", relinked.FileName)
	assert.Equal(t, "https://blobs/hotel.pdf", relinked.URL)
	assert.Nil(t, relinked.ClaimID)
}

func TestBuildReplacementPlanNoRetained(t *testing.T) {
	oldItem := "itm-a"
	existing := []*types.Attachment{
		{ID: "att-1", ClaimItemID: &oldItem, URL: "https://blobs/one.pdf"},
	}

	raw := []types.RawItem{
		{Date: "03/16", ItemType: "C1", Currency: "SGD", Amount: "80.00", Rate: "1.0"},
	}

	items, _, err := buildClaimItems(testLookup(), "clm-1", "emp-7", raw, testNow, testNow)
	require.NoError(t, err)

	plan := buildReplacementPlan(existing, items, raw, testNow)
	assert.Equal(t, []string{"https://blobs/one.pdf"}, plan.orphanURLs)
	assert.Empty(t, plan.relinked)
}
