package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/constants"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/models"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/utils"
)

func TestAppendHistoryEntryFirstEntryFallsBackToCreationDate(t *testing.T) {
	created := day(2025, time.January, 10)
	c := &models.Contract{CreatedAt: created}

	entry := AppendHistoryEntry(c, "", constants.HistoryFieldMonthlyRent, "", "150000", fixedNow)

	assert.Equal(t, "", entry.OldValue)
	assert.Equal(t, utils.ResolveActualDate("", created), entry.OldUpdatedAt)
	assert.Equal(t, "150000", entry.NewValue)
	assert.Equal(t, utils.ResolveActualDate("", fixedNow), entry.NewUpdatedAt)
	require.Len(t, c.History, 1)
}

func TestAppendHistoryEntryChainsOffPreviousEntry(t *testing.T) {
	c := &models.Contract{CreatedAt: day(2025, time.January, 10)}

	first := AppendHistoryEntry(c, "", constants.HistoryFieldMonthlyRent, "", "150000", fixedNow)
	later := fixedNow.Add(48 * time.Hour)
	// The caller's old side is deliberately wrong; the chain must win.
	second := AppendHistoryEntry(c, "", constants.HistoryFieldMonthlyRent, "999", "160000", later)

	assert.Equal(t, first.NewValue, second.OldValue)
	assert.Equal(t, first.NewUpdatedAt, second.OldUpdatedAt)
	assert.Equal(t, "160000", second.NewValue)
	require.Len(t, c.History, 2)
}

func TestAppendHistoryEntryChainsPerFieldName(t *testing.T) {
	c := &models.Contract{CreatedAt: day(2025, time.January, 10)}

	AppendHistoryEntry(c, "", constants.HistoryFieldMonthlyRent, "", "150000", fixedNow)
	other := AppendHistoryEntry(c, "", constants.HistoryFieldDepositAmount, "", "450000", fixedNow)

	// A different field starts its own chain from the creation date.
	assert.Equal(t, "", other.OldValue)
	assert.Equal(t, utils.ResolveActualDate("", c.CreatedAt), other.OldUpdatedAt)
}

func TestPreviouslyRecordedValue(t *testing.T) {
	c := &models.Contract{CreatedAt: day(2025, time.January, 10)}

	_, ok := PreviouslyRecordedValue(c, constants.HistoryFieldCommissions)
	assert.False(t, ok)

	AppendHistoryEntry(c, "", constants.HistoryFieldCommissions, "", "100000", fixedNow)
	AppendHistoryEntry(c, "", constants.HistoryFieldCommissions, "", "150000", fixedNow.Add(time.Hour))

	v, ok := PreviouslyRecordedValue(c, constants.HistoryFieldCommissions)
	require.True(t, ok)
	assert.Equal(t, "150000", v)
}

func TestFormatAndParseCents(t *testing.T) {
	assert.Equal(t, "123450", FormatCents(123450))
	assert.Equal(t, int64(123450), ParseCents("123450"))
	assert.Equal(t, int64(0), ParseCents("not-a-number"))
}
