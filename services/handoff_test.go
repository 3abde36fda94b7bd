package services

import (
	"testing"

	"mediscript_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandoffStashAndTake(t *testing.T) {
	db := setupTestDB(t)

	doc := samplePrescription()
	doc.AccessCode = "RX-AB3D-9KPZ"
	require.NoError(t, StashFinalizedPrescription(db, "session-1", "clinic-1", doc))

	taken, err := TakeFinalizedPrescription(db, "session-1", "clinic-1")
	require.NoError(t, err)
	assert.Equal(t, doc, *taken)
}

func TestHandoffSessionCopyConsumedOnRead(t *testing.T) {
	db := setupTestDB(t)

	doc := samplePrescription()
	require.NoError(t, StashFinalizedPrescription(db, "session-1", "clinic-1", doc))

	_, err := TakeFinalizedPrescription(db, "session-1", "clinic-1")
	require.NoError(t, err)

	var count int64
	db.Model(&models.PrescriptionHandoff{}).
		Where("scope = ?", models.HandoffScopeSession).
		Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestHandoffDurableFallbackForNewTab(t *testing.T) {
	db := setupTestDB(t)

	doc := samplePrescription()
	require.NoError(t, StashFinalizedPrescription(db, "session-1", "clinic-1", doc))

	// A different session (new window/tab) has no session copy but can
	// still read the durable one
	taken, err := TakeFinalizedPrescription(db, "session-2", "clinic-1")
	require.NoError(t, err)
	assert.Equal(t, doc, *taken)

	// And the durable copy survives the read
	taken, err = TakeFinalizedPrescription(db, "session-3", "clinic-1")
	require.NoError(t, err)
	assert.Equal(t, doc, *taken)
}

func TestHandoffEmpty(t *testing.T) {
	db := setupTestDB(t)

	_, err := TakeFinalizedPrescription(db, "session-1", "clinic-1")
	assert.ErrorIs(t, err, ErrNoFinalizedPrescription)
}

func TestHandoffMalformedPayloadTreatedAsAbsent(t *testing.T) {
	db := setupTestDB(t)

	record := models.PrescriptionHandoff{
		Key:      FinalizedPrescriptionKey,
		Scope:    models.HandoffScopeDurable,
		OwnerKey: "clinic-1",
		Payload:  "{broken",
	}
	require.NoError(t, db.Create(&record).Error)

	_, err := TakeFinalizedPrescription(db, "session-1", "clinic-1")
	assert.ErrorIs(t, err, ErrNoFinalizedPrescription)
}

func TestHandoffRestashReplacesPrevious(t *testing.T) {
	db := setupTestDB(t)

	first := samplePrescription()
	first.AccessCode = "RX-AAAA-AAAA"
	require.NoError(t, StashFinalizedPrescription(db, "session-1", "clinic-1", first))

	second := samplePrescription()
	second.AccessCode = "RX-BBBB-BBBB"
	require.NoError(t, StashFinalizedPrescription(db, "session-1", "clinic-1", second))

	taken, err := TakeFinalizedPrescription(db, "session-1", "clinic-1")
	require.NoError(t, err)
	assert.Equal(t, "RX-BBBB-BBBB", taken.AccessCode)

	var count int64
	db.Model(&models.PrescriptionHandoff{}).Count(&count)
	assert.Equal(t, int64(1), count) // session copy consumed, one durable left
}
