package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"mediscript_app_go/models"

	"gorm.io/gorm"
)

// FinalizedPrescriptionKey is the well-known key the editor stashes a
// finalized document under for the print/export page to pick up.
const FinalizedPrescriptionKey = "finalized_prescription"

// ErrNoFinalizedPrescription is returned when no usable handoff exists; the
// caller redirects back to the editor.
var ErrNoFinalizedPrescription = errors.New("no finalized prescription available")

// StashFinalizedPrescription stores the finalized document (including its
// access code) for the print/export page: a session-scoped copy consumed by
// the same browsing session, plus a durable copy that backs opening the
// print page in a new window or tab.
func StashFinalizedPrescription(dbConn *gorm.DB, sessionID, ownerKey string, doc models.Prescription) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize prescription: %w", err)
	}

	return dbConn.Transaction(func(tx *gorm.DB) error {
		// Replace any previous handoff for this session/owner.
		if err := tx.Where("key = ? AND session_id = ?", FinalizedPrescriptionKey, sessionID).
			Delete(&models.PrescriptionHandoff{}).Error; err != nil {
			return err
		}
		if err := tx.Where("key = ? AND owner_key = ? AND scope = ?",
			FinalizedPrescriptionKey, ownerKey, models.HandoffScopeDurable).
			Delete(&models.PrescriptionHandoff{}).Error; err != nil {
			return err
		}

		session := models.PrescriptionHandoff{
			Key:       FinalizedPrescriptionKey,
			Scope:     models.HandoffScopeSession,
			OwnerKey:  ownerKey,
			SessionID: sessionID,
			Payload:   string(payload),
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		durable := models.PrescriptionHandoff{
			Key:      FinalizedPrescriptionKey,
			Scope:    models.HandoffScopeDurable,
			OwnerKey: ownerKey,
			Payload:  string(payload),
		}
		return tx.Create(&durable).Error
	})
}

// TakeFinalizedPrescription fetches the stashed document. The session copy
// wins and is consumed on read; if the session storage is empty (a new tab,
// for instance) the durable copy is used and left in place. A malformed
// payload is treated as absent.
func TakeFinalizedPrescription(dbConn *gorm.DB, sessionID, ownerKey string) (*models.Prescription, error) {
	var record models.PrescriptionHandoff
	err := dbConn.First(&record, "key = ? AND session_id = ? AND scope = ?",
		FinalizedPrescriptionKey, sessionID, models.HandoffScopeSession).Error
	if err == nil {
		dbConn.Delete(&record)
		if doc, ok := decodeHandoff(record.Payload); ok {
			return doc, nil
		}
		// Fall through to the durable copy.
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to read prescription handoff: %w", err)
	}

	err = dbConn.First(&record, "key = ? AND owner_key = ? AND scope = ?",
		FinalizedPrescriptionKey, ownerKey, models.HandoffScopeDurable).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNoFinalizedPrescription
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read prescription handoff: %w", err)
	}

	if doc, ok := decodeHandoff(record.Payload); ok {
		return doc, nil
	}
	return nil, ErrNoFinalizedPrescription
}

func decodeHandoff(payload string) (*models.Prescription, bool) {
	var doc models.Prescription
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, false
	}
	return &doc, true
}
