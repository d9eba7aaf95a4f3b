package Store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"Mandi/Ledger"
	"Mandi/Models"
)

// Store is the gorm backed repository for every ledger record. Errors are
// returned as Ledger.ErrNotFound, Ledger.ErrStoreUnavailable or a
// *Ledger.ValidationError.
type Store struct {
	DB       *gorm.DB
	defaults Models.SystemSettings
}

// New creates a Store. defaults seed the settings row on first read.
func New(db *gorm.DB, defaults Models.SystemSettings) *Store {
	return &Store{DB: db, defaults: defaults}
}

// classify maps driver errors onto the ledger error taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, Ledger.ErrNotFound) || errors.Is(err, Ledger.ErrStoreUnavailable) ||
		errors.Is(err, Ledger.ErrConflict) || Ledger.IsValidation(err) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, Ledger.ErrNotFound)
	}
	return Ledger.Unavailable(op, err)
}

func writeAudit(tx *gorm.DB, entity string, id uint, action string, userID uint, changes interface{}) error {
	payload, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("encode audit changes: %w", err)
	}
	return tx.Create(&Models.AuditLog{
		Entity:   entity,
		EntityID: id,
		Action:   action,
		UserID:   userID,
		Changes:  datatypes.JSON(payload),
	}).Error
}

// AuditTrail returns the audit entries of one record, newest first.
func (s *Store) AuditTrail(ctx context.Context, entity string, id uint) ([]Models.AuditLog, error) {
	var logs []Models.AuditLog
	err := s.DB.WithContext(ctx).Where("entity = ? AND entity_id = ?", entity, id).Order("id DESC").Find(&logs).Error
	return logs, classify("audit trail", err)
}
