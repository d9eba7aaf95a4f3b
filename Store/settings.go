package Store

import (
	"context"

	"gorm.io/gorm"

	"Mandi/Ledger"
	"Mandi/Models"
)

// GetSettings returns the singleton settings row, creating it from the
// configured defaults on first use.
func (s *Store) GetSettings(ctx context.Context) (*Models.SystemSettings, error) {
	settings := s.defaults
	settings.ID = Models.SettingsID
	err := s.DB.WithContext(ctx).
		Where("id = ?", Models.SettingsID).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, classify("get settings", err)
	}
	return &settings, nil
}

func (s *Store) UpdateSettings(ctx context.Context, patch Models.SettingsPatch, userID uint) (*Models.SystemSettings, error) {
	current, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	rates := Ledger.RatesFromSettings(*current)
	updates := map[string]interface{}{}
	if patch.CommissionKisanRate.Valid {
		rates.KisanRate = patch.CommissionKisanRate.Decimal
		updates["commission_kisan_rate"] = rates.KisanRate
	}
	if patch.CommissionVyapariRatePerKg.Valid {
		rates.VyapariRatePerKg = patch.CommissionVyapariRatePerKg.Decimal
		updates["commission_vyapari_rate_per_kg"] = rates.VyapariRatePerKg
	}
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	if patch.MandiName != nil {
		updates["mandi_name"] = *patch.MandiName
	}
	if patch.MandiAddress != nil {
		updates["mandi_address"] = *patch.MandiAddress
	}
	if len(updates) == 0 {
		return current, nil
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(current).Updates(updates).Error; err != nil {
			return err
		}
		return writeAudit(tx, "settings", current.ID, "updated", userID, updates)
	})
	if err != nil {
		return nil, classify("update settings", err)
	}
	return s.GetSettings(ctx)
}
