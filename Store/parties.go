package Store

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"Mandi/Ledger"
	"Mandi/Models"
)

func (s *Store) CreateParty(ctx context.Context, p *Models.Party) error {
	if !p.Type.Valid() {
		return Ledger.Invalid("type", "must be kisan or vyapari")
	}
	if strings.TrimSpace(p.Name) == "" {
		return Ledger.Invalid("name", "is required")
	}
	p.Bakaya = decimal.Zero
	return classify("create party", s.DB.WithContext(ctx).Create(p).Error)
}

func (s *Store) GetParty(ctx context.Context, pt Models.PartyType, id uint) (*Models.Party, error) {
	return getParty(s.DB.WithContext(ctx), pt, id)
}

func getParty(db *gorm.DB, pt Models.PartyType, id uint) (*Models.Party, error) {
	var p Models.Party
	err := db.Where("type = ?", pt).First(&p, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, Ledger.NotFound(string(pt), id)
	}
	if err != nil {
		return nil, classify("get party", err)
	}
	return &p, nil
}

// ListParties returns parties of one type, optionally filtered by a name or
// phone fragment.
func (s *Store) ListParties(ctx context.Context, pt Models.PartyType, search string) ([]Models.Party, error) {
	q := s.DB.WithContext(ctx).Where("type = ?", pt)
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, like)
	}
	parties := []Models.Party{}
	err := q.Order("name ASC").Find(&parties).Error
	return parties, classify("list parties", err)
}

// AllParties returns every kisan and vyapari.
func (s *Store) AllParties(ctx context.Context) ([]Models.Party, error) {
	parties := []Models.Party{}
	err := s.DB.WithContext(ctx).Order("type ASC, id ASC").Find(&parties).Error
	return parties, classify("all parties", err)
}

func (s *Store) UpdateParty(ctx context.Context, pt Models.PartyType, id uint, patch Models.PartyPatch) (*Models.Party, error) {
	p, err := s.GetParty(ctx, pt, id)
	if err != nil {
		return nil, err
	}
	updates := patch.Updates()
	if name, ok := updates["name"]; ok && strings.TrimSpace(name.(string)) == "" {
		return nil, Ledger.Invalid("name", "must not be empty")
	}
	if len(updates) == 0 {
		return p, nil
	}
	if err := s.DB.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
		return nil, classify("update party", err)
	}
	return s.GetParty(ctx, pt, id)
}

// DeleteParty soft deletes a party that has no ledger history.
func (s *Store) DeleteParty(ctx context.Context, pt Models.PartyType, id uint) error {
	return classify("delete party", s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := getParty(tx, pt, id)
		if err != nil {
			return err
		}

		column := "kisan_id"
		if pt == Models.PartyVyapari {
			column = "vyapari_id"
		}
		var txns, payments int64
		if err := tx.Model(&Models.Transaction{}).Where(column+" = ?", id).Count(&txns).Error; err != nil {
			return err
		}
		if err := tx.Model(&Models.Payment{}).Where("party_type = ? AND party_id = ?", pt, id).Count(&payments).Error; err != nil {
			return err
		}
		if txns > 0 || payments > 0 || !p.Bakaya.IsZero() {
			return Ledger.Invalid("id", "%s %d has ledger history and cannot be deleted", pt, id)
		}
		return tx.Delete(p).Error
	}))
}

// FixBalance re-derives a party's bakaya from its history inside one DB
// transaction and corrects the cached value. It returns the drift that was
// fixed, nil when there was none. The party row is read before its history
// and the correction is applied relative to the value read, guarded on it
// being unchanged, so a sale or payment committed meanwhile is never
// overwritten; that case fails with ErrConflict.
func (s *Store) FixBalance(ctx context.Context, pt Models.PartyType, id uint, userID uint) (*Ledger.Drift, error) {
	var drift *Ledger.Drift
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := getParty(tx, pt, id)
		if err != nil {
			return err
		}
		txns, err := partyTransactions(tx, pt, id)
		if err != nil {
			return err
		}
		payments, err := partyPayments(tx, pt, id)
		if err != nil {
			return err
		}

		drift = Ledger.CheckBalance(*p, txns, payments)
		if drift == nil {
			return nil
		}
		res := tx.Model(&Models.Party{}).
			Where("id = ? AND type = ? AND ROUND(bakaya - ?, 2) = 0", id, pt, drift.Stored).
			Update("bakaya", gorm.Expr("ROUND(bakaya + ?, 2)", drift.Difference.Neg()))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return Ledger.Conflict("%s %d bakaya changed during reconciliation", pt, id)
		}
		return writeAudit(tx, "party", id, "reconciled", userID, map[string]string{
			"from": drift.Stored.StringFixed(Ledger.Places),
			"to":   drift.Derived.StringFixed(Ledger.Places),
		})
	})
	if err != nil {
		return nil, classify("fix balance", err)
	}
	return drift, nil
}

// applyDelta moves a party's bakaya inside the caller's DB transaction.
func applyDelta(tx *gorm.DB, pt Models.PartyType, id uint, delta decimal.Decimal) error {
	res := tx.Model(&Models.Party{}).
		Where("id = ? AND type = ?", id, pt).
		Update("bakaya", gorm.Expr("ROUND(bakaya + ?, 2)", Ledger.Round2(delta)))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return Ledger.NotFound(string(pt), id)
	}
	return nil
}
