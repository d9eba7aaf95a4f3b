package Store

import (
	"context"

	"gorm.io/gorm"

	"Mandi/Ledger"
	"Mandi/Models"
)

// CreatePayment stores a payment and reduces the party's bakaya in the same
// DB transaction.
func (s *Store) CreatePayment(ctx context.Context, p *Models.Payment, userID uint) error {
	if !p.Amount.IsPositive() {
		return Ledger.Invalid("amount", "must be greater than zero")
	}
	p.Amount = Ledger.Round2(p.Amount)
	if p.Mode == "" {
		p.Mode = Models.ModeCash
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getParty(tx, p.PartyType, p.PartyID); err != nil {
			return err
		}
		if p.TransactionID != nil {
			var t Models.Transaction
			if err := tx.First(&t, *p.TransactionID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return Ledger.NotFound("transaction", *p.TransactionID)
				}
				return err
			}
			if t.PartyID(p.PartyType) != p.PartyID {
				return Ledger.Invalid("transaction_id", "transaction %d does not involve %s %d", t.ID, p.PartyType, p.PartyID)
			}
		}

		if err := tx.Omit("Party").Create(p).Error; err != nil {
			return err
		}
		if err := applyDelta(tx, p.PartyType, p.PartyID, Ledger.PaymentEffect(*p)); err != nil {
			return err
		}
		return writeAudit(tx, "payment", p.ID, "created", userID, map[string]interface{}{
			"party_type": p.PartyType,
			"party_id":   p.PartyID,
			"amount":     p.Amount,
		})
	})
	return classify("create payment", err)
}

func (s *Store) GetPayment(ctx context.Context, id uint) (*Models.Payment, error) {
	var p Models.Payment
	err := s.DB.WithContext(ctx).Preload("Party").First(&p, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, Ledger.NotFound("payment", id)
	}
	if err != nil {
		return nil, classify("get payment", err)
	}
	return &p, nil
}

// ListPayments returns matching payments, newest first.
func (s *Store) ListPayments(ctx context.Context, f Models.PaymentFilter) ([]Models.Payment, error) {
	q := s.DB.WithContext(ctx).Preload("Party")
	if f.PartyType != "" {
		q = q.Where("party_type = ?", f.PartyType)
	}
	if f.PartyID != 0 {
		q = q.Where("party_id = ?", f.PartyID)
	}
	if f.From != nil {
		q = q.Where("payment_date >= ?", Ledger.DateOnly(*f.From))
	}
	if f.To != nil {
		q = q.Where("payment_date < ?", Ledger.DateOnly(*f.To).AddDate(0, 0, 1))
	}
	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	payments := []Models.Payment{}
	err := q.Order("payment_date DESC, id DESC").Limit(limit).Find(&payments).Error
	return payments, classify("list payments", err)
}

// PartyPayments returns the full payment history of one party.
func (s *Store) PartyPayments(ctx context.Context, pt Models.PartyType, id uint) ([]Models.Payment, error) {
	payments, err := partyPayments(s.DB.WithContext(ctx), pt, id)
	return payments, classify("party payments", err)
}

func partyPayments(db *gorm.DB, pt Models.PartyType, id uint) ([]Models.Payment, error) {
	payments := []Models.Payment{}
	err := db.
		Where("party_type = ? AND party_id = ?", pt, id).
		Order("payment_date ASC, id ASC").
		Find(&payments).Error
	return payments, err
}

// AllPayments returns every live payment.
func (s *Store) AllPayments(ctx context.Context) ([]Models.Payment, error) {
	payments := []Models.Payment{}
	err := s.DB.WithContext(ctx).Order("id ASC").Find(&payments).Error
	return payments, classify("all payments", err)
}

// DeletePayment removes a payment and gives its amount back to the party's
// bakaya in one DB transaction.
func (s *Store) DeletePayment(ctx context.Context, id uint, userID uint) (*Models.Payment, error) {
	var p Models.Payment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return Ledger.NotFound("payment", id)
			}
			return err
		}
		if err := applyDelta(tx, p.PartyType, p.PartyID, Ledger.PaymentEffect(p).Neg()); err != nil {
			return err
		}
		if err := tx.Delete(&p).Error; err != nil {
			return err
		}
		return writeAudit(tx, "payment", p.ID, "deleted", userID, map[string]interface{}{
			"party_type": p.PartyType,
			"party_id":   p.PartyID,
			"amount":     p.Amount,
		})
	})
	if err != nil {
		return nil, classify("delete payment", err)
	}
	return &p, nil
}
