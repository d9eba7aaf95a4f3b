package Store

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"Mandi/Ledger"
	"Mandi/Models"
)

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("item_order ASC")
}

// CreateTransaction stores a prepared transaction with its items and moves
// both parties' bakaya in the same DB transaction.
func (s *Store) CreateTransaction(ctx context.Context, t *Models.Transaction, userID uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getParty(tx, Models.PartyKisan, t.KisanID); err != nil {
			return err
		}
		if _, err := getParty(tx, Models.PartyVyapari, t.VyapariID); err != nil {
			return err
		}
		if err := requireProducts(tx, t.Items); err != nil {
			return err
		}

		items := t.Items
		t.Items = nil
		if err := tx.Omit("Kisan", "Vyapari").Create(t).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].TransactionID = t.ID
			if err := tx.Omit("Product").Create(&items[i]).Error; err != nil {
				return err
			}
		}
		t.Items = items

		if err := applyDelta(tx, Models.PartyKisan, t.KisanID, Ledger.TransactionEffect(*t, Models.PartyKisan)); err != nil {
			return err
		}
		if err := applyDelta(tx, Models.PartyVyapari, t.VyapariID, Ledger.TransactionEffect(*t, Models.PartyVyapari)); err != nil {
			return err
		}
		return writeAudit(tx, "transaction", t.ID, "created", userID, map[string]interface{}{
			"kisan_id":   t.KisanID,
			"vyapari_id": t.VyapariID,
			"sub_total":  t.SubTotal,
		})
	})
	return classify("create transaction", err)
}

func requireProducts(tx *gorm.DB, items []Models.TransactionItem) error {
	seen := map[uint]bool{}
	for _, it := range items {
		if seen[it.ProductID] {
			continue
		}
		seen[it.ProductID] = true
		var count int64
		if err := tx.Model(&Models.Product{}).Where("id = ?", it.ProductID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return Ledger.NotFound("product", it.ProductID)
		}
	}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uint) (*Models.Transaction, error) {
	var t Models.Transaction
	err := s.DB.WithContext(ctx).
		Preload("Kisan").
		Preload("Vyapari").
		Preload("Items", preloadItems).
		Preload("Items.Product").
		First(&t, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, Ledger.NotFound("transaction", id)
	}
	if err != nil {
		return nil, classify("get transaction", err)
	}
	return &t, nil
}

// ListTransactions returns matching transactions, newest first.
func (s *Store) ListTransactions(ctx context.Context, f Models.TransactionFilter) ([]Models.Transaction, error) {
	q := s.DB.WithContext(ctx).
		Preload("Kisan").
		Preload("Vyapari").
		Preload("Items", preloadItems).
		Preload("Items.Product")
	q = applyTransactionFilter(q, f)

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	txns := []Models.Transaction{}
	err := q.Order("transaction_date DESC, id DESC").Limit(limit).Offset(f.Offset).Find(&txns).Error
	return txns, classify("list transactions", err)
}

func applyTransactionFilter(q *gorm.DB, f Models.TransactionFilter) *gorm.DB {
	if f.KisanID != 0 {
		q = q.Where("kisan_id = ?", f.KisanID)
	}
	if f.VyapariID != 0 {
		q = q.Where("vyapari_id = ?", f.VyapariID)
	}
	if f.From != nil {
		q = q.Where("transaction_date >= ?", Ledger.DateOnly(*f.From))
	}
	if f.To != nil {
		q = q.Where("transaction_date < ?", Ledger.DateOnly(*f.To).AddDate(0, 0, 1))
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

// TransactionsBetween returns every transaction dated within [from, to]
// without preloads, for reductions over many rows.
func (s *Store) TransactionsBetween(ctx context.Context, from, to time.Time) ([]Models.Transaction, error) {
	txns := []Models.Transaction{}
	q := applyTransactionFilter(s.DB.WithContext(ctx), Models.TransactionFilter{From: &from, To: &to})
	err := q.Order("transaction_date ASC, id ASC").Find(&txns).Error
	return txns, classify("transactions between", err)
}

// PartyTransactions returns the full history of one party in creation order.
func (s *Store) PartyTransactions(ctx context.Context, pt Models.PartyType, id uint) ([]Models.Transaction, error) {
	txns, err := partyTransactions(s.DB.WithContext(ctx), pt, id)
	return txns, classify("party transactions", err)
}

func partyTransactions(db *gorm.DB, pt Models.PartyType, id uint) ([]Models.Transaction, error) {
	column := "kisan_id"
	if pt == Models.PartyVyapari {
		column = "vyapari_id"
	}
	txns := []Models.Transaction{}
	err := db.
		Preload("Kisan").
		Preload("Vyapari").
		Preload("Items", preloadItems).
		Preload("Items.Product").
		Where(column+" = ?", id).
		Order("transaction_date ASC, created_at ASC, id ASC").
		Find(&txns).Error
	return txns, err
}

// AllTransactions returns every live transaction without preloads.
func (s *Store) AllTransactions(ctx context.Context) ([]Models.Transaction, error) {
	txns := []Models.Transaction{}
	err := s.DB.WithContext(ctx).Order("id ASC").Find(&txns).Error
	return txns, classify("all transactions", err)
}

// BatchUpdateTransactions applies an administrative patch to many
// transactions. Monetary fields are never touched. Returns the rows changed.
func (s *Store) BatchUpdateTransactions(ctx context.Context, ids []uint, patch Models.TransactionPatch, userID uint) (int64, error) {
	if err := Ledger.ValidatePatch(patch); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, Ledger.Invalid("ids", "at least one transaction is required")
	}

	ids = uniqueIDs(ids)
	var affected int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found []uint
		if err := tx.Model(&Models.Transaction{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
			return err
		}
		if len(found) != len(ids) {
			return Ledger.NotFound("transaction", firstMissing(ids, found))
		}

		res := tx.Model(&Models.Transaction{}).Where("id IN ?", ids).Updates(patch.Updates())
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected

		for _, id := range ids {
			if err := writeAudit(tx, "transaction", id, "batch_edit", userID, patch); err != nil {
				return err
			}
		}
		return nil
	})
	return affected, classify("batch update transactions", err)
}

// DeleteTransaction removes a transaction and reverses its effect on both
// parties in one DB transaction. Payments linked to it are kept and
// unlinked.
func (s *Store) DeleteTransaction(ctx context.Context, id uint, userID uint) (*Models.Transaction, error) {
	var t Models.Transaction
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return Ledger.NotFound("transaction", id)
			}
			return err
		}
		if err := applyDelta(tx, Models.PartyKisan, t.KisanID, Ledger.TransactionEffect(t, Models.PartyKisan).Neg()); err != nil {
			return err
		}
		if err := applyDelta(tx, Models.PartyVyapari, t.VyapariID, Ledger.TransactionEffect(t, Models.PartyVyapari).Neg()); err != nil {
			return err
		}
		if err := tx.Where("transaction_id = ?", t.ID).Delete(&Models.TransactionItem{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&Models.Payment{}).Where("transaction_id = ?", t.ID).Update("transaction_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&t).Error; err != nil {
			return err
		}
		return writeAudit(tx, "transaction", t.ID, "deleted", userID, map[string]interface{}{
			"kisan_id":   t.KisanID,
			"vyapari_id": t.VyapariID,
			"sub_total":  t.SubTotal,
		})
	})
	if err != nil {
		return nil, classify("delete transaction", err)
	}
	return &t, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func firstMissing(want, found []uint) uint {
	have := make(map[uint]bool, len(found))
	for _, id := range found {
		have[id] = true
	}
	for _, id := range want {
		if !have[id] {
			return id
		}
	}
	return 0
}
