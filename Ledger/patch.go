package Ledger

import "Mandi/Models"

// ValidatePatch checks a batch edit. Commission fields are not part of the
// patch so stored math never changes on edit.
func ValidatePatch(p Models.TransactionPatch) error {
	if p.Empty() {
		return Invalid("patch", "nothing to update")
	}
	if p.Status != nil && !p.Status.Valid() {
		return Invalid("status", "unknown status %q", *p.Status)
	}
	if p.TransactionType != nil && !p.TransactionType.Valid() {
		return Invalid("transaction_type", "unknown type %q", *p.TransactionType)
	}
	return nil
}
