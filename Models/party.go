package Models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PartyType string

const (
	PartyKisan   PartyType = "kisan"
	PartyVyapari PartyType = "vyapari"
)

func (t PartyType) Valid() bool {
	return t == PartyKisan || t == PartyVyapari
}

// Label is the display name used on bills and notifications.
func (t PartyType) Label() string {
	switch t {
	case PartyKisan:
		return "Kisan"
	case PartyVyapari:
		return "Vyapari"
	}
	return string(t)
}

// Party is a Kisan (farmer) or a Vyapari (trader). Bakaya is the cached
// running balance: for a kisan a positive value is owed by the mandi, for a
// vyapari a positive value is owed to the mandi.
type Party struct {
	gorm.Model
	Type     PartyType       `json:"type" gorm:"type:varchar(16);not null;index"`
	Name     string          `json:"name" gorm:"not null;index"`
	Phone    string          `json:"phone"`
	Village  string          `json:"village,omitempty"`
	FirmName string          `json:"firm_name,omitempty"`
	Address  string          `json:"address"`
	Notes    string          `json:"notes" gorm:"type:text"`
	Bakaya   decimal.Decimal `json:"bakaya" gorm:"type:decimal(20,2);not null;default:0"`
}

// PartyPatch is a sparse update; nil fields are left untouched.
type PartyPatch struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=120"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Village  *string `json:"village" validate:"omitempty,max=120"`
	FirmName *string `json:"firm_name" validate:"omitempty,max=120"`
	Address  *string `json:"address" validate:"omitempty,max=255"`
	Notes    *string `json:"notes"`
}

// Updates returns the column map for a gorm Updates call.
func (p PartyPatch) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Phone != nil {
		updates["phone"] = *p.Phone
	}
	if p.Village != nil {
		updates["village"] = *p.Village
	}
	if p.FirmName != nil {
		updates["firm_name"] = *p.FirmName
	}
	if p.Address != nil {
		updates["address"] = *p.Address
	}
	if p.Notes != nil {
		updates["notes"] = *p.Notes
	}
	return updates
}

type PartyRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Village  string `json:"village" validate:"omitempty,max=120"`
	FirmName string `json:"firm_name" validate:"omitempty,max=120"`
	Address  string `json:"address" validate:"omitempty,max=255"`
	Notes    string `json:"notes"`
}
