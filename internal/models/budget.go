package models

import "fintrack/internal/money"

// Budget is a spending limit over a month or a year. A nil CategoryID
// covers every expense category of the user. Month is set only for
// MONTH budgets.
type Budget struct {
	Base
	UserID     string       `gorm:"type:uuid;not null;index" json:"-"`
	CategoryID *string      `gorm:"type:uuid;index" json:"category"`
	Period     BudgetPeriod `gorm:"size:5;not null" json:"period"`
	Year       int          `gorm:"not null" json:"year"`
	Month      *int         `json:"month"`
	Limit      money.Amount `gorm:"column:limit_amount;type:bigint;not null" json:"limit"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

// OwnerID returns the id of the owning user.
func (b Budget) OwnerID() string { return b.UserID }
