package models

import (
	"time"

	"fintrack/internal/money"
)

// Transaction is a single income or expense entry. Its Type always equals
// the Type of its Category.
type Transaction struct {
	Base
	UserID      string       `gorm:"type:uuid;not null;index:idx_transactions_user_date,priority:1;index:idx_transactions_user_type,priority:1" json:"-"`
	CategoryID  string       `gorm:"type:uuid;not null;index" json:"category"`
	Type        EntryType    `gorm:"column:choice_type;size:7;not null;index:idx_transactions_user_type,priority:2" json:"choice_type"`
	Amount      money.Amount `gorm:"type:bigint;not null" json:"amount"`
	Date        time.Time    `gorm:"type:date;not null;index:idx_transactions_user_date,priority:2" json:"date"`
	Description string       `gorm:"size:255" json:"description"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"-"`
}

// OwnerID returns the id of the owning user.
func (t Transaction) OwnerID() string { return t.UserID }
