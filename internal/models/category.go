package models

// Category is a user-owned label for income or expense transactions.
// Names are unique per user and type.
type Category struct {
	Base
	UserID string    `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name_type,priority:1" json:"-"`
	Name   string    `gorm:"size:50;not null;uniqueIndex:idx_categories_user_name_type,priority:2" json:"name"`
	Type   EntryType `gorm:"column:choice_type;size:7;not null;uniqueIndex:idx_categories_user_name_type,priority:3" json:"choice_type"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// OwnerID returns the id of the owning user.
func (c Category) OwnerID() string { return c.UserID }
