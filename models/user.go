package models

// User represents a registered account. Accounts are immutable after
// creation and never deleted.
type User struct {
	UserID   uint   `gorm:"primaryKey;column:user_id"`
	Username string `gorm:"uniqueIndex;size:255;not null"`
	Email    string `gorm:"not null"`
	PwHash   string `gorm:"column:pw_hash;not null"`
}

// TableName overrides the table name used by User to `user`
func (User) TableName() string {
	return "user"
}
