package models

// Message represents a message in the system. Flagged messages stay in
// the schema but are excluded from every timeline query; nothing in this
// codebase ever sets the flag.
type Message struct {
	MessageID uint   `gorm:"primaryKey;column:message_id"`
	AuthorID  uint   `gorm:"column:author_id;not null"`
	Author    User   `gorm:"foreignKey:AuthorID;references:UserID"`
	Text      string `gorm:"column:text;not null"`
	PubDate   int64  `gorm:"column:pub_date"`
	Flagged   int    `gorm:"column:flagged;default:0"`
}

// TableName overrides the table name used by GORM
func (Message) TableName() string {
	return "message"
}
