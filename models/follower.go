package models

// Follower is a directed edge: who follows whom. The composite primary
// key keeps the edge unique per ordered pair.
type Follower struct {
	WhoID  uint `gorm:"primaryKey;column:who_id;autoIncrement:false"`
	WhomID uint `gorm:"primaryKey;column:whom_id;autoIncrement:false"`
}

// TableName overrides the table name used by GORM
func (Follower) TableName() string {
	return "follower"
}
