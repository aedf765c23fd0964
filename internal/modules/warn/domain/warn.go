package domain

import "time"

// WarnRecord is a user's warn count in a group together with the reason of
// the latest infraction. A reset removes the record.
type WarnRecord struct {
	GroupID   int64     `json:"group_id" gorm:"primaryKey;autoIncrement:false"`
	UserID    int64     `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	Count     int       `json:"count" gorm:"not null;default:0"`
	Reason    string    `json:"reason"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WarnRecord) TableName() string {
	return "warns"
}
