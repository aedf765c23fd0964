package domain

import "time"

// ModerationEvent is one audit fact. The moderation core only writes these.
type ModerationEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GroupID   int64     `json:"group_id" gorm:"index:idx_logs_group_time,priority:1"`
	UserID    int64     `json:"user_id"`
	Action    Action    `json:"action" gorm:"size:16"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp" gorm:"column:occurred_at;index:idx_logs_group_time,priority:2"`
}

func (ModerationEvent) TableName() string {
	return "moderation_logs"
}

// Stats summarizes the audit log
type Stats struct {
	Groups int64 `json:"groups"`
	Events int64 `json:"events"`
}
