package domain

import "time"

// Group is a chat the bot moderates. OwnerID is the user who added the bot,
// 0 when unknown.
type Group struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Title     string    `json:"title"`
	OwnerID   int64     `json:"ownerId" gorm:"index"`
	IsPremium bool      `json:"isPremium"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Group) TableName() string {
	return "groups"
}

// User is someone who talked to the bot in private
type User struct {
	ID        int64  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	Language  string `json:"language" gorm:"size:8"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
