//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Action is the moderation action an audit event records
// ENUM(delete,warn,mute,kick,ban,none,unban,unmute)
type Action string
