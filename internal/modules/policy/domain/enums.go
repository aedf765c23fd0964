//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Action is the punishment applied once a user reaches the warn limit
// ENUM(mute,kick,ban)
type Action string

// Language selects the strings the bot answers with in a group
// ENUM(uz,ru,en)
type Language string
