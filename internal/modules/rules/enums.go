//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package rules

// EntityKind is the kind of a structured text entity attached to a message
// ENUM(url,text_link,mention,text_mention,other)
type EntityKind string

// MediaKind is the attachment type of a message
// ENUM(none,photo,video,sticker,gif,other)
type MediaKind string

// Reason explains why a message was removed
// ENUM(forward,link,badWord,media)
type Reason string
