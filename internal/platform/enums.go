//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package platform

// MemberStatus is a user's standing in a group as reported by the platform
// ENUM(creator,administrator,member,restricted,left,kicked)
type MemberStatus string
