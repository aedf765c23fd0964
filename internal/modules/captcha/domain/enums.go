//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Status is the state of a captcha challenge. Solved and expired are terminal.
// ENUM(pending,solved,expired)
type Status string
