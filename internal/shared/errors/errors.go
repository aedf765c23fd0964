package errors

import "errors"

var (
	ErrMissingBotToken   = errors.New("TELEGRAM_BOT_TOKEN environment variable is required")
	ErrPolicyNotFound    = errors.New("group policy not found")
	ErrInvalidPolicy     = errors.New("invalid group policy")
	ErrBotNotInitialized = errors.New("bot not initialized")
	ErrNotGroupChat      = errors.New("not a group chat")
	ErrPlatformRejected  = errors.New("platform rejected the request")
	ErrUserNotFound      = errors.New("user not found")
)
