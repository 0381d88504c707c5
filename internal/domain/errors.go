package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNoToken indicates no access token has been stored yet
	ErrNoToken = errors.New("no access token configured, run the login flow first")

	// ErrAuthFailed indicates the account service rejected the token
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrServerOffline indicates the media server is unreachable
	ErrServerOffline = errors.New("media server is unreachable")

	// ErrPINExpired indicates the login PIN expired before it was claimed
	ErrPINExpired = errors.New("authentication PIN has expired")

	// ErrItemNotFound indicates the requested media item does not exist
	ErrItemNotFound = errors.New("media item not found")

	// ErrUnsupportedItem indicates the item kind cannot be streamed
	ErrUnsupportedItem = errors.New("item kind is not streamable")
)
