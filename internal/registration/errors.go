package registration

import "errors"

var (
	// ErrUnknownSession means the chat never sent /start, so it has no record.
	ErrUnknownSession = errors.New("no identity record for chat")
	// ErrFormat means the message did not match "<label>: <value>".
	ErrFormat = errors.New("field format not valid")
	// ErrPayloadTooLarge means the attachment exceeds the configured size limit.
	ErrPayloadTooLarge = errors.New("attachment too large")
	// ErrStorage wraps any record store failure, including timeouts.
	ErrStorage = errors.New("storage error")
)
