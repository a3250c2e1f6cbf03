package model

import "time"

// NoticeKind distinguishes informational notices from failures.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeError
)

// Notice is a dismissible message shown in the status bar after a
// user-initiated operation.
type Notice struct {
	Kind NoticeKind

	// Message is the human-readable notice text.
	Message string

	// Retryable is set when the failed operation can be re-dispatched.
	Retryable bool

	// CreatedAt is when the notice was raised.
	CreatedAt time.Time
}

// NewErrorNotice builds a retryable failure notice.
func NewErrorNotice(msg string) *Notice {
	return &Notice{Kind: NoticeError, Message: msg, Retryable: true, CreatedAt: time.Now()}
}

// NewInfoNotice builds an informational notice.
func NewInfoNotice(msg string) *Notice {
	return &Notice{Kind: NoticeInfo, Message: msg, CreatedAt: time.Now()}
}
