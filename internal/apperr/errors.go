// Package apperr holds the sentinel errors shared across packages.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidDirectory    = errors.New("invalid directory")
	ErrDecode              = errors.New("decode error")
	ErrRendererUnavailable = errors.New("renderer unavailable")
)

// DecodeError reports note content that is not valid UTF-8 text.
type DecodeError struct {
	Offset int
	Byte   byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid UTF-8 byte 0x%02x at offset %d", e.Byte, e.Offset)
}

// Unwrap lets errors.Is match ErrDecode.
func (e *DecodeError) Unwrap() error { return ErrDecode }
