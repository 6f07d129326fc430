package pocketerr

import (
	"errors"
	"fmt"
)

// Code is a numeric error code from the pocketcore codespace.
type Code int64

const (
	CodeSignatureVerificationFailed Code = 4
	CodeEmptyPayloadData            Code = 25
	CodeHTTPExecution               Code = 28
	CodeDuplicateProof              Code = 37
	CodeAppNotFound                 Code = 45
	CodeInvalidBlockHeight          Code = 60
	CodeOverService                 Code = 71
	CodeRequestHash                 Code = 74
	CodeUnsupportedBlockchain       Code = 76
	CodeEvidenceSealed              Code = 90
)

var (
	// ErrPocketCore matches every error returned by a node.
	ErrPocketCore = errors.New("pocket core error")

	ErrAppNotFound                 = errors.New("application not found")
	ErrDuplicateProof              = errors.New("duplicate proof")
	ErrEmptyPayloadData            = errors.New("empty payload data")
	ErrEvidenceSealed              = errors.New("evidence sealed")
	ErrInvalidBlockHeight          = errors.New("invalid block height")
	ErrOverService                 = errors.New("over service")
	ErrRequestHash                 = errors.New("request hash mismatch")
	ErrUnsupportedBlockchain       = errors.New("unsupported blockchain")
	ErrHTTPExecution               = errors.New("http execution failed")
	ErrSignatureVerificationFailed = errors.New("signature verification failed")
)

var relayCodes = map[Code]error{
	CodeAppNotFound:           ErrAppNotFound,
	CodeDuplicateProof:        ErrDuplicateProof,
	CodeEmptyPayloadData:      ErrEmptyPayloadData,
	CodeEvidenceSealed:        ErrEvidenceSealed,
	CodeInvalidBlockHeight:    ErrInvalidBlockHeight,
	CodeOverService:           ErrOverService,
	CodeRequestHash:           ErrRequestHash,
	CodeUnsupportedBlockchain: ErrUnsupportedBlockchain,
	CodeHTTPExecution:         ErrHTTPExecution,
}

// Error is a rejection reported by a node.
type Error struct {
	Code    Code
	Message string

	kind error
}

// New returns the error for code as a relay rejection.
func New(code Code, message string) *Error {
	kind, ok := relayCodes[code]
	if !ok {
		kind = ErrPocketCore
	}
	return &Error{Code: code, Message: message, kind: kind}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (code %d): %s", e.kind, e.Code, e.Message)
}

// Unwrap exposes the named sentinel and ErrPocketCore.
func (e *Error) Unwrap() []error {
	if e.kind == ErrPocketCore {
		return []error{ErrPocketCore}
	}
	return []error{e.kind, ErrPocketCore}
}

// Kind returns the named sentinel, or ErrPocketCore for unmapped codes.
func (e *Error) Kind() error { return e.kind }
