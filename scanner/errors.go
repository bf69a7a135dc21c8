package scanner

import (
	"errors"
	"io/fs"
	"syscall"
)

// Kind tags the outcome of a walk or scan operation.
type Kind int

const (
	KindOK Kind = iota
	KindAccessDenied
	KindNotFound
	KindNotDirectory
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindAccessDenied:
		return "access denied"
	case KindNotFound:
		return "not found"
	case KindNotDirectory:
		return "not a directory"
	default:
		return "other"
	}
}

// KindOf classifies err. A nil error is KindOK.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, fs.ErrPermission):
		return KindAccessDenied
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, syscall.ENOTDIR):
		return KindNotDirectory
	default:
		return KindOther
	}
}

const (
	OpOpenDir = "opendir"
	OpOpen    = "open"
	OpRead    = "read"
)

// AccessError is a non-fatal failure on a single file or directory.
type AccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return e.Label() + ": " + e.Err.Error()
}

func (e *AccessError) Unwrap() error { return e.Err }

func (e *AccessError) Kind() Kind { return KindOf(e.Err) }

// Label is the context printed in front of the system error.
func (e *AccessError) Label() string {
	switch e.Op {
	case OpOpenDir:
		return "Error opening directory"
	case OpRead:
		return "Error reading file"
	default:
		return "Error opening file"
	}
}
