package instafader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/setanarut/instafader/skinini"
)

var (
	// ErrConfigNotFound: the folder has no skin.ini.
	ErrConfigNotFound = errors.New("configuration not found")
	// ErrParse: malformed color or numeric value in skin.ini.
	ErrParse = skinini.ErrParse
	// ErrAssetNotFound: neither resolution of a required element exists.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrIO: a copy, write or delete failed.
	ErrIO = errors.New("i/o failure")
	// ErrNothingToRevert: the folder holds no backup snapshot.
	ErrNothingToRevert = errors.New("nothing to revert")
)

// Error is returned by Engine operations. Kind is one of the sentinel
// errors above; errors.Is matches both Kind and the wrapped Err.
type Error struct {
	Kind error
	Op   string // "load", "preview", "transform", "revert", ...
	Path string // file or element concerned, relative to the skin folder
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.Error())
	if e.Path != "" {
		fmt.Fprintf(&sb, " %s", e.Path)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func ioFailure(op, path string, err error) error {
	return &Error{Kind: ErrIO, Op: op, Path: path, Err: err}
}

func parseFailure(op string, err error) error {
	return &Error{Kind: ErrParse, Op: op, Path: skinini.FileName, Err: err}
}
