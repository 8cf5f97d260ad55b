package svgconv

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/benoitkugler/svgtree/svgdom"
)

// ErrorCode categorizes the failures preventing a tree
// from being built.
type ErrorCode uint8

const (
	// ParsingFailed indicates a malformed document.
	ParsingFailed ErrorCode = iota + 1
	// NoRootElement indicates a document without a root <svg> element.
	NoRootElement
	// InvalidSize indicates a root element without a valid size.
	InvalidSize
	// NotAnUTF8Str indicates a source which is not valid UTF-8.
	NotAnUTF8Str
	// FileOpenFailed indicates an unreadable source file.
	FileOpenFailed
)

func (c ErrorCode) String() string {
	switch c {
	case ParsingFailed:
		return "parsing failed"
	case NoRootElement:
		return "no root element"
	case InvalidSize:
		return "invalid size"
	case NotAnUTF8Str:
		return "not an UTF-8 string"
	case FileOpenFailed:
		return "file open failed"
	default:
		return "<unknown ErrorCode>"
	}
}

// Error is returned by the functions building a tree.
type Error struct {
	Code ErrorCode
	Err  error // the underlying error, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "svgconv: " + e.Code.String()
	}
	return fmt.Sprintf("svgconv: %s: %s", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var errInvalidSize = errors.New("width and height must be positive")

// wrapLoadError categorizes the errors of the svgdom package.
func wrapLoadError(err error) error {
	if err == nil {
		return nil
	}
	var pathErr *fs.PathError
	switch {
	case errors.As(err, &pathErr):
		return &Error{Code: FileOpenFailed, Err: err}
	case errors.Is(err, svgdom.ErrNoRootElement):
		return &Error{Code: NoRootElement, Err: err}
	default:
		return &Error{Code: ParsingFailed, Err: err}
	}
}
