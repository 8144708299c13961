// Package pathtemplate turns compiled route patterns back into OpenAPI path
// templates.
//
// Only patterns produced by the router's path compiler are understood: a start
// anchor, literal segments with escaped "/" and ".", plain ":name" placeholders,
// and one of two endings. Optional, repeated and custom-regex placeholders are
// rejected rather than guessed at.
package pathtemplate

import (
	"errors"
	"fmt"
	"strings"
)

// Pattern fragments, as they appear after "\/" and "\." are unescaped.
const (
	exactSuffix  = "/?$"
	prefixSuffix = "/?(?=/|$)"
	capture      = "/(?:([^/]+?))"
)

// Ending is the kind of suffix a compiled pattern carries.
type Ending int

// Recognized endings.
const (
	EndExact  Ending = iota + 1 // whole path must match
	EndPrefix                   // matches a prefix ending at "/" or end of path
)

func (e Ending) String() string {
	switch e {
	case EndExact:
		return "exact"
	case EndPrefix:
		return "prefix"
	default:
		return "unknown"
	}
}

// Failure reasons. Errors returned by Decompile match one of these with errors.Is.
var (
	ErrNoEnding            = errors.New("cannot determine ending")
	ErrUnexpectedCapture   = errors.New("unexpected capture group")
	ErrUnexpectedCharacter = errors.New("unexpected character")
)

// Error describes why a pattern could not be decompiled. Offset is relative to
// the pattern body after the anchor and ending are removed.
type Error struct {
	Reason error
	Offset int
	Char   rune
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Reason, ErrUnexpectedCharacter):
		return fmt.Sprintf("bad pattern: %v %q at position %d", e.Reason, e.Char, e.Offset)
	case errors.Is(e.Reason, ErrUnexpectedCapture):
		return fmt.Sprintf("bad pattern: %v at position %d", e.Reason, e.Offset)
	default:
		return fmt.Sprintf("bad pattern: %v", e.Reason)
	}
}

// Unwrap returns the failure reason.
func (e *Error) Unwrap() error { return e.Reason }

// Decompile reverses a compiled pattern into a path template, binding each
// capture group to the next name in keys:
//
//	Decompile(`^\/foo\/(?:([^\/]+?))\/?$`, []string{"bar"}) // "/foo/{bar}"
//
// The root pattern decompiles to the empty string.
func Decompile(pattern string, keys []string) (string, error) {
	body, _, err := split(pattern)
	if err != nil {
		return "", err
	}

	var (
		b    strings.Builder
		next int
	)
	for i := 0; i < len(body); {
		switch {
		case strings.HasPrefix(body[i:], capture):
			i += len(capture)
			if next >= len(keys) {
				return "", &Error{Reason: ErrUnexpectedCapture, Offset: i}
			}
			b.WriteString("/{" + keys[next] + "}")
			next++

		case body[i] == '/':
			seg := body[i:]
			if end := strings.IndexByte(body[i+1:], '/'); end >= 0 {
				seg = body[i : i+1+end]
			}
			// Groups only come from placeholders; a group that is not the plain
			// capture idiom is an optional, repeated or custom placeholder.
			if g := strings.IndexByte(seg, '('); g >= 0 {
				return "", &Error{Reason: ErrUnexpectedCharacter, Offset: i + g, Char: '('}
			}
			b.WriteString(seg)
			i += len(seg)

		default:
			return "", &Error{Reason: ErrUnexpectedCharacter, Offset: i, Char: rune(body[i])}
		}
	}

	return b.String(), nil
}

// EndingOf reports which suffix a compiled pattern carries.
func EndingOf(pattern string) (Ending, error) {
	_, end, err := split(pattern)
	return end, err
}

// split removes the anchor, unescapes the body and strips the ending.
func split(pattern string) (string, Ending, error) {
	body := strings.TrimPrefix(pattern, "^")
	body = unescape(body)

	switch {
	case strings.HasSuffix(body, exactSuffix):
		return strings.TrimSuffix(body, exactSuffix), EndExact, nil
	case strings.HasSuffix(body, prefixSuffix):
		return strings.TrimSuffix(body, prefixSuffix), EndPrefix, nil
	default:
		return "", 0, &Error{Reason: ErrNoEnding}
	}
}

// unescape turns `\/` into "/" and `\.` into ".".
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '/' || s[i+1] == '.') {
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
