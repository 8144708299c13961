package router

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

// Capture groups emitted for placeholders.
const (
	segmentCapture = `([^\/]+?)`
	repeatCapture  = `([^\/]+?(?:\/[^\/]+?)*)`
	wildCapture    = `(.*)`
)

// CompileOptions controls how a route path is compiled.
type CompileOptions struct {
	End           bool // match the whole path rather than a prefix
	Strict        bool // do not allow an optional trailing slash
	CaseSensitive bool
}

// Key is a named placeholder in a compiled path, in order of appearance.
type Key struct {
	Name     string
	Optional bool
	Repeat   bool
	Pattern  string // custom regex, if any
}

// Pattern is a compiled route path. Source is the canonical pattern text:
//
//	/foo/:bar      ->  ^\/foo\/(?:([^\/]+?))\/?$
//	/foo (prefix)  ->  ^\/foo\/?(?=\/|$)
//
// Matching uses an RE2 equivalent in which the trailing lookahead becomes a
// boundary group.
type Pattern struct {
	path     string
	source   string
	keys     []Key
	end      bool
	boundary bool
	re       *regexp.Regexp
}

// Path returns the path the pattern was compiled from.
func (p *Pattern) Path() string { return p.path }

// Source returns the compiled pattern text.
func (p *Pattern) Source() string { return p.source }

// Keys returns the placeholders in order.
func (p *Pattern) Keys() []Key { return p.keys }

// KeyNames returns the placeholder names in order.
func (p *Pattern) KeyNames() []string {
	names := make([]string, len(p.keys))
	for i, k := range p.keys {
		names[i] = k.Name
	}
	return names
}

// End reports whether the pattern must match the whole path.
func (p *Pattern) End() bool { return p.end }

// Compile compiles a route path. Supported syntax: literal text, ":name",
// ":name?", ":name*", ":name(regex)" and a bare "*".
func Compile(path string, opts CompileOptions) (*Pattern, error) {
	var (
		buf  = []byte{'^'}
		keys []Key
		anon int
	)

	for i := 0; i < len(path); {
		c := path[i]
		switch {
		case c == ':' && i+1 < len(path) && isWord(path[i+1]):
			j := i + 1
			for j < len(path) && isWord(path[j]) {
				j++
			}
			key := Key{Name: path[i+1 : j]}

			var format, slash string
			if bytes.HasSuffix(buf, []byte(`\.`)) {
				format, buf = `\.`, buf[:len(buf)-2]
			}
			if bytes.HasSuffix(buf, []byte(`\/`)) {
				slash, buf = `\/`, buf[:len(buf)-2]
			}

			capture := `([^\/` + format + `]+?)`
			if j < len(path) && path[j] == '(' {
				end, err := closingParen(path, j)
				if err != nil {
					return nil, err
				}
				key.Pattern = path[j+1 : end]
				capture = "(" + key.Pattern + ")"
				j = end + 1
			}
			if j < len(path) && path[j] == '*' {
				key.Repeat = true
				if key.Pattern == "" {
					capture = repeatCapture
				}
				j++
			}
			if j < len(path) && path[j] == '?' {
				key.Optional = true
				j++
			}

			if key.Optional {
				buf = append(buf, "(?:"+format+slash+capture+")?"...)
			} else {
				buf = append(buf, slash+"(?:"+format+capture+")"...)
			}
			keys = append(keys, key)
			i = j

		case c == '*':
			buf = append(buf, wildCapture...)
			keys = append(keys, Key{Name: strconv.Itoa(anon), Repeat: true})
			anon++
			i++

		case c == '/' || c == '.':
			buf = append(buf, '\\', c)
			i++

		default:
			buf = append(buf, c)
			i++
		}
	}

	if !opts.Strict {
		if bytes.HasSuffix(buf, []byte(`\/`)) {
			buf = append(buf, '?')
		} else {
			buf = append(buf, `\/?`...)
		}
	}

	p := &Pattern{
		path: path,
		keys: keys,
		end:  opts.End,
	}

	matcher := string(buf)
	switch {
	case opts.End:
		p.source = matcher + "$"
		matcher += "$"
	case buf[len(buf)-1] == '/':
		p.source = matcher
	default:
		p.source = matcher + `(?=\/|$)`
		matcher += `(\/|$)`
		p.boundary = true
	}

	if !opts.CaseSensitive {
		matcher = "(?i)" + matcher
	}

	re, err := regexp.Compile(matcher)
	if err != nil {
		return nil, fmt.Errorf("router: compile %q: %w", path, err)
	}
	p.re = re

	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(path string, opts CompileOptions) *Pattern {
	p, err := Compile(path, opts)
	if err != nil {
		panic(err)
	}
	return p
}

// match reports whether path matches and returns the captured values by key
// name along with the length of the matched prefix.
func (p *Pattern) match(path string) (map[string]string, int, bool) {
	m := p.re.FindStringSubmatchIndex(path)
	if m == nil {
		return nil, 0, false
	}

	var values map[string]string
	for k, key := range p.keys {
		start, end := 2+2*k, 3+2*k
		if end >= len(m) || m[start] < 0 {
			continue
		}
		if values == nil {
			values = make(map[string]string, len(p.keys))
		}
		values[key.Name] = path[m[start]:m[end]]
	}

	consumed := m[1]
	if p.boundary {
		consumed = m[2*p.re.NumSubexp()]
	}
	return values, consumed, true
}

func closingParen(path string, open int) (int, error) {
	depth := 0
	for i := open; i < len(path); i++ {
		switch path[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("router: compile %q: unterminated group at %d", path, open)
}

func isWord(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
