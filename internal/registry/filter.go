package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// ErrInvalidFilter is returned when a service filter cannot be parsed
var ErrInvalidFilter = errors.New("invalid service filter")

// Filter matches service references. Filters use the LDAP-style syntax of
// RFC 4515 restricted to equality, presence and substring items combined
// with '&', '|' and '!', for example:
//
//	(&(objectClass=catalog.source.FederatedSource)(source.type=http*))
//
// Attribute names are case-insensitive; values are case-sensitive.
type Filter interface {
	Match(ref ServiceReference) bool
	String() string
}

// ParseFilter parses an LDAP-style filter. An empty filter yields a nil Filter,
// which matches everything.
func ParseFilter(filter string) (Filter, error) {
	if strings.TrimSpace(filter) == "" {
		return nil, nil
	}

	p := &filterParser{input: filter}
	f, err := p.parseFilter()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected trailing characters")
	}
	return f, nil
}

type filterParser struct {
	input string
	pos   int
}

func (p *filterParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at position %d in %q", ErrInvalidFilter, fmt.Sprintf(format, args...), p.pos, p.input)
}

func (p *filterParser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *filterParser) peek() byte {
	return p.input[p.pos]
}

func (p *filterParser) skipSpace() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t' || p.peek() == '\n' || p.peek() == '\r') {
		p.pos++
	}
}

func (p *filterParser) consume(c byte) bool {
	if p.eof() || p.peek() != c {
		return false
	}
	p.pos++
	return true
}

func (p *filterParser) parseFilter() (Filter, error) {
	p.skipSpace()
	if !p.consume('(') {
		return nil, p.errorf("expected '('")
	}
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("unexpected end of filter")
	}

	var (
		f   Filter
		err error
	)
	switch p.peek() {
	case '&':
		p.pos++
		var list []Filter
		list, err = p.parseList()
		f = andFilter(list)
	case '|':
		p.pos++
		var list []Filter
		list, err = p.parseList()
		f = orFilter(list)
	case '!':
		p.pos++
		var sub Filter
		sub, err = p.parseFilter()
		f = &notFilter{sub: sub}
	default:
		f, err = p.parseItem()
	}
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if !p.consume(')') {
		return nil, p.errorf("expected ')'")
	}
	return f, nil
}

func (p *filterParser) parseList() ([]Filter, error) {
	var list []Filter
	p.skipSpace()
	for !p.eof() && p.peek() == '(' {
		sub, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		list = append(list, sub)
		p.skipSpace()
	}
	if len(list) == 0 {
		return nil, p.errorf("empty filter list")
	}
	return list, nil
}

func (p *filterParser) parseItem() (Filter, error) {
	start := p.pos
	for !p.eof() && p.peek() != '=' {
		if p.peek() == ')' {
			return nil, p.errorf("expected '='")
		}
		if strings.IndexByte("(<>~*\\", p.peek()) >= 0 {
			return nil, p.errorf("invalid character %q in attribute", p.peek())
		}
		p.pos++
	}
	if p.eof() {
		return nil, p.errorf("expected '='")
	}
	key := strings.TrimSpace(p.input[start:p.pos])
	if key == "" {
		return nil, p.errorf("missing attribute name")
	}
	p.pos++

	var (
		parts    []string
		current  strings.Builder
		wildcard bool
	)
value:
	for {
		if p.eof() {
			return nil, p.errorf("unterminated value")
		}
		switch c := p.peek(); c {
		case ')':
			break value
		case '(':
			return nil, p.errorf("unescaped '(' in value")
		case '\\':
			p.pos++
			if p.eof() {
				return nil, p.errorf("dangling escape")
			}
			current.WriteByte(p.peek())
			p.pos++
		case '*':
			wildcard = true
			parts = append(parts, current.String())
			current.Reset()
			p.pos++
		default:
			current.WriteByte(c)
			p.pos++
		}
	}
	parts = append(parts, current.String())

	if !wildcard {
		return &equalFilter{key: key, value: parts[0]}, nil
	}
	if len(parts) == 2 && parts[0] == "" && parts[1] == "" {
		return &presentFilter{key: key}, nil
	}

	quoted := make([]string, len(parts))
	for i, part := range parts {
		quoted[i] = glob.QuoteMeta(part)
	}
	pattern := strings.Join(quoted, "*")
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, p.errorf("invalid substring pattern: %v", err)
	}
	return &globFilter{key: key, pattern: strings.Join(parts, "*"), glob: g}, nil
}

// attributeValues returns the values of key on ref and whether the attribute exists
func attributeValues(ref ServiceReference, key string) ([]string, bool) {
	if strings.EqualFold(key, PropObjectClass) {
		return ref.Interfaces, len(ref.Interfaces) > 0
	}
	for k, v := range ref.Properties {
		if strings.EqualFold(k, key) {
			return []string{v}, true
		}
	}
	return nil, false
}

type andFilter []Filter

func (f andFilter) Match(ref ServiceReference) bool {
	for _, sub := range f {
		if !sub.Match(ref) {
			return false
		}
	}
	return true
}

func (f andFilter) String() string {
	return "(&" + joinFilters(f) + ")"
}

type orFilter []Filter

func (f orFilter) Match(ref ServiceReference) bool {
	for _, sub := range f {
		if sub.Match(ref) {
			return true
		}
	}
	return false
}

func (f orFilter) String() string {
	return "(|" + joinFilters(f) + ")"
}

type notFilter struct {
	sub Filter
}

func (f *notFilter) Match(ref ServiceReference) bool {
	return !f.sub.Match(ref)
}

func (f *notFilter) String() string {
	return "(!" + f.sub.String() + ")"
}

type presentFilter struct {
	key string
}

func (f *presentFilter) Match(ref ServiceReference) bool {
	_, ok := attributeValues(ref, f.key)
	return ok
}

func (f *presentFilter) String() string {
	return "(" + f.key + "=*)"
}

type equalFilter struct {
	key   string
	value string
}

func (f *equalFilter) Match(ref ServiceReference) bool {
	values, _ := attributeValues(ref, f.key)
	for _, v := range values {
		if v == f.value {
			return true
		}
	}
	return false
}

func (f *equalFilter) String() string {
	return "(" + f.key + "=" + escapeValue(f.value) + ")"
}

type globFilter struct {
	key     string
	pattern string
	glob    glob.Glob
}

func (f *globFilter) Match(ref ServiceReference) bool {
	values, _ := attributeValues(ref, f.key)
	for _, v := range values {
		if f.glob.Match(v) {
			return true
		}
	}
	return false
}

func (f *globFilter) String() string {
	return "(" + f.key + "=" + f.pattern + ")"
}

func joinFilters(filters []Filter) string {
	var b strings.Builder
	for _, f := range filters {
		b.WriteString(f.String())
	}
	return b.String()
}

func escapeValue(v string) string {
	return strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`, `*`, `\*`).Replace(v)
}
