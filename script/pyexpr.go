package script

import (
	"fmt"
	"strings"
)

type exprKind uint8

const (
	exprAtom exprKind = iota
	exprString
	exprCall
	exprDict
)

// expr is a node of the small expression subset used by host scripts:
// string literals, bare atoms (names, numbers, enum tags), calls with
// positional/keyword arguments and flat dictionaries.
type expr struct {
	kind exprKind

	// Atom text, string contents or callee name.
	text string

	args   []expr
	kwargs []kwarg

	// Dictionary entries.
	entries []kwarg
}

type kwarg struct {
	key   string
	value expr
}

func (e expr) String() string {
	switch e.kind {
	case exprString:
		return quote(e.text)
	case exprCall:
		parts := make([]string, 0, len(e.args)+len(e.kwargs))
		for _, a := range e.args {
			parts = append(parts, a.String())
		}
		for _, kw := range e.kwargs {
			parts = append(parts, kw.key+"="+kw.value.String())
		}
		return e.text + "(" + strings.Join(parts, ", ") + ")"
	case exprDict:
		parts := make([]string, 0, len(e.entries))
		for _, kv := range e.entries {
			parts = append(parts, quote(kv.key)+": "+kv.value.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return e.text
	}
}

// Quote a string using single quotes like the host script generator.
func quote(s string) string {
	s = strings.Replace(s, `\`, `\\`, -1)
	s = strings.Replace(s, `'`, `\'`, -1)
	return "'" + s + "'"
}

type exprParser struct {
	src string
	pos int
}

// Parse a complete expression; trailing input is an error.
func parseExpr(src string) (expr, error) {
	p := &exprParser{src: src}
	e, err := p.parse()
	if err != nil {
		return expr{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return expr{}, fmt.Errorf("unexpected %q at column %d", p.src[p.pos:], p.pos+1)
	}
	return e, nil
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		if p.pos >= len(p.src) {
			return fmt.Errorf("expected %q; got end of statement", c)
		}
		return fmt.Errorf("expected %q at column %d; got %q", c, p.pos+1, p.src[p.pos])
	}
	p.pos++
	return nil
}

func (p *exprParser) parse() (expr, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == '\'' || c == '"':
		s, err := p.parseString()
		return expr{kind: exprString, text: s}, err
	case c == '{':
		return p.parseDict()
	case isAtomChar(c):
		atom := p.parseAtom()
		p.skipSpace()
		if p.peek() != '(' {
			return expr{kind: exprAtom, text: atom}, nil
		}
		return p.parseCall(atom)
	case c == 0:
		return expr{}, fmt.Errorf("unexpected end of statement")
	default:
		return expr{}, fmt.Errorf("unexpected %q at column %d", c, p.pos+1)
	}
}

func isAtomChar(c byte) bool {
	return c == '_' || c == '.' || c == '-' || c == '+' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (p *exprParser) parseAtom() string {
	start := p.pos
	for p.pos < len(p.src) && isAtomChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *exprParser) parseString() (string, error) {
	delim := p.src[p.pos]
	p.pos++

	var sb strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		p.pos++
		switch {
		case c == delim:
			return sb.String(), nil
		case c == '\\' && p.pos < len(p.src):
			esc := p.src[p.pos]
			p.pos++
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(esc)
			}
		default:
			sb.WriteByte(c)
		}
	}
	return "", fmt.Errorf("unterminated string literal")
}

func (p *exprParser) parseCall(name string) (expr, error) {
	call := expr{kind: exprCall, text: name}
	p.pos++ // (

	for {
		p.skipSpace()
		if p.peek() == ')' {
			p.pos++
			return call, nil
		}

		// Keyword argument?
		save := p.pos
		if isAtomChar(p.peek()) {
			key := p.parseAtom()
			p.skipSpace()
			if p.peek() == '=' {
				p.pos++
				val, err := p.parse()
				if err != nil {
					return expr{}, err
				}
				call.kwargs = append(call.kwargs, kwarg{key: key, value: val})
				if err := p.listSep(')'); err != nil {
					return expr{}, err
				}
				continue
			}
			p.pos = save
		}

		if len(call.kwargs) != 0 {
			return expr{}, fmt.Errorf("positional argument follows keyword argument in call to %s", name)
		}
		arg, err := p.parse()
		if err != nil {
			return expr{}, err
		}
		call.args = append(call.args, arg)
		if err := p.listSep(')'); err != nil {
			return expr{}, err
		}
	}
}

func (p *exprParser) parseDict() (expr, error) {
	dict := expr{kind: exprDict}
	p.pos++ // {

	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			return dict, nil
		}

		key, err := p.parse()
		if err != nil {
			return expr{}, err
		}
		if key.kind != exprString {
			return expr{}, fmt.Errorf("dictionary keys must be strings; got %s", key)
		}
		if err := p.expect(':'); err != nil {
			return expr{}, err
		}
		val, err := p.parse()
		if err != nil {
			return expr{}, err
		}
		dict.entries = append(dict.entries, kwarg{key: key.text, value: val})
		if err := p.listSep('}'); err != nil {
			return expr{}, err
		}
	}
}

// Consume a list separator. The closing delimiter is left for the caller.
func (p *exprParser) listSep(closing byte) error {
	p.skipSpace()
	switch p.peek() {
	case ',':
		p.pos++
		return nil
	case closing:
		return nil
	}
	return p.expect(closing)
}
