// Package reader implements §4.1: turning source text into the untyped
// datum tree (lang/synx.Datum) every later phase operates on. Reader errors
// reuse the standard library's go/scanner error type exactly the way the
// teacher's lang/scanner package reuses it, rather than inventing a parallel
// positioned-error type.
package reader

import (
	"fmt"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mna/schemec/lang/synx"
)

type (
	Error     = scanner.Error
	ErrorList = scanner.ErrorList
)

// Refill is called whenever the reader runs out of input before a form is
// complete. It returns more bytes to append to the stream, or ok=false if no
// further input is available (in which case the in-progress form fails with
// an "unterminated form" error).
type Refill func() (more []byte, ok bool)

// Read reads a single datum from src. Whitespace and comments before and
// after the datum are skipped; anything left over in src is simply not
// consumed (callers wanting every datum in a buffer call Read repeatedly).
func Read(filename string, src []byte) (synx.Datum, error) {
	return ReadWithContinuation(filename, src, nil)
}

// ReadWithContinuation is Read, but calls refill (if non-nil) instead of
// failing whenever the stream ends in the middle of a form.
func ReadWithContinuation(filename string, src []byte, refill Refill) (synx.Datum, error) {
	r := newScanner(filename, src, refill)
	return r.read()
}

// ReadAll reads every datum in src in order, stopping at the first error (no
// recovery or resynchronization across forms, per the error handling
// design's "no automatic recovery"). Unlike Read, an empty or
// comments-and-whitespace-only src is not an error: ReadAll simply returns
// no data.
func ReadAll(filename string, src []byte) ([]synx.Datum, error) {
	s := newScanner(filename, src, nil)
	var out []synx.Datum
	for {
		s.skipSpace()
		if s.cur == -1 {
			return out, nil
		}
		d, err := s.readForm()
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
}

// scanner is the reader's character-level cursor: a rune-at-a-time scan over
// a byte buffer that can grow on demand (via refill) when a form outruns the
// bytes on hand, modeled on lang/scanner's Scanner (advance/peek/error) but
// tracking line/column itself instead of through a fixed-size go/token.File,
// since the buffer's final size isn't known up front.
type scanner struct {
	filename string
	src      []byte
	refill   Refill

	cur       rune
	off, roff int
	line, col int
}

func newScanner(filename string, src []byte, refill Refill) *scanner {
	s := &scanner{filename: filename, src: src, refill: refill, line: 1}
	s.advance()
	return s
}

func (s *scanner) pos() token.Position {
	return token.Position{Filename: s.filename, Offset: s.off, Line: s.line, Column: s.col}
}

func (s *scanner) errf(format string, args ...any) error {
	return &Error{Pos: s.pos(), Msg: fmt.Sprintf(format, args...)}
}

// advance reads the next rune into s.cur, growing src via refill if the
// buffer is exhausted. s.cur is -1 at true end of input (refill absent, or
// refill reporting no more data).
func (s *scanner) advance() {
	if s.roff >= len(s.src) {
		if s.refill != nil {
			if more, ok := s.refill(); ok && len(more) > 0 {
				s.src = append(s.src, more...)
			}
		}
	}
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}

	if s.cur == '\n' {
		s.line++
		s.col = 0
	}
	s.off = s.roff

	r, w := utf8.DecodeRune(s.src[s.roff:])
	s.roff += w
	s.cur = r
	s.col++
}

func (s *scanner) skipSpace() {
	for {
		switch {
		case isSpace(s.cur):
			s.advance()
		case s.cur == ';':
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
		default:
			return
		}
	}
}

// read reads one top-level datum, failing with "empty input" if nothing but
// whitespace/comments remains.
func (s *scanner) read() (synx.Datum, error) {
	s.skipSpace()
	if s.cur == -1 {
		return nil, s.errf("empty input")
	}
	return s.readForm()
}

// readForm reads one datum, requiring one to be present: EOF here (as
// opposed to at the top of read, before anything has been consumed) always
// means a form was left unterminated by its caller (a list, a quote, a
// string).
func (s *scanner) readForm() (synx.Datum, error) {
	s.skipSpace()
	switch s.cur {
	case -1:
		return nil, s.errf("unterminated form")
	case '(', '[':
		return s.readList()
	case ')', ']':
		return nil, s.errf("unexpected %q", s.cur)
	case '\'':
		return s.readQuote()
	case '"':
		return s.readString()
	default:
		return s.readAtom()
	}
}

func closingFor(opener rune) rune {
	if opener == '(' {
		return ')'
	}
	return ']'
}

// readList reads (... ) or [... ], including the dotted-tail form
// (elem ... . tail). A bare "." can only ever be read as an atom when it
// parses as neither a boolean nor a number, which is exactly the case this
// treats as the dotted-tail marker rather than a genuine symbol.
func (s *scanner) readList() (synx.Datum, error) {
	opener := s.cur
	want := closingFor(opener)
	s.advance()

	var elems []synx.Datum
	for {
		s.skipSpace()
		if s.cur == -1 {
			return nil, s.errf("unterminated form")
		}
		if s.cur == ')' || s.cur == ']' {
			if s.cur != want {
				got := s.cur
				s.advance()
				return nil, s.errf("mismatched brackets: opened with %q, closed with %q", opener, got)
			}
			s.advance()
			return synx.List(elems...), nil
		}

		form, err := s.readForm()
		if err != nil {
			return nil, err
		}
		if isDotToken(form) {
			if len(elems) == 0 {
				return nil, s.errf("dangling dot")
			}
			s.skipSpace()
			if s.cur == -1 {
				return nil, s.errf("unterminated form")
			}
			tail, err := s.readForm()
			if err != nil {
				return nil, err
			}
			s.skipSpace()
			if s.cur != want {
				if s.cur == ')' || s.cur == ']' {
					got := s.cur
					s.advance()
					return nil, s.errf("mismatched brackets: opened with %q, closed with %q", opener, got)
				}
				return nil, s.errf("dangling dot")
			}
			s.advance()
			return buildImproperList(elems, tail), nil
		}
		elems = append(elems, form)
	}
}

func isDotToken(d synx.Datum) bool {
	sym, ok := d.(synx.Sym)
	return ok && sym.Identity == 0 && sym.Name == "."
}

func buildImproperList(elems []synx.Datum, tail synx.Datum) synx.Datum {
	out := tail
	for i := len(elems) - 1; i >= 0; i-- {
		out = synx.NewPair(elems[i], out)
	}
	return out
}

// readQuote reads 'x as (quote x).
func (s *scanner) readQuote() (synx.Datum, error) {
	s.advance()
	inner, err := s.readForm()
	if err != nil {
		return nil, err
	}
	return synx.List(synx.Sym{Name: "quote"}, inner), nil
}

// readString reads a "..." literal with \\, \", \n and \t escapes.
func (s *scanner) readString() (synx.Datum, error) {
	s.advance()
	var b strings.Builder
	for {
		switch s.cur {
		case -1:
			return nil, s.errf("unterminated form")
		case '"':
			s.advance()
			return synx.String(b.String()), nil
		case '\\':
			s.advance()
			switch s.cur {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"', '\\':
				b.WriteRune(s.cur)
			case -1:
				return nil, s.errf("unterminated form")
			default:
				b.WriteRune(s.cur)
			}
			s.advance()
		default:
			b.WriteRune(s.cur)
			s.advance()
		}
	}
}

// readAtom reads the longest run of non-delimiter characters and classifies
// it: "#t"/"#f" are booleans, a leading "@" (with at least one further
// character) is a label literal, a token that parses as a decimal number
// (optional sign, optional fractional part) is a Number, and everything else
// — including a leading digit that fails to parse as a number — is a Symbol.
func (s *scanner) readAtom() (synx.Datum, error) {
	var b strings.Builder
	for !isDelimiter(s.cur) {
		b.WriteRune(s.cur)
		s.advance()
	}
	tok := b.String()

	switch tok {
	case "#t":
		return synx.BooleanTrue, nil
	case "#f":
		return synx.BooleanFalse, nil
	}
	if len(tok) > 1 && tok[0] == '@' {
		return synx.Label(tok[1:]), nil
	}
	if isNumberToken(tok) {
		f, _ := strconv.ParseFloat(tok, 64)
		return synx.Number(f), nil
	}
	return synx.Sym{Name: tok}, nil
}

func isNumberToken(tok string) bool {
	i := 0
	if i < len(tok) && (tok[i] == '+' || tok[i] == '-') {
		i++
	}
	sawDigit := false
	for i < len(tok) && isASCIIDigit(rune(tok[i])) {
		i++
		sawDigit = true
	}
	if i < len(tok) && tok[i] == '.' {
		i++
		for i < len(tok) && isASCIIDigit(rune(tok[i])) {
			i++
			sawDigit = true
		}
	}
	return sawDigit && i == len(tok)
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDelimiter(r rune) bool {
	switch r {
	case -1, ' ', '\t', '\n', '\r', '(', ')', '[', ']', '\'', '"', ';':
		return true
	default:
		return false
	}
}
