package lc

import (
	"bufio"
	"io"
	"strings"
)

// maxTokenLen bounds how long a single symbol, string or integer
// token may run before the reader gives up with a fatal "too long"
// diagnostic — the §4.3 error table lists "integer too long" and
// "symbol too long" as distinct cases from a generic overflow, which
// only makes sense if token length is checked independently of the
// value's own range. 4096 is generous for any source a human would
// type at a REPL or keep in lib.lisp.
const maxTokenLen = 4096

// Reader is a recursive-descent parser over a byte stream, consuming
// it with the one-character-lookahead model §5 specifies: at most one
// byte is ever pushed back, held in peeked rather than relying on
// bufio's own multi-byte UnreadByte/UnreadRune machinery. Structured
// like the teacher's BaseParser (private cursor/line/column state, a
// rune-at-a-time Peek/Any pair) but trading the teacher's PEG
// backtracking (ffp, predicate stacks, memoization table) for the
// much smaller grammar §4.3 describes: one token of lookahead is
// always enough because every production is recognized by its first
// character.
type Reader struct {
	src    *bufio.Reader
	heap   *Heap
	symtab *SymbolTable

	peeked    bool
	peekByte  byte
	peekErr   error
	line, col int
}

// NewReader creates a Reader consuming r, allocating Values on heap
// and interning symbols through symtab.
func NewReader(r io.Reader, heap *Heap, symtab *SymbolTable) *Reader {
	return &Reader{src: bufio.NewReader(r), heap: heap, symtab: symtab, line: 1, col: 1}
}

func (rd *Reader) pos() Position {
	return Position{Line: rd.line, Column: rd.col, Valid: true}
}

// peek returns the next byte without consuming it.
func (rd *Reader) peek() (byte, error) {
	if !rd.peeked {
		rd.peekByte, rd.peekErr = rd.src.ReadByte()
		rd.peeked = true
	}
	return rd.peekByte, rd.peekErr
}

// advance consumes and returns the next byte, updating line/column.
func (rd *Reader) advance() (byte, error) {
	b, err := rd.peek()
	rd.peeked = false
	if err != nil {
		return 0, err
	}
	if b == '\n' {
		rd.line++
		rd.col = 1
	} else {
		rd.col++
	}
	return b, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

// isDelimiter reports whether b can never be part of a symbol or
// number token (the "non-delimiter run" boundary in the §4.3 table).
func isDelimiter(b byte) bool {
	return isSpace(b) || b == '(' || b == ')' || b == '.'
}

func (rd *Reader) skipWhitespaceAndComments() error {
	for {
		b, err := rd.peek()
		if err != nil {
			return err
		}
		if isSpace(b) {
			rd.advance()
			continue
		}
		if b == ';' {
			for {
				c, err := rd.peek()
				if err != nil || c == '\n' {
					break
				}
				rd.advance()
			}
			continue
		}
		return nil
	}
}

// Read consumes and returns the next top-level Value, or io.EOF once
// the stream is exhausted with nothing but whitespace/comments left.
func (rd *Reader) Read() (*Value, error) {
	if err := rd.skipWhitespaceAndComments(); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, wrapFatal(KindLex, err, "read failed")
	}
	return rd.readForm()
}

func (rd *Reader) readForm() (*Value, error) {
	pos := rd.pos()
	b, err := rd.peek()
	if err != nil {
		return nil, wrapFatal(KindLex, err, "unexpected end of input")
	}
	switch {
	case b == '(':
		rd.advance()
		return rd.readList(pos)
	case b == ')':
		return nil, newFatalAt(KindLex, pos, "unexpected `)`")
	case b == '\'':
		rd.advance()
		return rd.readWrapped(pos, "quote")
	case b == '`':
		rd.advance()
		return rd.readWrapped(pos, "quasiquote")
	case b == ',':
		rd.advance()
		return rd.readUnquote(pos)
	case b == '"':
		rd.advance()
		return rd.readString(pos)
	case b == '.':
		return nil, newFatalAt(KindLex, pos, "dot outside list position")
	case b == '-':
		return rd.readMinusLed(pos)
	case isDigit(b):
		return rd.readInteger(pos, false)
	default:
		return rd.readSymbol(pos)
	}
}

// readWrapped implements the 'E, `E reader macros: (quote E)/(quasiquote E).
func (rd *Reader) readWrapped(pos Position, head string) (*Value, error) {
	if err := rd.skipWhitespaceAndComments(); err != nil {
		return nil, wrapFatal(KindLex, err, "expected form after reader macro")
	}
	inner, err := rd.readForm()
	if err != nil {
		return nil, err
	}
	return rd.cons(rd.symtab.Intern(head), rd.cons(inner, NilValue)), nil
}

// readUnquote implements ,E and ,@E.
func (rd *Reader) readUnquote(pos Position) (*Value, error) {
	head := "unquote"
	if b, err := rd.peek(); err == nil && b == '@' {
		rd.advance()
		head = "unquote-splicing"
	}
	return rd.readWrapped(pos, head)
}

// readMinusLed disambiguates a leading '-' between a negative integer
// and a symbol that merely starts with '-' (e.g. `-foo`, or the bare
// symbol `-`), per the §4.3 table: "optional - then digits" is an
// Integer, any other run is a Symbol.
func (rd *Reader) readMinusLed(pos Position) (*Value, error) {
	rd.advance() // consume '-'
	b, err := rd.peek()
	if err == nil && isDigit(b) {
		return rd.readInteger(pos, true)
	}
	return rd.readSymbolTail(pos, "-")
}

func (rd *Reader) readInteger(pos Position, negative bool) (*Value, error) {
	var sb strings.Builder
	if negative {
		sb.WriteByte('-')
	}
	for {
		b, err := rd.peek()
		if err != nil || isDelimiter(b) {
			break
		}
		if !isDigit(b) {
			return nil, newFatalAt(KindLex, rd.pos(), "unexpected character %q in integer literal", b)
		}
		sb.WriteByte(b)
		rd.advance()
		if sb.Len() > maxTokenLen {
			return nil, newFatalAt(KindLex, pos, "integer literal too long")
		}
	}
	text := sb.String()
	n, err := parseInt64(text)
	if err != nil {
		return nil, newFatalAt(KindLex, pos, "integer overflow in %q", text)
	}
	v := rd.heap.Alloc(TagInteger)
	v.Int = n
	return v, nil
}

// parseInt64 is a small hand-rolled decimal parser (rather than
// strconv.ParseInt) so overflow is reported the same way regardless
// of host int size, matching the spec's "signed 64-bit; overflow
// fails" wording precisely.
func parseInt64(s string) (int64, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var n int64
	for _, c := range []byte(s) {
		d := int64(c - '0')
		if n > (1<<63-1-d)/10 {
			return 0, newFatal(KindLex, "overflow")
		}
		n = n*10 + d
	}
	if neg {
		n = -n
	}
	return n, nil
}

func isSymbolLead(b byte) bool {
	return !isSpace(b) && b != '(' && b != ')' && b != '.' && !isDigit(b)
}

func isSymbolCont(b byte) bool {
	return !isSpace(b) && b != '(' && b != ')' && b != '.'
}

func (rd *Reader) readSymbol(pos Position) (*Value, error) {
	b, err := rd.peek()
	if err != nil {
		return nil, wrapFatal(KindLex, err, "unexpected end of input")
	}
	if !isSymbolLead(b) {
		return nil, newFatalAt(KindLex, pos, "unexpected character %q", b)
	}
	rd.advance()
	return rd.readSymbolTail(pos, string(b))
}

// readSymbolTail finishes a symbol token whose first character(s)
// (prefix) have already been consumed — used both for ordinary
// symbols and for the `-foo` case where readMinusLed already ate the
// leading '-'.
func (rd *Reader) readSymbolTail(pos Position, prefix string) (*Value, error) {
	var sb strings.Builder
	sb.WriteString(prefix)
	for {
		b, err := rd.peek()
		if err != nil || !isSymbolCont(b) {
			break
		}
		sb.WriteByte(b)
		rd.advance()
		if sb.Len() > maxTokenLen {
			return nil, newFatalAt(KindLex, pos, "symbol too long")
		}
	}
	name := sb.String()
	if name == "nil" {
		return NilValue, nil
	}
	return rd.symtab.Intern(name), nil
}

func (rd *Reader) readString(pos Position) (*Value, error) {
	var sb strings.Builder
	for {
		b, err := rd.advance()
		if err != nil {
			return nil, newFatalAt(KindLex, pos, "unterminated string")
		}
		if b == '"' {
			break
		}
		if b == '\\' {
			esc, err := rd.advance()
			if err != nil {
				return nil, newFatalAt(KindLex, pos, "unterminated string")
			}
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				return nil, newFatalAt(KindLex, rd.pos(), "unknown escape `\\%c`", esc)
			}
			continue
		}
		sb.WriteByte(b)
		if sb.Len() > maxTokenLen {
			return nil, newFatalAt(KindLex, pos, "string literal too long")
		}
	}
	v := rd.heap.Alloc(TagString)
	v.Str = sb.String()
	return v, nil
}

// readList parses the body of `(` ... `)`, including the dotted-pair
// form `(` ... `.` X `)`. The opening `(` has already been consumed.
// Elements are collected into a slice first and consed onto the final
// cdr from the last element back to the first — "built right-to-left
// by cons" per §4.3 — which is what gives the resulting chain its
// correct left-to-right reading order.
func (rd *Reader) readList(openPos Position) (*Value, error) {
	var elems []*Value
	finalCdr := NilValue

	for {
		if err := rd.skipWhitespaceAndComments(); err != nil {
			return nil, newFatalAt(KindLex, openPos, "unexpected end of input inside list")
		}
		b, _ := rd.peek()
		if b == ')' {
			rd.advance()
			break
		}
		if b == '.' {
			// Only a dotted-pair terminator if '.' is itself a
			// standalone token (followed by a delimiter); otherwise
			// it's the lead byte of... nothing in this grammar can
			// start with '.', so a bare '.' here is always the dot.
			rd.advance()
			nb, nerr := rd.peek()
			if nerr == nil && !isDelimiter(nb) {
				return nil, newFatalAt(KindLex, rd.pos(), "dot outside list position")
			}
			if err := rd.skipWhitespaceAndComments(); err != nil {
				return nil, newFatalAt(KindLex, openPos, "unexpected end of input after `.`")
			}
			tail, err := rd.readForm()
			if err != nil {
				return nil, err
			}
			finalCdr = tail
			if err := rd.skipWhitespaceAndComments(); err != nil {
				return nil, newFatalAt(KindLex, openPos, "`)` expected but missing")
			}
			cb, _ := rd.peek()
			if cb != ')' {
				return nil, newFatalAt(KindLex, rd.pos(), "`)` expected but missing")
			}
			rd.advance()
			break
		}
		elem, err := rd.readForm()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}

	result := finalCdr
	for i := len(elems) - 1; i >= 0; i-- {
		result = rd.cons(elems[i], result)
	}
	return result, nil
}

func (rd *Reader) cons(car, cdr *Value) *Value {
	p := rd.heap.Alloc(TagPair)
	p.Car = car
	p.Cdr = cdr
	return p
}
