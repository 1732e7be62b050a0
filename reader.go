package secd

import (
	"errors"
	"io"
	"strconv"
	"unicode"

	"github.com/tinylisp/secd/internal/fileinput"
)

// Reader parses s-expressions out of one or more input streams in
// sequence. Grounded in the teacher's fileinput.Input, which queues
// multiple io.Reader sources behind one rune-reading interface and tracks
// line position for diagnostics; a source file and additional snippets on
// a CLI both become entries in the same Queue.
//
// fileinput.Input has no UnreadRune, so one rune of lookahead is buffered
// here instead: every caller goes through next/unread rather than touching
// in.ReadRune directly.
type Reader struct {
	in      fileinput.Input
	pending *rune
}

// NewReader returns a Reader that will parse forms from r.
func NewReader(r io.Reader) *Reader {
	rd := &Reader{}
	rd.in.Queue = []io.Reader{r}
	return rd
}

// AddSource queues an additional input to be read after the current one is
// exhausted.
func (rd *Reader) AddSource(r io.Reader) {
	rd.in.Queue = append(rd.in.Queue, r)
}

func (rd *Reader) next() (rune, error) {
	if rd.pending != nil {
		r := *rd.pending
		rd.pending = nil
		return r, nil
	}
	r, _, err := rd.in.ReadRune()
	if err == nil && r == 0 {
		// fileinput.Input yields a NUL rune with a nil error when it moves
		// on to the next queued source; that boundary reads as whitespace,
		// so no token runs across two sources.
		r = ' '
	}
	return r, err
}

func (rd *Reader) unread(r rune) {
	rd.pending = &r
}

// errUnexpectedCloseParen marks a stray ')' found outside of any list.
var errUnexpectedCloseParen = errors.New("reader: unexpected )")

// Read parses and returns the next top-level form. It returns io.EOF once
// every queued source is exhausted with no form left to read.
func (rt *Runtime) Read(rd *Reader) (Value, error) {
	r, err := rd.skipSpace()
	if err != nil {
		return Value{}, err
	}
	return rt.readForm(rd, r)
}

func (rd *Reader) skipSpace() (rune, error) {
	for {
		r, err := rd.next()
		if err != nil {
			return 0, err
		}
		if r == ';' {
			for {
				r, err := rd.next()
				if err != nil {
					return 0, err
				}
				if r == '\n' {
					break
				}
			}
			continue
		}
		if !unicode.IsSpace(r) {
			return r, nil
		}
	}
}

func (rt *Runtime) readForm(rd *Reader, r rune) (Value, error) {
	switch r {
	case '(':
		return rt.readList(rd)
	case ')':
		return Value{}, errUnexpectedCloseParen
	case '\'':
		inner, err := rd.skipSpace()
		if err != nil {
			return Value{}, err
		}
		quoted, err := rt.readForm(rd, inner)
		if err != nil {
			return Value{}, err
		}
		q := rt.Symbol("quote")
		nilV := rt.Nil()
		tail := rt.Cons(quoted, nilV)
		result := rt.Cons(q, tail)
		q.Close()
		nilV.Close()
		tail.Close()
		quoted.Close()
		return result, nil
	default:
		return rt.readAtom(rd, r)
	}
}

// readList parses the contents of a list after its opening '(' has already
// been consumed, including the dotted-pair form "(a . b)".
func (rt *Runtime) readList(rd *Reader) (Value, error) {
	r, err := rd.skipSpace()
	if err != nil {
		return Value{}, err
	}
	if r == ')' {
		return rt.Nil(), nil
	}
	if r == '.' {
		if after, aerr := rd.next(); aerr == nil && isDelimiter(after) {
			if !unicode.IsSpace(after) {
				rd.unread(after)
			}
			nr, serr := rd.skipSpace()
			if serr != nil {
				return Value{}, serr
			}
			tail, terr := rt.readForm(rd, nr)
			if terr != nil {
				return Value{}, terr
			}
			closeR, cerr := rd.skipSpace()
			if cerr != nil {
				tail.Close()
				return Value{}, cerr
			}
			if closeR != ')' {
				tail.Close()
				return Value{}, errors.New("reader: malformed dotted list")
			}
			return tail, nil
		} else if aerr == nil {
			rd.unread(after)
		}
	}
	head, err := rt.readForm(rd, r)
	if err != nil {
		return Value{}, err
	}
	rest, err := rt.readList(rd)
	if err != nil {
		head.Close()
		return Value{}, err
	}
	result := rt.Cons(head, rest)
	head.Close()
	rest.Close()
	return result, nil
}

func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || r == '(' || r == ')' || r == ';' || r == '\''
}

func (rt *Runtime) readAtom(rd *Reader, first rune) (Value, error) {
	runes := []rune{first}
	for {
		r, err := rd.next()
		if err != nil {
			break
		}
		if isDelimiter(r) {
			rd.unread(r)
			break
		}
		runes = append(runes, r)
	}
	token := string(runes)
	if n, err := strconv.ParseInt(token, 10, 64); err == nil {
		return rt.Integer(n), nil
	}
	return rt.Symbol(token), nil
}
