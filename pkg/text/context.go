package text

import "fmt"

// Offset locates a point in the input. Index counts code points from 0;
// Row and Column start at 1.
type Offset struct {
	Index  int `json:"index"`
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Start is the offset of the first code point of an input.
var Start = Offset{Index: 0, Row: 1, Column: 1}

// String formats the offset as row:column.
func (o Offset) String() string {
	return fmt.Sprintf("%d:%d", o.Row, o.Column)
}

// Context is the state text parsers thread through a parse. It is a value:
// advancing returns a new Context and never changes the receiver.
type Context struct {
	offset Offset
}

// NewContext returns a context positioned at the start of the input.
func NewContext() Context {
	return Context{offset: Start}
}

// At returns a context positioned at offset, for resuming a parse midway.
func At(offset Offset) Context {
	return Context{offset: offset}
}

// Offset returns the current position.
func (c Context) Offset() Offset {
	return c.offset
}

// Advance moves the context by delta. When delta crosses a line break, the
// column restarts at 1 plus the length of the trailing segment.
func (c Context) Advance(delta Offset) Context {
	next := Offset{
		Index: c.offset.Index + delta.Index,
		Row:   c.offset.Row + delta.Row,
	}
	if delta.Row > 0 {
		next.Column = 1 + delta.Column
	} else {
		next.Column = c.offset.Column + delta.Column
	}
	return Context{offset: next}
}

// AdvanceOver moves the context past span.
func (c Context) AdvanceOver(span []rune) Context {
	return c.Advance(spanOffset(span))
}

// spanOffset measures span: its length, the line breaks it contains and
// the length of the segment after the last one.
func spanOffset(span []rune) Offset {
	delta := Offset{Index: len(span)}
	for _, r := range span {
		if r == '\n' {
			delta.Row++
			delta.Column = 0
			continue
		}
		delta.Column++
	}
	return delta
}
