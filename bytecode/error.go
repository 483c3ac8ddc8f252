package bytecode

import "fmt"

// EncodingError indicates a character operand or packed field did not fit
// the bit width the binary encoding reserves for it.
type EncodingError struct {
	Context string
	Value   int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("bytecode: encoding error in %s: value %d out of range", e.Context, e.Value)
}

// TextError indicates malformed assembly text.
type TextError struct {
	Line int
	Msg  string
}

func (e *TextError) Error() string {
	return fmt.Sprintf("bytecode: line %d: %s", e.Line, e.Msg)
}
