package bytecode

import (
	"encoding/binary"
	"strconv"

	"github.com/hexvm/rex/internal/conv"
)

// opcode3 values, MSB-first in bits [31:29] of the packed word.
const (
	opcodeJump       = 0b000
	opcodeSplit      = 0b001
	opcodeCompare    = 0b010
	opcodeOptCompare = 0b011
	opcodeSave       = 0b100
	opcodeMatch      = 0b111
)

const (
	opcodeShift   = 29
	invertedShift = 28
	saveShift     = 16
	destShift     = 16
	dest2Shift    = 2
	loShift       = 8
	hiShift       = 0
)

// MaxPC is the largest program counter the 13-bit Save/Jump/Split dest1
// fields (and, by the shared limit, Split's dest2) can address.
const MaxPC = 1<<13 - 1

// MaxInstructions is the largest program the binary encoding can hold.
const MaxInstructions = MaxPC + 1

// Encode packs the instruction into its 32-bit binary form (§4.2, §6.3).
func (in Instruction) Encode() (uint32, error) {
	switch in.Op {
	case OpMatch:
		return opcodeMatch << opcodeShift, nil

	case OpSave:
		idx, err := conv.IntToBits(in.Index, MaxPC, "Save index")
		if err != nil {
			return 0, &EncodingError{Context: "Save index", Value: in.Index}
		}
		return opcodeSave<<opcodeShift | idx<<saveShift, nil

	case OpJump:
		dest, err := conv.IntToBits(in.Dest, MaxPC, "Jump dest")
		if err != nil {
			return 0, &EncodingError{Context: "Jump dest", Value: in.Dest}
		}
		return opcodeJump<<opcodeShift | dest<<destShift, nil

	case OpSplit:
		d1, err := conv.IntToBits(in.Dest, MaxPC, "Split dest1")
		if err != nil {
			return 0, &EncodingError{Context: "Split dest1", Value: in.Dest}
		}
		// dest2 has 14 bits of physical headroom but must respect the
		// same program-size limit as every other pc field.
		d2, err := conv.IntToBits(in.Dest2, MaxPC, "Split dest2")
		if err != nil {
			return 0, &EncodingError{Context: "Split dest2", Value: in.Dest2}
		}
		return opcodeSplit<<opcodeShift | d1<<destShift | d2<<dest2Shift, nil

	case OpCompare, OpInvCompare:
		var inverted uint32
		if in.Op == OpInvCompare {
			inverted = 1
		}
		return opcodeCompare<<opcodeShift | inverted<<invertedShift |
			uint32(in.Lo)<<loShift | uint32(in.Hi)<<hiShift, nil

	case OpOptCompare:
		dest, err := conv.IntToBits(in.Dest, MaxPC, "OptCompare dest")
		if err != nil {
			return 0, &EncodingError{Context: "OptCompare dest", Value: in.Dest}
		}
		return opcodeOptCompare<<opcodeShift | dest<<destShift |
			uint32(in.Lo)<<loShift | uint32(in.Hi)<<hiShift, nil

	default:
		return 0, &EncodingError{Context: "unknown opcode", Value: int(in.Op)}
	}
}

// Decode unpacks a 32-bit binary word into an Instruction.
func Decode(word uint32) (Instruction, error) {
	op := word >> opcodeShift
	switch op {
	case opcodeMatch:
		return Match(), nil
	case opcodeSave:
		idx := (word >> saveShift) & MaxPC
		return Save(int(idx)), nil
	case opcodeJump:
		dest := (word >> destShift) & MaxPC
		return Jump(int(dest)), nil
	case opcodeSplit:
		d1 := (word >> destShift) & MaxPC
		d2 := (word >> dest2Shift) & 0x3FFF
		return Split(int(d1), int(d2)), nil
	case opcodeCompare:
		inverted := (word >> invertedShift) & 1
		lo := byte(word >> loShift)
		hi := byte(word >> hiShift)
		if inverted == 1 {
			return InvCompare(lo, hi), nil
		}
		return Compare(lo, hi), nil
	case opcodeOptCompare:
		dest := (word >> destShift) & MaxPC
		lo := byte(word >> loShift)
		hi := byte(word >> hiShift)
		return OptCompare(lo, hi, int(dest)), nil
	default:
		return Instruction{}, &EncodingError{Context: "unassigned opcode", Value: int(op)}
	}
}

// Bytes encodes the program as little-endian 32-bit words, one per
// instruction, with no header and no footer (§6.3).
func (p Program) Bytes() ([]byte, error) {
	out := make([]byte, 0, len(p)*4)
	var buf [4]byte
	for i, in := range p {
		word, err := in.Encode()
		if err != nil {
			return nil, &EncodingError{Context: "instruction at index " + strconv.Itoa(i), Value: int(in.Op)}
		}
		binary.LittleEndian.PutUint32(buf[:], word)
		out = append(out, buf[:]...)
	}
	return out, nil
}

// DecodeProgram is the inverse of Program.Bytes.
func DecodeProgram(b []byte) (Program, error) {
	if len(b)%4 != 0 {
		return nil, &EncodingError{Context: "binary program length", Value: len(b)}
	}
	prog := make(Program, 0, len(b)/4)
	for i := 0; i < len(b); i += 4 {
		word := binary.LittleEndian.Uint32(b[i : i+4])
		in, err := Decode(word)
		if err != nil {
			return nil, err
		}
		prog = append(prog, in)
	}
	return prog, nil
}
