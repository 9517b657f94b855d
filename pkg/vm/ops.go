package vm

// Instructions are 32 bits: an 8-bit opcode followed by a 24-bit argument.
const (
	OP_HALT    uint8 = 0x00
	OP_NOOP    uint8 = 0x01
	OP_PUSH_C  uint8 = 0x02 // push Constants[arg]
	OP_LOAD_G  uint8 = 0x03 // push global Names[arg]
	OP_STORE_G uint8 = 0x04 // pop into global Names[arg]
	OP_ADD     uint8 = 0x10
	OP_SUB     uint8 = 0x11
	OP_MUL     uint8 = 0x12
	OP_DIV     uint8 = 0x13
	OP_MOD     uint8 = 0x14
	OP_PRINT   uint8 = 0x15
	OP_DROP    uint8 = 0x16
)

// MaxArg is the largest argument an instruction can carry.
const MaxArg = 0x00FFFFFF

// Encode packs an opcode and its argument.
func Encode(op uint8, arg uint32) uint32 {
	return (uint32(op) << 24) | (arg & MaxArg)
}

// Decode splits an instruction into opcode and argument.
func Decode(instr uint32) (uint8, uint32) {
	return uint8(instr >> 24), instr & MaxArg
}
