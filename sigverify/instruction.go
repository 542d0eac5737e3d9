package sigverify

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
)

// Ed25519ProgramID identifies the signature-verification precompile. Any
// instruction addressed to it that executed means the host ledger already
// checked the signature cryptographically; the verifier only has to confirm
// the record binds the expected key, signature and message together.
var Ed25519ProgramID = solana.MustPublicKeyFromBase58("Ed25519SigVerify111111111111111111111111111")

var (
	// ErrInvalidEd25519Instruction indicates a verify instruction could not be
	// constructed because the message exceeds the precompile's size limits.
	ErrInvalidEd25519Instruction = errors.New("sigverify: invalid ed25519 instruction format")
	// ErrInstructionOutOfRange indicates an introspection lookup past the end
	// of the transaction.
	ErrInstructionOutOfRange = errors.New("sigverify: instruction index out of range")
)

// Instruction is the read-only view of a co-instruction in the enclosing
// transaction, as exposed by the host's introspection service.
type Instruction struct {
	ProgramID solana.PublicKey
	Data      []byte
}

// Introspector enumerates the instructions of the transaction currently being
// processed. It covers only instructions in the same transaction and is
// read-only.
type Introspector interface {
	// CurrentIndex returns the index of the instruction being executed.
	CurrentIndex() int
	// InstructionAt returns the instruction at the given index.
	InstructionAt(index int) (Instruction, error)
}

// TransactionIntrospector is a slice-backed Introspector used by hosts that
// materialise the whole transaction up front, and by tests.
type TransactionIntrospector struct {
	instructions []Instruction
	current      int
}

// NewTransactionIntrospector builds an introspector positioned at the given
// instruction index.
func NewTransactionIntrospector(instructions []Instruction, current int) *TransactionIntrospector {
	return &TransactionIntrospector{instructions: instructions, current: current}
}

// CurrentIndex returns the index of the executing instruction.
func (t *TransactionIntrospector) CurrentIndex() int {
	if t == nil {
		return 0
	}
	return t.current
}

// InstructionAt returns the instruction at index.
func (t *TransactionIntrospector) InstructionAt(index int) (Instruction, error) {
	if t == nil || index < 0 || index >= len(t.instructions) {
		return Instruction{}, fmt.Errorf("%w: %d", ErrInstructionOutOfRange, index)
	}
	return t.instructions[index], nil
}

// The single-signer record layout produced by the precompile's standard
// client builders (web3.js Ed25519Program.createInstructionWithPublicKey):
//
//	offset 0:  u8  numSignatures
//	offset 1:  u8  padding
//	offset 2:  u16 signatureOffset            (LE)
//	offset 4:  u16 signatureInstructionIndex
//	offset 6:  u16 publicKeyOffset            (LE)
//	offset 8:  u16 publicKeyInstructionIndex
//	offset 10: u16 messageDataOffset          (LE)
//	offset 12: u16 messageDataSize            (LE)
//	offset 14: u16 messageInstructionIndex
//	offset 16: publicKey(32) | signature(64) | message(messageDataSize)
const (
	headerSize      = 16
	publicKeyOffset = headerSize
	signatureOffset = publicKeyOffset + solana.PublicKeyLength
	messageOffset   = signatureOffset + solana.SignatureLength

	// currentInstruction is the sentinel instruction index meaning "this
	// verify instruction's own data blob".
	currentInstruction = math.MaxUint16
)

// NewVerifyInstruction builds the Ed25519 precompile instruction that proves
// signature over message by pub. Off-chain signers include it immediately
// before the claim instruction.
func NewVerifyInstruction(pub solana.PublicKey, sig solana.Signature, message []byte) (Instruction, error) {
	if len(message) > math.MaxUint16 {
		return Instruction{}, fmt.Errorf("%w: message of %d bytes", ErrInvalidEd25519Instruction, len(message))
	}
	data := make([]byte, messageOffset+len(message))
	data[0] = 1 // numSignatures
	binary.LittleEndian.PutUint16(data[2:], signatureOffset)
	binary.LittleEndian.PutUint16(data[4:], currentInstruction)
	binary.LittleEndian.PutUint16(data[6:], publicKeyOffset)
	binary.LittleEndian.PutUint16(data[8:], currentInstruction)
	binary.LittleEndian.PutUint16(data[10:], messageOffset)
	binary.LittleEndian.PutUint16(data[12:], uint16(len(message)))
	binary.LittleEndian.PutUint16(data[14:], currentInstruction)
	copy(data[publicKeyOffset:], pub[:])
	copy(data[signatureOffset:], sig[:])
	copy(data[messageOffset:], message)
	return Instruction{ProgramID: Ed25519ProgramID, Data: data}, nil
}
