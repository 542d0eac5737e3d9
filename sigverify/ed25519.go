package sigverify

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// verifiedRecord is a decoded single-signer precompile record. The message
// slice aliases the instruction data and must not be retained past matching.
type verifiedRecord struct {
	publicKey solana.PublicKey
	signature solana.Signature
	message   []byte
}

func readUint16(data []byte, offset int) (uint16, bool) {
	if offset < 0 || offset+2 > len(data) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(data[offset:]), true
}

// parseSingleRecord decodes a single-signer Ed25519 precompile record. Every
// offset and size field is attacker-controlled, so each slice is bounds
// checked before dereferencing. Returns false for anything malformed; the
// caller treats such records as non-matches rather than errors so garbage
// precompile calls cannot abort verification.
func parseSingleRecord(data []byte) (verifiedRecord, bool) {
	if len(data) < headerSize {
		return verifiedRecord{}, false
	}
	if data[0] != 1 {
		// Multi-signature records are not produced by the standard client
		// builders and are skipped rather than partially decoded.
		return verifiedRecord{}, false
	}
	sigOff, ok := readUint16(data, 2)
	if !ok {
		return verifiedRecord{}, false
	}
	pkOff, ok := readUint16(data, 6)
	if !ok {
		return verifiedRecord{}, false
	}
	msgOff, ok := readUint16(data, 10)
	if !ok {
		return verifiedRecord{}, false
	}
	msgSize, ok := readUint16(data, 12)
	if !ok {
		return verifiedRecord{}, false
	}

	pkEnd := int(pkOff) + solana.PublicKeyLength
	sigEnd := int(sigOff) + solana.SignatureLength
	msgEnd := int(msgOff) + int(msgSize)
	if pkEnd > len(data) || sigEnd > len(data) || msgEnd > len(data) {
		return verifiedRecord{}, false
	}

	var rec verifiedRecord
	copy(rec.publicKey[:], data[pkOff:pkEnd])
	copy(rec.signature[:], data[sigOff:sigEnd])
	rec.message = data[msgOff:msgEnd]
	return rec, true
}
