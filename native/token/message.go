package token

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// ClaimDomainV1 is the ASCII domain tag prefixing every signed claim message.
// It binds the signature to this protocol version so it cannot be replayed
// against a different protocol.
const ClaimDomainV1 = "MERCLE_CLAIM_V1"

// payloadEncodedSize is the canonical fixed-width size of a ClaimPayload:
// destination(32) | amount(u64 LE) | expiry(i64 LE) | nonce(u64 LE).
const payloadEncodedSize = solana.PublicKeyLength + 8 + 8 + 8

// ClaimContext carries the execution-context identities bound into the signed
// message alongside the payload. Binding the destination account closes the
// redirect attack: a signature over a claim cannot be redeemed into a
// different account than the one the signer authorised.
type ClaimContext struct {
	ProgramID          solana.PublicKey
	Authority          solana.PublicKey // program-derived mint authority
	Mint               solana.PublicKey
	Claimant           solana.PublicKey
	DestinationAccount solana.PublicKey
}

// EncodePayload returns the canonical serialization of the payload. Every
// field is fixed width with integers little-endian, so two encoders can never
// disagree on the bytes.
func EncodePayload(payload ClaimPayload) []byte {
	buf := make([]byte, 0, payloadEncodedSize)
	buf = append(buf, payload.Destination[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, payload.Amount)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(payload.Expiry))
	buf = binary.LittleEndian.AppendUint64(buf, payload.Nonce)
	return buf
}

// BuildClaimMessage produces the exact byte string an off-chain signer must
// sign to authorise the claim:
//
//	"MERCLE_CLAIM_V1" | program(32) | authority(32) | mint(32)
//	| claimant(32) | destination account(32) | payload(56)
//
// The claim handler rebuilds this message from its own view of the execution
// context, so a signature can only verify when every bound identity matches.
func BuildClaimMessage(ctx ClaimContext, payload ClaimPayload) ([]byte, error) {
	if ctx.ProgramID.IsZero() || ctx.Mint.IsZero() || ctx.Claimant.IsZero() || ctx.DestinationAccount.IsZero() {
		return nil, ErrInvalidClaimPayload
	}
	if payload.Destination.IsZero() {
		return nil, ErrInvalidClaimPayload
	}
	msg := make([]byte, 0, len(ClaimDomainV1)+5*solana.PublicKeyLength+payloadEncodedSize)
	msg = append(msg, ClaimDomainV1...)
	msg = append(msg, ctx.ProgramID[:]...)
	msg = append(msg, ctx.Authority[:]...)
	msg = append(msg, ctx.Mint[:]...)
	msg = append(msg, ctx.Claimant[:]...)
	msg = append(msg, ctx.DestinationAccount[:]...)
	msg = append(msg, EncodePayload(payload)...)
	return msg, nil
}
