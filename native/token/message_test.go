package token

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
)

func testContext(t *testing.T) ClaimContext {
	t.Helper()
	return ClaimContext{
		ProgramID:          randomKey(t),
		Authority:          randomKey(t),
		Mint:               randomKey(t),
		Claimant:           randomKey(t),
		DestinationAccount: randomKey(t),
	}
}

func TestEncodePayloadLayout(t *testing.T) {
	payload := ClaimPayload{
		Destination: randomKey(t),
		Amount:      0x0102030405060708,
		Expiry:      0x1112131415161718,
		Nonce:       0x2122232425262728,
	}
	encoded := EncodePayload(payload)
	if len(encoded) != payloadEncodedSize {
		t.Fatalf("len = %d, want %d", len(encoded), payloadEncodedSize)
	}
	if !bytes.Equal(encoded[:32], payload.Destination[:]) {
		t.Fatal("destination bytes mismatch")
	}
	if got := binary.LittleEndian.Uint64(encoded[32:]); got != payload.Amount {
		t.Fatalf("amount = %#x", got)
	}
	if got := int64(binary.LittleEndian.Uint64(encoded[40:])); got != payload.Expiry {
		t.Fatalf("expiry = %#x", got)
	}
	if got := binary.LittleEndian.Uint64(encoded[48:]); got != payload.Nonce {
		t.Fatalf("nonce = %#x", got)
	}
}

func TestBuildClaimMessageDeterministic(t *testing.T) {
	ctx := testContext(t)
	payload := ClaimPayload{Destination: ctx.DestinationAccount, Amount: 42, Expiry: 100, Nonce: 7}

	first, err := BuildClaimMessage(ctx, payload)
	if err != nil {
		t.Fatalf("BuildClaimMessage: %v", err)
	}
	second, err := BuildClaimMessage(ctx, payload)
	if err != nil {
		t.Fatalf("BuildClaimMessage: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("message not deterministic")
	}
	wantLen := len(ClaimDomainV1) + 5*solana.PublicKeyLength + payloadEncodedSize
	if len(first) != wantLen {
		t.Fatalf("len = %d, want %d", len(first), wantLen)
	}
	if !bytes.HasPrefix(first, []byte(ClaimDomainV1)) {
		t.Fatal("missing domain tag prefix")
	}
}

func TestBuildClaimMessageBindsEveryField(t *testing.T) {
	ctx := testContext(t)
	payload := ClaimPayload{Destination: ctx.DestinationAccount, Amount: 42, Expiry: 100, Nonce: 7}
	base, err := BuildClaimMessage(ctx, payload)
	if err != nil {
		t.Fatalf("BuildClaimMessage: %v", err)
	}

	variants := []struct {
		name    string
		ctx     ClaimContext
		payload ClaimPayload
	}{
		{"program", func() ClaimContext { c := ctx; c.ProgramID = randomKey(t); return c }(), payload},
		{"authority", func() ClaimContext { c := ctx; c.Authority = randomKey(t); return c }(), payload},
		{"mint", func() ClaimContext { c := ctx; c.Mint = randomKey(t); return c }(), payload},
		{"claimant", func() ClaimContext { c := ctx; c.Claimant = randomKey(t); return c }(), payload},
		{"destination account", func() ClaimContext { c := ctx; c.DestinationAccount = randomKey(t); return c }(), payload},
		{"payload destination", ctx, func() ClaimPayload { p := payload; p.Destination = randomKey(t); return p }()},
		{"amount", ctx, func() ClaimPayload { p := payload; p.Amount++; return p }()},
		{"expiry", ctx, func() ClaimPayload { p := payload; p.Expiry++; return p }()},
		{"nonce", ctx, func() ClaimPayload { p := payload; p.Nonce++; return p }()},
	}
	for _, v := range variants {
		got, err := BuildClaimMessage(v.ctx, v.payload)
		if err != nil {
			t.Fatalf("%s: %v", v.name, err)
		}
		if bytes.Equal(got, base) {
			t.Fatalf("changing %s did not change the message", v.name)
		}
	}
}

func TestBuildClaimMessageRejectsZeroIdentities(t *testing.T) {
	ctx := testContext(t)
	payload := ClaimPayload{Destination: ctx.DestinationAccount, Amount: 1, Expiry: 1, Nonce: 0}

	cases := []ClaimContext{
		func() ClaimContext { c := ctx; c.ProgramID = solana.PublicKey{}; return c }(),
		func() ClaimContext { c := ctx; c.Mint = solana.PublicKey{}; return c }(),
		func() ClaimContext { c := ctx; c.Claimant = solana.PublicKey{}; return c }(),
		func() ClaimContext { c := ctx; c.DestinationAccount = solana.PublicKey{}; return c }(),
	}
	for i, c := range cases {
		if _, err := BuildClaimMessage(c, payload); !errors.Is(err, ErrInvalidClaimPayload) {
			t.Fatalf("case %d: expected ErrInvalidClaimPayload, got %v", i, err)
		}
	}
	if _, err := BuildClaimMessage(ctx, ClaimPayload{Amount: 1}); !errors.Is(err, ErrInvalidClaimPayload) {
		t.Fatalf("zero payload destination: expected ErrInvalidClaimPayload, got %v", err)
	}
}
