package sigverify

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
)

type signer struct {
	priv solana.PrivateKey
	pub  solana.PublicKey
}

func newSigner(t *testing.T) signer {
	t.Helper()
	priv, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return signer{priv: priv, pub: priv.PublicKey()}
}

func (s signer) sign(t *testing.T, message []byte) solana.Signature {
	t.Helper()
	sig, err := s.priv.Sign(message)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return sig
}

func verifyIx(t *testing.T, s signer, sig solana.Signature, message []byte) Instruction {
	t.Helper()
	ix, err := NewVerifyInstruction(s.pub, sig, message)
	if err != nil {
		t.Fatalf("build verify instruction: %v", err)
	}
	return ix
}

// claimIx stands in for the program instruction being executed.
func claimIx() Instruction {
	return Instruction{ProgramID: solana.PublicKey{0xAA}, Data: []byte{0x01}}
}

func TestVerifyPairsAdminOnly(t *testing.T) {
	admin := newSigner(t)
	message := []byte("claim message payload")
	sig := admin.sign(t, message)

	intro := NewTransactionIntrospector([]Instruction{
		verifyIx(t, admin, sig, message),
		claimIx(),
	}, 1)

	err := VerifyPairs(intro, message, ExpectedSigner{Role: RoleAdmin, PublicKey: admin.pub, Signature: sig})
	if err != nil {
		t.Fatalf("VerifyPairs: %v", err)
	}
}

func TestVerifyPairsBothRoles(t *testing.T) {
	admin := newSigner(t)
	user := newSigner(t)
	message := []byte("claim message payload")
	adminSig := admin.sign(t, message)
	userSig := user.sign(t, message)

	intro := NewTransactionIntrospector([]Instruction{
		verifyIx(t, user, userSig, message),
		verifyIx(t, admin, adminSig, message),
		claimIx(),
	}, 2)

	err := VerifyPairs(intro, message,
		ExpectedSigner{Role: RoleAdmin, PublicKey: admin.pub, Signature: adminSig},
		ExpectedSigner{Role: RoleUser, PublicKey: user.pub, Signature: userSig},
	)
	if err != nil {
		t.Fatalf("VerifyPairs: %v", err)
	}
}

func TestVerifyPairsMissingUserRecord(t *testing.T) {
	admin := newSigner(t)
	user := newSigner(t)
	message := []byte("claim message payload")
	adminSig := admin.sign(t, message)
	userSig := user.sign(t, message)

	intro := NewTransactionIntrospector([]Instruction{
		verifyIx(t, admin, adminSig, message),
		claimIx(),
	}, 1)

	err := VerifyPairs(intro, message,
		ExpectedSigner{Role: RoleAdmin, PublicKey: admin.pub, Signature: adminSig},
		ExpectedSigner{Role: RoleUser, PublicKey: user.pub, Signature: userSig},
	)
	if !errors.Is(err, ErrUserSignatureNotVerified) {
		t.Fatalf("expected ErrUserSignatureNotVerified, got %v", err)
	}
}

func TestVerifyPairsTamperedMessage(t *testing.T) {
	admin := newSigner(t)
	message := []byte("claim message payload")
	sig := admin.sign(t, message)

	tampered := append([]byte(nil), message...)
	tampered[0] ^= 0x01

	intro := NewTransactionIntrospector([]Instruction{
		verifyIx(t, admin, sig, message),
		claimIx(),
	}, 1)

	err := VerifyPairs(intro, tampered, ExpectedSigner{Role: RoleAdmin, PublicKey: admin.pub, Signature: sig})
	if !errors.Is(err, ErrAdminSignatureNotVerified) {
		t.Fatalf("expected ErrAdminSignatureNotVerified, got %v", err)
	}
}

func TestVerifyPairsPrefixIsNotEqual(t *testing.T) {
	admin := newSigner(t)
	message := []byte("claim message payload")
	extended := append(append([]byte(nil), message...), "-suffix"...)
	sig := admin.sign(t, extended)

	intro := NewTransactionIntrospector([]Instruction{
		verifyIx(t, admin, sig, extended),
		claimIx(),
	}, 1)

	err := VerifyPairs(intro, message, ExpectedSigner{Role: RoleAdmin, PublicKey: admin.pub, Signature: sig})
	if !errors.Is(err, ErrAdminSignatureNotVerified) {
		t.Fatalf("expected ErrAdminSignatureNotVerified, got %v", err)
	}
}

func TestVerifyPairsWrongSigner(t *testing.T) {
	admin := newSigner(t)
	impostor := newSigner(t)
	message := []byte("claim message payload")
	sig := impostor.sign(t, message)

	intro := NewTransactionIntrospector([]Instruction{
		verifyIx(t, impostor, sig, message),
		claimIx(),
	}, 1)

	err := VerifyPairs(intro, message, ExpectedSigner{Role: RoleAdmin, PublicKey: admin.pub, Signature: sig})
	if !errors.Is(err, ErrAdminSignatureNotVerified) {
		t.Fatalf("expected ErrAdminSignatureNotVerified, got %v", err)
	}
}

func TestVerifyPairsIgnoresMalformedRecords(t *testing.T) {
	admin := newSigner(t)
	message := []byte("claim message payload")
	sig := admin.sign(t, message)

	truncated := Instruction{ProgramID: Ed25519ProgramID, Data: []byte{1, 0, 0}}
	outOfBounds := verifyIx(t, admin, sig, message)
	outOfBounds.Data = append([]byte(nil), outOfBounds.Data...)
	binary.LittleEndian.PutUint16(outOfBounds.Data[10:], 0xFFF0)

	intro := NewTransactionIntrospector([]Instruction{
		truncated,
		outOfBounds,
		verifyIx(t, admin, sig, message),
		claimIx(),
	}, 3)

	err := VerifyPairs(intro, message, ExpectedSigner{Role: RoleAdmin, PublicKey: admin.pub, Signature: sig})
	if err != nil {
		t.Fatalf("VerifyPairs: %v", err)
	}
}

func TestVerifyPairsSkipsOtherPrograms(t *testing.T) {
	admin := newSigner(t)
	message := []byte("claim message payload")
	sig := admin.sign(t, message)

	// A well-formed record addressed to a different program must not count.
	forged := verifyIx(t, admin, sig, message)
	forged.ProgramID = solana.PublicKey{0x42}

	intro := NewTransactionIntrospector([]Instruction{forged, claimIx()}, 1)

	err := VerifyPairs(intro, message, ExpectedSigner{Role: RoleAdmin, PublicKey: admin.pub, Signature: sig})
	if !errors.Is(err, ErrAdminSignatureNotVerified) {
		t.Fatalf("expected ErrAdminSignatureNotVerified, got %v", err)
	}
}

func TestVerifyPairsOnlyScansPrecedingInstructions(t *testing.T) {
	admin := newSigner(t)
	message := []byte("claim message payload")
	sig := admin.sign(t, message)

	intro := NewTransactionIntrospector([]Instruction{
		claimIx(),
		verifyIx(t, admin, sig, message),
	}, 0)

	err := VerifyPairs(intro, message, ExpectedSigner{Role: RoleAdmin, PublicKey: admin.pub, Signature: sig})
	if !errors.Is(err, ErrAdminSignatureNotVerified) {
		t.Fatalf("expected ErrAdminSignatureNotVerified, got %v", err)
	}
}

func TestVerifyPairsEmptySignature(t *testing.T) {
	admin := newSigner(t)
	message := []byte("claim message payload")

	intro := NewTransactionIntrospector([]Instruction{claimIx()}, 0)

	err := VerifyPairs(intro, message, ExpectedSigner{Role: RoleAdmin, PublicKey: admin.pub})
	if !errors.Is(err, ErrEmptySignature) {
		t.Fatalf("expected ErrEmptySignature, got %v", err)
	}
}

func TestParseSingleRecordRejectsMultiSig(t *testing.T) {
	admin := newSigner(t)
	message := []byte("claim message payload")
	sig := admin.sign(t, message)

	ix := verifyIx(t, admin, sig, message)
	ix.Data[0] = 2

	if _, ok := parseSingleRecord(ix.Data); ok {
		t.Fatal("expected multi-signature record to be rejected")
	}
}

func TestParseSingleRecordRoundTrip(t *testing.T) {
	admin := newSigner(t)
	message := []byte("claim message payload")
	sig := admin.sign(t, message)

	ix := verifyIx(t, admin, sig, message)
	rec, ok := parseSingleRecord(ix.Data)
	if !ok {
		t.Fatal("expected record to parse")
	}
	if !rec.publicKey.Equals(admin.pub) {
		t.Fatalf("public key mismatch: %s", rec.publicKey)
	}
	if rec.signature != sig {
		t.Fatalf("signature mismatch")
	}
	if string(rec.message) != string(message) {
		t.Fatalf("message mismatch: %q", rec.message)
	}
}

func TestInstructionAtOutOfRange(t *testing.T) {
	intro := NewTransactionIntrospector([]Instruction{claimIx()}, 0)
	if _, err := intro.InstructionAt(5); !errors.Is(err, ErrInstructionOutOfRange) {
		t.Fatalf("expected ErrInstructionOutOfRange, got %v", err)
	}
	if _, err := intro.InstructionAt(-1); !errors.Is(err, ErrInstructionOutOfRange) {
		t.Fatalf("expected ErrInstructionOutOfRange, got %v", err)
	}
}
