package sigverify

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrUserSignatureNotVerified indicates no preceding precompile
	// instruction verified the user's signature over the expected message.
	ErrUserSignatureNotVerified = errors.New("sigverify: user signature not verified by ed25519 program")
	// ErrAdminSignatureNotVerified indicates no preceding precompile
	// instruction verified the admin's signature over the expected message.
	ErrAdminSignatureNotVerified = errors.New("sigverify: admin signature not verified by ed25519 program")
	// ErrEmptySignature indicates an all-zero signature was supplied.
	ErrEmptySignature = errors.New("sigverify: empty signature")
)

// Role names the party whose signature a claim requires.
type Role uint8

const (
	RoleUser Role = iota
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// notVerified returns the role-specific failure sentinel.
func (r Role) notVerified() error {
	if r == RoleAdmin {
		return ErrAdminSignatureNotVerified
	}
	return ErrUserSignatureNotVerified
}

// ExpectedSigner is one (signer, signature) pair that must have been verified
// by the precompile over the exact expected message.
type ExpectedSigner struct {
	Role      Role
	PublicKey solana.PublicKey
	Signature solana.Signature
}

// VerifyPairs confirms that every expected pair was independently verified by
// an Ed25519 precompile instruction earlier in the same transaction, over
// exactly message. It scans instructions 0..CurrentIndex(), skips anything
// not addressed to the precompile, and treats malformed records as
// non-matches. Matching is accumulate-only: once a role is verified a later
// non-matching record cannot unmark it. Returns the first unmatched role's
// error, or nil when every pair matched.
func VerifyPairs(intro Introspector, message []byte, expected ...ExpectedSigner) error {
	if intro == nil {
		return fmt.Errorf("sigverify: introspector required")
	}
	if len(expected) == 0 {
		return fmt.Errorf("sigverify: at least one expected signer required")
	}
	for _, exp := range expected {
		if exp.Signature.IsZero() {
			return fmt.Errorf("%w for %s", ErrEmptySignature, exp.Role)
		}
	}

	matched := make([]bool, len(expected))
	for i := 0; i < intro.CurrentIndex(); i++ {
		ix, err := intro.InstructionAt(i)
		if err != nil {
			// A hole in the introspection view cannot satisfy any role, but
			// the remaining instructions may still match.
			continue
		}
		if !ix.ProgramID.Equals(Ed25519ProgramID) {
			continue
		}
		rec, ok := parseSingleRecord(ix.Data)
		if !ok {
			continue
		}
		if !bytes.Equal(rec.message, message) {
			continue
		}
		for j, exp := range expected {
			if matched[j] {
				continue
			}
			if rec.publicKey.Equals(exp.PublicKey) && rec.signature == exp.Signature {
				matched[j] = true
			}
		}
	}

	for j, exp := range expected {
		if !matched[j] {
			return exp.Role.notVerified()
		}
	}
	return nil
}
