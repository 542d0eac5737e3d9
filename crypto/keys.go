package crypto

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// PrivateKey wraps an Ed25519 private key used by claim signers (the backend
// admin) and by users authorising claims.
type PrivateKey struct {
	key solana.PrivateKey
}

// GeneratePrivateKey creates a new random Ed25519 private key.
func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("crypto: generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes restores a private key from its raw 64-byte form.
func PrivateKeyFromBytes(raw []byte) (*PrivateKey, error) {
	if len(raw) != solana.PrivateKeyLength {
		return nil, fmt.Errorf("crypto: private key must be %d bytes, got %d", solana.PrivateKeyLength, len(raw))
	}
	return &PrivateKey{key: solana.PrivateKey(append([]byte(nil), raw...))}, nil
}

// Bytes returns the raw 64-byte private key.
func (k *PrivateKey) Bytes() []byte {
	if k == nil {
		return nil
	}
	return append([]byte(nil), k.key...)
}

// PubKey returns the 32-byte public identity of the key.
func (k *PrivateKey) PubKey() solana.PublicKey {
	if k == nil {
		return solana.PublicKey{}
	}
	return k.key.PublicKey()
}

// Sign produces an Ed25519 signature over message.
func (k *PrivateKey) Sign(message []byte) (solana.Signature, error) {
	if k == nil {
		return solana.Signature{}, errors.New("crypto: nil private key")
	}
	return k.key.Sign(message)
}
