package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Keystore format: salt(32) | memory(4 LE) | iterations(4 LE) | parallelism(1)
// | nonce(24) | ciphertext. The key-derivation parameters travel with the
// file so they can be tightened without breaking existing keystores.
const (
	keystoreSaltSize   = 32
	keystoreHeaderSize = keystoreSaltSize + 4 + 4 + 1
)

type kdfParams struct {
	memory      uint32 // KiB
	iterations  uint32
	parallelism uint8
}

func defaultKDFParams() kdfParams {
	return kdfParams{
		memory:      64 * 1024,
		iterations:  3,
		parallelism: 4,
	}
}

func deriveKeystoreKey(passphrase, salt []byte, params kdfParams) []byte {
	return argon2.IDKey(
		passphrase,
		salt,
		params.iterations,
		params.memory,
		params.parallelism,
		chacha20poly1305.KeySize,
	)
}

// SaveToKeystore writes the private key to an encrypted keystore file at the
// given path, creating the parent directory with 0700 permissions if needed.
// The key material is sealed with Argon2id + XChaCha20-Poly1305.
func SaveToKeystore(path string, key *PrivateKey, passphrase string) error {
	if key == nil {
		return errors.New("crypto: nil private key")
	}
	if path == "" {
		return errors.New("crypto: empty keystore path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	params := defaultKDFParams()
	salt := make([]byte, keystoreSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("crypto: generate salt: %w", err)
	}
	derived := deriveKeystoreKey([]byte(passphrase), salt, params)
	aead, err := chacha20poly1305.NewX(derived)
	if err != nil {
		return fmt.Errorf("crypto: create cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("crypto: generate nonce: %w", err)
	}
	ciphertext := aead.Seal(nil, nonce, key.Bytes(), nil)

	out := make([]byte, 0, keystoreHeaderSize+len(nonce)+len(ciphertext))
	out = append(out, salt...)
	out = binary.LittleEndian.AppendUint32(out, params.memory)
	out = binary.LittleEndian.AppendUint32(out, params.iterations)
	out = append(out, params.parallelism)
	out = append(out, nonce...)
	out = append(out, ciphertext...)

	for i := range derived {
		derived[i] = 0
	}
	return os.WriteFile(path, out, 0o600)
}

// LoadFromKeystore decrypts a keystore file written by SaveToKeystore.
func LoadFromKeystore(path, passphrase string) (*PrivateKey, error) {
	if path == "" {
		return nil, errors.New("crypto: empty keystore path")
	}
	encrypted, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	nonceSize := chacha20poly1305.NonceSizeX
	minSize := keystoreHeaderSize + nonceSize + chacha20poly1305.Overhead
	if len(encrypted) < minSize {
		return nil, fmt.Errorf("crypto: keystore too short: %d bytes, need at least %d", len(encrypted), minSize)
	}

	salt := encrypted[:keystoreSaltSize]
	params := kdfParams{
		memory:      binary.LittleEndian.Uint32(encrypted[keystoreSaltSize:]),
		iterations:  binary.LittleEndian.Uint32(encrypted[keystoreSaltSize+4:]),
		parallelism: encrypted[keystoreSaltSize+8],
	}
	nonce := encrypted[keystoreHeaderSize : keystoreHeaderSize+nonceSize]
	ciphertext := encrypted[keystoreHeaderSize+nonceSize:]

	derived := deriveKeystoreKey([]byte(passphrase), salt, params)
	aead, err := chacha20poly1305.NewX(derived)
	if err != nil {
		return nil, fmt.Errorf("crypto: create cipher: %w", err)
	}
	raw, err := aead.Open(nil, nonce, ciphertext, nil)
	for i := range derived {
		derived[i] = 0
	}
	if err != nil {
		return nil, errors.New("crypto: keystore decryption failed (wrong passphrase?)")
	}
	return PrivateKeyFromBytes(raw)
}
