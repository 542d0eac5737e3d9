package logging

import (
	"encoding/hex"

	"github.com/gagliardetto/solana-go"
)

// SignaturePreview renders the first bytes of a signature as hex for log
// lines. Full signatures never reach the logs.
func SignaturePreview(sig solana.Signature) string {
	return hex.EncodeToString(sig[:8]) + ".."
}

// MessagePreview renders the first bytes of a signed message as hex.
func MessagePreview(message []byte) string {
	if len(message) <= 16 {
		return hex.EncodeToString(message)
	}
	return hex.EncodeToString(message[:16]) + ".."
}
