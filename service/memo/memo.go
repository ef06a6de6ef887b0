// Package memo decodes the base58-encoded memo payloads attached to Solana
// transactions. The payment flow smuggles an NFT identifier through a memo
// instruction; this package extracts it.
package memo

import (
	"fmt"
	"unicode/utf8"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// Well-known memo program IDs.
var (
	// ProgramID is the SPL Memo program (most common).
	ProgramID = solanago.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")

	// LegacyProgramID is the legacy memo program (v1).
	LegacyProgramID = solanago.MustPublicKeyFromBase58("Memo1UhkJRfHyvLMcVucJwxXeuD728EqVDDwQDxFMNo")
)

// IsMemoProgram reports whether the given program ID string is one of the
// recognized memo programs.
func IsMemoProgram(programID string) bool {
	return programID == ProgramID.String() || programID == LegacyProgramID.String()
}

// Decode decodes a base58-encoded memo payload to its UTF-8 string form.
// It returns an error for invalid base58 input or payloads that are not
// valid UTF-8. On error the returned string is always empty, so callers
// honoring the never-throws contract can use the result directly after
// logging the error.
func Decode(data string) (string, error) {
	// base58.Decode rejects zero-length input; an empty memo payload is not
	// an error, it just decodes to nothing.
	if data == "" {
		return "", nil
	}
	raw, err := base58.Decode(data)
	if err != nil {
		return "", fmt.Errorf("invalid base58 memo data: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("memo data is not valid UTF-8")
	}
	return string(raw), nil
}

// Encode encodes a string as base58, the inverse of Decode. Used by the CLI
// to build test webhook payloads.
func Encode(s string) string {
	return base58.Encode([]byte(s))
}
