package frame

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const (
	// Delimiter separates the key digest from the message. '|' is not a hex digit.
	Delimiter = "|||"
	// DigestLen is the length of the rendered key digest.
	DigestLen = sha256.Size * 2
)

// Digest renders the SHA-256 of key as lowercase hex.
func Digest(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Bind returns digest || delimiter || message.
func Bind(key, message string) []byte {
	b := make([]byte, 0, DigestLen+len(Delimiter)+len(message))
	b = append(b, Digest(key)...)
	b = append(b, Delimiter...)
	return append(b, message...)
}

// Verify splits payload on the first delimiter and checks the stored digest against key.
// A payload that does not look like a bound message returns a *MalformedError; a wrong key
// returns a *KeyMismatchError.
func Verify(payload []byte, key string) (string, error) {
	i := bytes.Index(payload, []byte(Delimiter))
	if i < 0 {
		return "", &MalformedError{Reason: "no delimiter in payload"}
	}
	if i != DigestLen {
		return "", &MalformedError{Reason: fmt.Sprintf("digest is %d bytes, expected %d", i, DigestLen)}
	}
	stored := payload[:i]
	if _, err := hex.DecodeString(string(stored)); err != nil {
		return "", &MalformedError{Reason: "digest is not hex"}
	}
	if subtle.ConstantTimeCompare(stored, []byte(Digest(key))) != 1 {
		return "", &KeyMismatchError{}
	}
	return string(payload[i+len(Delimiter):]), nil
}

// MalformedError is returned when extracted bits do not form a bound message.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return "The extracted payload is malformed: " + e.Reason
}

// KeyMismatchError is returned when the payload was bound to a different key.
type KeyMismatchError struct{}

func (e *KeyMismatchError) Error() string {
	return "The stored key digest does not match the provided key."
}
