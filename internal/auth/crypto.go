package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Encrypt seals plaintext with AES-256-CTR under a 32-byte key. The output is
// `iv:ciphertext`, both hex encoded; the format is a compatibility contract
// with existing session cookies.
func Encrypt(key []byte, plaintext string) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}
	out := make([]byte, len(plaintext))
	cipher.NewCTR(block, iv).XORKeyStream(out, []byte(plaintext))
	return fmt.Sprintf("%s:%s", hex.EncodeToString(iv), hex.EncodeToString(out)), nil
}

// Decrypt reverses Encrypt.
func Decrypt(key []byte, sealed string) (string, error) {
	ivStr, ctStr, ok := strings.Cut(sealed, ":")
	if !ok {
		return "", errors.New("malformed sealed token")
	}
	iv, err := hex.DecodeString(ivStr)
	if err != nil || len(iv) != aes.BlockSize {
		return "", errors.New("malformed sealed token iv")
	}
	ciphertext, err := hex.DecodeString(ctStr)
	if err != nil {
		return "", errors.New("malformed sealed token body")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCTR(block, iv).XORKeyStream(out, ciphertext)
	return string(out), nil
}
