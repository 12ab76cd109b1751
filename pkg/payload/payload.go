// Package payload implements the symmetric codec used for customer PII in
// checkout requests. The storefront encrypts email, phone and address fields
// client-side with a shared passphrase before transmission; the server
// decrypts them before storage.
//
// The wire format is the OpenSSL passphrase scheme: base64 of
// "Salted__" + 8-byte salt + AES-256-CBC ciphertext, with the key and IV
// derived from the passphrase and salt via MD5-based EVP_BytesToKey and
// PKCS#7 padding on the plaintext.
package payload

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

const saltedPrefix = "Salted__"

// ErrMalformed is returned when a ciphertext cannot be decoded or decrypted
// with the shared key.
var ErrMalformed = errors.New("malformed encrypted payload")

// Codec encrypts and decrypts strings with a shared passphrase.
type Codec struct {
	passphrase []byte
}

// NewCodec creates a Codec for the given passphrase.
func NewCodec(passphrase string) *Codec {
	return &Codec{passphrase: []byte(passphrase)}
}

// evpBytesToKey derives an AES-256 key and IV from the passphrase and salt,
// matching OpenSSL's EVP_BytesToKey with MD5 and one iteration.
func (c *Codec) evpBytesToKey(salt []byte) (key, iv []byte) {
	var derived []byte
	var block []byte
	for len(derived) < 48 {
		h := md5.New()
		h.Write(block)
		h.Write(c.passphrase)
		h.Write(salt)
		block = h.Sum(nil)
		derived = append(derived, block...)
	}
	return derived[:32], derived[32:48]
}

// Encrypt encrypts plaintext and returns the base64 wire form.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, 8)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key, iv := c.evpBytesToKey(salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to init cipher: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	raw := make([]byte, 0, len(saltedPrefix)+8+len(ciphertext))
	raw = append(raw, saltedPrefix...)
	raw = append(raw, salt...)
	raw = append(raw, ciphertext...)
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decrypt decodes the base64 wire form and decrypts it. It returns
// ErrMalformed for anything that is not a well-formed payload produced with
// the same passphrase.
func (c *Codec) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raw) < len(saltedPrefix)+8 || string(raw[:len(saltedPrefix)]) != saltedPrefix {
		return "", fmt.Errorf("%w: missing salt header", ErrMalformed)
	}
	salt := raw[len(saltedPrefix) : len(saltedPrefix)+8]
	ciphertext := raw[len(saltedPrefix)+8:]
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext not block-aligned", ErrMalformed)
	}

	key, iv := c.evpBytesToKey(salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to init cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.New("invalid padding byte")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("inconsistent padding")
		}
	}
	return data[:len(data)-n], nil
}
