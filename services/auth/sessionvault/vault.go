package sessionvault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

const (
	keySize = 32
	ivSize  = 12
)

// JWK is the JSON web key representation of a symmetric AES-GCM key.
type JWK struct {
	Kty    string   `json:"kty"`
	K      string   `json:"k"`
	Alg    string   `json:"alg"`
	Ext    bool     `json:"ext"`
	KeyOps []string `json:"key_ops,omitempty"`
}

// SessionKey is what gets stored under keys:<session-id>.
type SessionKey struct {
	JWK JWK    `json:"jwk"`
	IV  string `json:"iv"`
}

// NewSessionKey creates a fresh AES-256 key with a 12 byte IV, both drawn from crypto/rand.
func NewSessionKey() (SessionKey, error) {
	return newSessionKey(rand.Reader)
}

func newSessionKey(random io.Reader) (SessionKey, error) {
	key := make([]byte, keySize)
	_, err := io.ReadFull(random, key)
	if err != nil {
		return SessionKey{}, fmt.Errorf("error generating session key: %s", err)
	}

	iv := make([]byte, ivSize)
	_, err = io.ReadFull(random, iv)
	if err != nil {
		return SessionKey{}, fmt.Errorf("error generating iv: %s", err)
	}

	return SessionKey{
		JWK: JWK{
			Kty:    "oct",
			K:      base64.RawURLEncoding.EncodeToString(key),
			Alg:    "A256GCM",
			Ext:    true,
			KeyOps: []string{"encrypt", "decrypt"},
		},
		IV: base64.StdEncoding.EncodeToString(iv),
	}, nil
}

func (sk SessionKey) Seal(plaintext []byte) ([]byte, error) {
	aead, iv, err := sk.open()
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, iv, plaintext, nil), nil
}

func (sk SessionKey) Open(ciphertext []byte) ([]byte, error) {
	aead, iv, err := sk.open()
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("error decrypting session: %s", err)
	}
	return plaintext, nil
}

func (sk SessionKey) open() (cipher.AEAD, []byte, error) {
	if sk.JWK.Kty != "oct" || sk.JWK.Alg != "A256GCM" {
		return nil, nil, fmt.Errorf("unsupported key %s/%s", sk.JWK.Kty, sk.JWK.Alg)
	}

	key, err := base64.RawURLEncoding.DecodeString(sk.JWK.K)
	if err != nil {
		return nil, nil, fmt.Errorf("error decoding key: %s", err)
	}
	if len(key) != keySize {
		return nil, nil, fmt.Errorf("key has %d bytes, expected %d", len(key), keySize)
	}

	iv, err := base64.StdEncoding.DecodeString(sk.IV)
	if err != nil {
		return nil, nil, fmt.Errorf("error decoding iv: %s", err)
	}
	if len(iv) != ivSize {
		return nil, nil, fmt.Errorf("iv has %d bytes, expected %d", len(iv), ivSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating cipher: %s", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating gcm: %s", err)
	}

	return aead, iv, nil
}
