package githubapi

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/box"
)

// SealSecret encrypts value for a repository as an anonymous libsodium sealed box and returns it base64 encoded.
func SealSecret(publicKeyBase64 string, value string) (string, error) {
	return sealSecret(rand.Reader, publicKeyBase64, value)
}

func sealSecret(random io.Reader, publicKeyBase64 string, value string) (string, error) {
	keyBytes, err := base64.StdEncoding.DecodeString(publicKeyBase64)
	if err != nil {
		return "", fmt.Errorf("error decoding repository public key: %s", err)
	}
	if len(keyBytes) != 32 {
		return "", fmt.Errorf("repository public key has %d bytes, expected 32", len(keyBytes))
	}

	recipient := [32]byte{}
	copy(recipient[:], keyBytes)

	sealed, err := box.SealAnonymous(nil, []byte(value), &recipient, random)
	if err != nil {
		return "", fmt.Errorf("error sealing secret: %s", err)
	}

	return base64.StdEncoding.EncodeToString(sealed), nil
}
