package auth

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/square/go-jose/v3"
	"golang.org/x/crypto/hkdf"
)

// TokenIssuer mints and verifies encrypted session tokens. The encryption
// key is derived from the configured secret.
type TokenIssuer struct {
	key []byte
	ttl time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	key, err := deriveEncryptionKey([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("derive encryption key: %w", err)
	}
	return &TokenIssuer{key: key, ttl: ttl}, nil
}

func deriveEncryptionKey(keyMaterial []byte) ([]byte, error) {
	info := []byte("finterra session encryption key")
	h := hkdf.New(sha256.New, keyMaterial, nil, info)
	key := make([]byte, 32)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Issue returns a compact encrypted token for the given user.
func (t *TokenIssuer) Issue(uid string) (string, error) {
	now := time.Now()
	payload, err := json.Marshal(map[string]any{
		"sub": uid,
		"iat": now.Unix(),
		"exp": now.Add(t.ttl).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	encrypter, err := jose.NewEncrypter(
		jose.A256GCM,
		jose.Recipient{Algorithm: jose.DIRECT, Key: t.key},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("create encrypter: %w", err)
	}

	obj, err := encrypter.Encrypt(payload)
	if err != nil {
		return "", fmt.Errorf("encrypt token: %w", err)
	}
	return obj.CompactSerialize()
}

// Verify decrypts the token and returns the user id it was issued to.
func (t *TokenIssuer) Verify(token string) (string, error) {
	obj, err := jose.ParseEncrypted(token)
	if err != nil {
		return "", ErrInvalidToken
	}
	decrypted, err := obj.Decrypt(t.key)
	if err != nil {
		return "", ErrInvalidToken
	}

	var payload map[string]any
	if err := json.Unmarshal(decrypted, &payload); err != nil {
		return "", ErrInvalidToken
	}

	now := time.Now().Unix()
	exp, ok := payload["exp"].(float64)
	if !ok || now > int64(exp) {
		return "", ErrInvalidToken
	}
	if iat, ok := payload["iat"].(float64); ok && now < int64(iat) {
		return "", ErrInvalidToken
	}

	sub, ok := payload["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
