package grvt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"
)

// Signer produces the authentication headers for GRVT API requests.
// Keys are held as []byte so they can be wiped.
type Signer struct {
	apiKey       []byte
	apiSecret    []byte
	subAccountID string
}

// NewSigner creates a signer for the given credentials.
func NewSigner(apiKey, apiSecret, subAccountID string) *Signer {
	return &Signer{
		apiKey:       []byte(apiKey),
		apiSecret:    []byte(apiSecret),
		subAccountID: subAccountID,
	}
}

// Wipe zeroes the key material.
func (s *Signer) Wipe() {
	if s == nil {
		return
	}
	wipe(s.apiKey)
	wipe(s.apiSecret)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Headers signs one request. The signed payload is
// timestamp + method + path + body.
func (s *Signer) Headers(method, path, body string) map[string]string {
	timestamp := fmt.Sprintf("%d", time.Now().UnixMilli())

	payload := timestamp + method + path + body
	mac := hmac.New(sha256.New, s.apiSecret)
	mac.Write([]byte(payload))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return map[string]string{
		"X-Grvt-Api-Key":    string(s.apiKey),
		"X-Grvt-Signature":  signature,
		"X-Grvt-Timestamp":  timestamp,
		"X-Grvt-Account-Id": s.subAccountID,
		"Content-Type":      "application/json",
	}
}
