package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

const signaturePrefix = "sha256="

var ErrInvalidSignature = errors.New("invalid webhook signature")

// CRCResponse answers an Account Activity challenge-response check.
func CRCResponse(consumerSecret, crcToken string) string {
	return sign(consumerSecret, []byte(crcToken))
}

// VerifySignature checks the x-twitter-webhooks-signature header of a delivery.
func VerifySignature(consumerSecret string, body []byte, header string) error {
	if !strings.HasPrefix(header, signaturePrefix) {
		return ErrInvalidSignature
	}
	if !hmac.Equal([]byte(sign(consumerSecret, body)), []byte(header)) {
		return ErrInvalidSignature
	}
	return nil
}

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return signaturePrefix + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
