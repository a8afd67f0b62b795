package client

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"
)

// Signer calcula la firma X-HMAC-Signature de una solicitud
type Signer struct {
	secret []byte
}

// NewSigner crea un firmante con la clave secreta de la tienda
func NewSigner(secretKey string) *Signer {
	return &Signer{secret: []byte(secretKey)}
}

// Sign retorna hex(HMAC-MD5(secret, method + url + body))
func (s *Signer) Sign(method, url string, body []byte) string {
	mac := hmac.New(md5.New, s.secret)
	mac.Write([]byte(method))
	mac.Write([]byte(url))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compara en tiempo constante la firma recibida con la esperada
func (s *Signer) Verify(method, url string, body []byte, signature string) bool {
	expected := s.Sign(method, url, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
