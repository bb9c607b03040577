// Package cursor implements HMAC-signed keyset pagination tokens.
package cursor

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

type Data struct {
	Datetime string `json:"datetime"`
	ID       int    `json:"id,omitempty"`
}

// Codec signs and verifies cursor tokens with a shared secret.
type Codec struct {
	secret []byte
}

func New(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

func (c *Codec) sign(encoded string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encoded))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (c *Codec) verify(encoded string, signature string) bool {
	return hmac.Equal([]byte(signature), []byte(c.sign(encoded)))
}

func (c *Codec) Encode(date string, id int) string {
	data := Data{Datetime: date, ID: id}
	jsonData, _ := json.Marshal(data)
	encoded := base64.StdEncoding.EncodeToString(jsonData)

	return encoded + "." + c.sign(encoded)
}

func (c *Codec) Decode(token string) (string, int, error) {
	parts := strings.Split(token, ".")

	if len(parts) != 2 {
		return "", 0, errors.New("invalid cursor format")
	}

	if !c.verify(parts[0], parts[1]) {
		return "", 0, errors.New("invalid cursor signature")
	}

	decoded, err := base64.StdEncoding.DecodeString(parts[0])

	if err != nil {
		return "", 0, err
	}

	var data Data
	if err := json.Unmarshal(decoded, &data); err != nil {
		return "", 0, err
	}

	return data.Datetime, data.ID, nil
}
