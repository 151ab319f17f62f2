// Package qr builds and renders the scannable session artifact. The payload
// is passive data with an attached deadline; validity is always decided by
// comparing the stored expiry against the clock at read time.
package qr

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// DefaultTTL is how long a freshly issued QR code stays scannable.
const DefaultTTL = 3 * time.Hour

// Payload identifies the session a scan claims attendance for.
type Payload struct {
	SessionID string    `json:"session_id"`
	CourseID  string    `json:"course_id"`
	IssuedAt  time.Time `json:"issued_at"`
	Nonce     string    `json:"nonce"`
}

// NewPayload builds a payload for a session issued now.
func NewPayload(sessionID, courseID string, issuedAt time.Time) Payload {
	return Payload{
		SessionID: sessionID,
		CourseID:  courseID,
		IssuedAt:  issuedAt,
		Nonce:     uuid.New().String(),
	}
}

// Encode serializes the payload to a URL-safe opaque string.
func (p Payload) Encode() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal qr payload: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// Decode parses an opaque payload string produced by Encode.
func Decode(encoded string) (Payload, error) {
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return Payload{}, fmt.Errorf("invalid qr payload encoding: %w", err)
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("invalid qr payload: %w", err)
	}
	return p, nil
}

// RenderPNG renders the encoded payload as a PNG data URL suitable for
// direct display in an <img> tag.
func RenderPNG(encodedPayload string, size int) (string, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(encodedPayload, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("failed to render qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
