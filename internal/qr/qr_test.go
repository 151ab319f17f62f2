package qr

import (
	"strings"
	"testing"
	"time"
)

func TestPayloadRoundTrip(t *testing.T) {
	issued := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	in := NewPayload("sess-1", "course-1", issued)

	encoded, err := in.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	out, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if out.SessionID != in.SessionID || out.CourseID != in.CourseID {
		t.Errorf("identity mismatch: got %+v want %+v", out, in)
	}
	if !out.IssuedAt.Equal(issued) {
		t.Errorf("issued_at mismatch: got %v want %v", out.IssuedAt, issued)
	}
	if out.Nonce == "" {
		t.Error("nonce should not be empty")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode("not base64!!!"); err == nil {
		t.Error("expected error for invalid encoding")
	}
	if _, err := Decode("bm90IGpzb24"); err == nil {
		t.Error("expected error for non-json payload")
	}
}

func TestRenderPNG(t *testing.T) {
	p := NewPayload("sess-1", "course-1", time.Now())
	encoded, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	img, err := RenderPNG(encoded, 256)
	if err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}
	if !strings.HasPrefix(img, "data:image/png;base64,") {
		t.Errorf("expected PNG data URL, got prefix %q", img[:minInt(30, len(img))])
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
