package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPageCursor_RoundTrip(t *testing.T) {
	cursor := &PageCursor{
		LastID:        uuid.New(),
		LastCreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	token := cursor.Encode()
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	decoded, err := DecodePageCursor(token)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.LastID != cursor.LastID {
		t.Errorf("LastID mismatch: %s != %s", decoded.LastID, cursor.LastID)
	}
	if !decoded.LastCreatedAt.Equal(cursor.LastCreatedAt) {
		t.Errorf("LastCreatedAt mismatch: %s != %s", decoded.LastCreatedAt, cursor.LastCreatedAt)
	}
}

func TestDecodePageCursor_EmptyToken(t *testing.T) {
	cursor, err := DecodePageCursor("")
	if err != nil {
		t.Fatalf("empty token must not fail: %v", err)
	}
	if cursor != nil {
		t.Error("empty token must decode to nil cursor")
	}
}

func TestDecodePageCursor_Garbage(t *testing.T) {
	if _, err := DecodePageCursor("not-base64!!"); err == nil {
		t.Error("expected an error for a corrupt token")
	}
}

func TestNormalizePageSize(t *testing.T) {
	cases := []struct {
		in   int32
		want int32
	}{
		{0, DefaultPageSize},
		{-5, DefaultPageSize},
		{50, 50},
		{MaxPageSize + 1, MaxPageSize},
	}

	for _, tc := range cases {
		if got := NormalizePageSize(tc.in); got != tc.want {
			t.Errorf("NormalizePageSize(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
