package domain

import (
	"testing"
	"time"
)

func validBan() *BanEntry {
	return &BanEntry{
		ID:        12,
		IGN:       "Notch",
		UUID:      "069a79f4-44e9-4726-a5be-fca90e38aaf5",
		Reason:    "x-ray in game 412",
		Link:      "https://example.test/courtroom/412",
		Created:   ts("2024-01-01T00:00:00Z"),
		Expires:   ts("2024-07-01T00:00:00Z"),
		CreatedBy: "mod",
	}
}

func TestBanEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BanEntry)
		wantErr error
	}{
		{"valid", func(b *BanEntry) {}, nil},
		{"blank ign", func(b *BanEntry) { b.IGN = "  " }, ErrInvalidBanIGN},
		{"malformed uuid", func(b *BanEntry) { b.UUID = "069a79f4" }, ErrInvalidBanUUID},
		{"blank reason", func(b *BanEntry) { b.Reason = "" }, ErrEmptyBanReason},
		{"expiry before creation", func(b *BanEntry) { b.Expires = b.Created.Add(-time.Hour) }, ErrBanExpiryBefore},
		{"expiry equals creation", func(b *BanEntry) { b.Expires = b.Created }, ErrBanExpiryBefore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBan()
			tt.mutate(b)
			if err := b.Validate(); err != tt.wantErr {
				t.Errorf("BanEntry.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBanEntry_IsActive(t *testing.T) {
	b := validBan()
	if !b.IsActive(ts("2024-03-01T00:00:00Z")) {
		t.Error("expected ban to be active before expiry")
	}
	if b.IsActive(ts("2024-07-01T00:00:00Z")) {
		t.Error("expected ban to be inactive at expiry")
	}
}

func TestNormalizeUUID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"canonical", "069a79f4-44e9-4726-a5be-fca90e38aaf5", "069a79f4-44e9-4726-a5be-fca90e38aaf5", false},
		{"dashless spreadsheet form", "069a79f444e94726a5befca90e38aaf5", "069a79f4-44e9-4726-a5be-fca90e38aaf5", false},
		{"uppercase", "069A79F4-44E9-4726-A5BE-FCA90E38AAF5", "069a79f4-44e9-4726-a5be-fca90e38aaf5", false},
		{"padded", "  069a79f4-44e9-4726-a5be-fca90e38aaf5 ", "069a79f4-44e9-4726-a5be-fca90e38aaf5", false},
		{"garbage", "steve", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeUUID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeUUID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeUUID() = %q, want %q", got, tt.want)
			}
		})
	}
}
