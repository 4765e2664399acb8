package httpapi

import (
	"testing"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc123", "abc123", false},
		{"case insensitive scheme", "bearer abc123", "abc123", false},
		{"padded", "  Bearer   abc123  ", "abc123", false},
		{"empty", "", "", true},
		{"wrong scheme", "Basic abc123", "", true},
		{"scheme only", "Bearer ", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractBearerToken(tc.header)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got token %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("token: got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsPublicAPIPath(t *testing.T) {
	public := []string{"/api/auth/signup", "/api/auth/login", "/api/auth/logout"}
	for _, p := range public {
		if !isPublicAPIPath(p) {
			t.Fatalf("expected %s to be public", p)
		}
	}
	private := []string{"/api/auth/me", "/api/admin/users", "/api/admin/users/abc"}
	for _, p := range private {
		if isPublicAPIPath(p) {
			t.Fatalf("expected %s to require auth", p)
		}
	}
}
