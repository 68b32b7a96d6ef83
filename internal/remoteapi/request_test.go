package remoteapi

import (
	"errors"
	"testing"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "plain https url",
			raw:  "https://smoke.example.com",
			want: "https://smoke.example.com",
		},
		{
			name: "trailing slash is stripped",
			raw:  "https://smoke.example.com/",
			want: "https://smoke.example.com",
		},
		{
			name: "surrounding whitespace is trimmed",
			raw:  "  http://10.0.0.5:5000 ",
			want: "http://10.0.0.5:5000",
		},
		{
			name:    "empty string",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			raw:     "   ",
			wantErr: true,
		},
		{
			name:    "missing scheme",
			raw:     "smoke.example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeBaseURL(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrNoBaseURL) {
					t.Fatalf("NormalizeBaseURL(%q) error = %v, want ErrNoBaseURL", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeBaseURL(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeBaseURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
