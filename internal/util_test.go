package internal

import "testing"

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name  string
		host  string
		proto string
		want  string
	}{
		{"defaults", "", "", "https://localhost"},
		{"host only", "ada.example.com", "", "https://ada.example.com"},
		{"host with port", "127.0.0.1:8080", "http", "http://127.0.0.1:8080"},
		{"forwarded proto chain", "ada.example.com", "https, http", "https://ada.example.com"},
		{"malformed proto", "ada.example.com", "ht tp", "https://ada.example.com"},
		{"proto with separator", "ada.example.com", "http://", "https://ada.example.com"},
		{"host with path", "evil.com/x", "http", "http://localhost"},
		{"host with whitespace", "a b", "http", "http://localhost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BaseURL(tt.host, tt.proto); got != tt.want {
				t.Errorf("BaseURL(%q, %q) = %q, want %q", tt.host, tt.proto, got, tt.want)
			}
		})
	}
}

func TestEndpointURLs(t *testing.T) {
	if got := MessageURL("h:1", "http"); got != "http://h:1/message" {
		t.Errorf("MessageURL = %q", got)
	}
	if got := SSEURL("", ""); got != "https://localhost/sse" {
		t.Errorf("SSEURL = %q", got)
	}
}

func TestHasWhitespace(t *testing.T) {
	cases := map[string]bool{
		"":          false,
		"abc":       false,
		"a b":       true,
		"tab\there": true,
		"line\n":    true,
	}
	for in, want := range cases {
		if got := hasWhitespace(in); got != want {
			t.Errorf("hasWhitespace(%q) = %v, want %v", in, got, want)
		}
	}
}
