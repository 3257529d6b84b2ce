package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"https kept", "https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"host lowercased", "https://CDN.Example.com/A.jpg", "https://cdn.example.com/A.jpg"},
		{"scheme lowercased", "HTTP://example.com/x", "http://example.com/x"},
		{"trailing slash removed", "https://example.com/photos/", "https://example.com/photos"},
		{"fragment dropped", "https://example.com/a.jpg#top", "https://example.com/a.jpg"},
		{"surrounding whitespace", "  https://example.com/a.jpg  ", "https://example.com/a.jpg"},
		{"relative path rejected", "/images/a.jpg", ""},
		{"ftp rejected", "ftp://example.com/a.jpg", ""},
		{"javascript rejected", "javascript:alert(1)", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.input); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeURLs(t *testing.T) {
	got := NormalizeURLs([]string{
		"https://example.com/a.jpg",
		"https://EXAMPLE.com/a.jpg",
		"",
		"not a url",
		"https://example.com/b.jpg",
	})
	want := []string{"https://example.com/a.jpg", "https://example.com/b.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeURLs() = %v, want %v", got, want)
	}
}

func TestNormalizeStringSlice_Empty(t *testing.T) {
	got := NormalizeStringSlice(nil, TrimAndNormalize)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}
