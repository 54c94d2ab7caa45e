package format

import "testing"

func TestStripAnsi(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no ansi", "hello", "hello"},
		{"single color", "\x1b[31mred\x1b[0m", "red"},
		{"bold compound", "\x1b[1;31;40mbold red\x1b[0m", "bold red"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripAnsi(tt.input); got != tt.want {
				t.Errorf("StripAnsi(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"ascii", "hello", 5},
		{"with ansi", "\x1b[31mred\x1b[0m", 3},
		{"wide chars", "日本語", 6},
		{"mixed", "Hello, 世界!", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayWidth(tt.input); got != tt.want {
				t.Errorf("DisplayWidth(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxWidth  int
		wantStr   string
		wantWidth int
	}{
		{"no truncation needed", "hello", 10, "hello", 5},
		{"exact fit", "hello", 5, "hello", 5},
		{"truncate ascii", "hello world", 8, "hello...", 8},
		{"very short max", "hello", 3, "...", 3},
		{"wide chars cut on boundary", "日本語です", 7, "日本...", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStr, gotWidth := TruncateToWidth(tt.input, tt.maxWidth)
			if gotStr != tt.wantStr {
				t.Errorf("TruncateToWidth(%q, %d) string = %q, want %q", tt.input, tt.maxWidth, gotStr, tt.wantStr)
			}
			if gotWidth != tt.wantWidth {
				t.Errorf("TruncateToWidth(%q, %d) width = %d, want %d", tt.input, tt.maxWidth, gotWidth, tt.wantWidth)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 2, 5); got != "ab   " {
		t.Errorf("PadRight = %q, want %q", got, "ab   ")
	}
	if got := PadRight("abcdef", 6, 5); got != "abcdef" {
		t.Errorf("PadRight should not trim, got %q", got)
	}
}
