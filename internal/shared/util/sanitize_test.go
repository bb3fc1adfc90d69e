package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"protocol.pdf", "protocol.pdf", false},
		{" spaced.pdf ", "spaced.pdf", false},
		{"dir/inside.pdf", "dir_inside.pdf", false},
		{`win\inside.pdf`, "win_inside.pdf", false},
		{"a,b.pdf", "a_b.pdf", false},
		{"../../etc/passwd", "", true},
		{"   ", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("SanitizeFileName(%q) accepted as %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("SanitizeFileName(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
