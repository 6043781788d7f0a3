package jail

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func writeWhitelist(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "whitelist.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWhitelist(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		wantErr string
	}{
		{
			name:    "one path per line",
			content: "/work/okfile\n/etc/resolv.conf\n",
			want:    []string{"/etc/resolv.conf", "/work/okfile"},
		},
		{
			name:    "trailing blank line ignored",
			content: "/work/okfile\n\n",
			want:    []string{"/work/okfile"},
		},
		{
			name:    "no final newline",
			content: "/work/okfile",
			want:    []string{"/work/okfile"},
		},
		{
			name:    "empty file is an empty whitelist",
			content: "",
			want:    nil,
		},
		{
			name:    "crlf line endings",
			content: "/work/okfile\r\n",
			want:    []string{"/work/okfile"},
		},
		{
			name:    "relative entry rejected",
			content: "/work/okfile\nokfile\n",
			wantErr: "not an absolute path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeWhitelist(t, tt.content)
			whitelist, err := LoadWhitelist(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("LoadWhitelist() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadWhitelist() error = %v", err)
			}
			got := whitelist.Paths()
			sort.Strings(got)
			if len(got) != len(tt.want) {
				t.Fatalf("loaded %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("loaded %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestLoadWhitelistMissingFile(t *testing.T) {
	_, err := LoadWhitelist(filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Fatal("expected error for missing whitelist file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error does not wrap the underlying open failure: %v", err)
	}
}

func TestWhitelistContains(t *testing.T) {
	whitelist := Whitelist{"/work/okfile": {}}

	if !whitelist.Contains("/work/okfile") {
		t.Error("exact match not found")
	}
	for _, path := range []string{"/work", "/work/okfile/", "/work/OKFILE", "/work/okfile2", ""} {
		if whitelist.Contains(path) {
			t.Errorf("Contains(%q) = true, want false", path)
		}
	}
}
