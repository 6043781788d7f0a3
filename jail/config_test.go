package jail

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFromEnv(t *testing.T) {
	whitelistFile := filepath.Join(t.TempDir(), "whitelist.txt")
	if err := os.WriteFile(whitelistFile, []byte("/work/okfile\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		hide      string
		whitelist string
		wantHide  bool
		wantPaths int
		wantErr   string
	}{
		{
			name:     "no environment means inert",
			wantHide: false,
		},
		{
			name:     "any non-empty hide value activates",
			hide:     "1",
			wantHide: true,
		},
		{
			name:     "hide value is not parsed as a boolean",
			hide:     "no",
			wantHide: true,
		},
		{
			name:      "whitelist loaded when configured",
			hide:      "1",
			whitelist: whitelistFile,
			wantHide:  true,
			wantPaths: 1,
		},
		{
			name:      "whitelist without hide mode",
			whitelist: whitelistFile,
			wantHide:  false,
			wantPaths: 1,
		},
		{
			name:      "hide mode with missing whitelist file is fatal",
			hide:      "1",
			whitelist: "/nonexistent/whitelist.txt",
			wantErr:   "open whitelist",
		},
		{
			name:      "relative whitelist path rejected",
			hide:      "1",
			whitelist: "whitelist.txt",
			wantErr:   "absolute path",
		},
		{
			name:      "inert jail tolerates a missing whitelist file",
			whitelist: "/nonexistent/whitelist.txt",
			wantHide:  false,
			wantPaths: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvHide, tt.hide)
			t.Setenv(EnvWhitelist, tt.whitelist)

			config, err := FromEnv()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("FromEnv() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromEnv() error = %v", err)
			}
			if config.Hide != tt.wantHide {
				t.Errorf("Hide = %v, want %v", config.Hide, tt.wantHide)
			}
			if len(config.Whitelist) != tt.wantPaths {
				t.Errorf("whitelist has %d entries, want %d", len(config.Whitelist), tt.wantPaths)
			}
		})
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	first, err := Bootstrap()
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	second, err := Bootstrap()
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if first != second {
		t.Error("Bootstrap() returned distinct configurations across calls")
	}
}
