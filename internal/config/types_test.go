package config

import (
	"path/filepath"
	"testing"
)

func TestDiaryConfig_Paths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name          string
		cfg           DiaryConfig
		wantDatabase  string
		wantWorkspace string
	}{
		{
			name:          "relative to root",
			cfg:           DiaryConfig{Root: "~/diary", Database: "diary.db", Workspace: "workspace"},
			wantDatabase:  filepath.Join(home, "diary", "diary.db"),
			wantWorkspace: filepath.Join(home, "diary", "workspace"),
		},
		{
			name:          "absolute overrides root",
			cfg:           DiaryConfig{Root: "/srv/diary", Database: "/var/db/diary.db", Workspace: "~/edit"},
			wantDatabase:  "/var/db/diary.db",
			wantWorkspace: filepath.Join(home, "edit"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DatabasePath(); got != tt.wantDatabase {
				t.Errorf("DatabasePath() = %q, want %q", got, tt.wantDatabase)
			}
			if got := tt.cfg.WorkspacePath(); got != tt.wantWorkspace {
				t.Errorf("WorkspacePath() = %q, want %q", got, tt.wantWorkspace)
			}
		})
	}
}

func TestEncryptionConfig_ResolvePassword(t *testing.T) {
	t.Setenv("DIARY_TEST_PASSWORD", "from-env")

	inline := "inline"
	empty := ""

	tests := []struct {
		name string
		cfg  EncryptionConfig
		want string
	}{
		{"inline wins", EncryptionConfig{Password: &inline, PasswordEnv: "DIARY_TEST_PASSWORD"}, "inline"},
		{"empty inline falls back", EncryptionConfig{Password: &empty, PasswordEnv: "DIARY_TEST_PASSWORD"}, "from-env"},
		{"env only", EncryptionConfig{PasswordEnv: "DIARY_TEST_PASSWORD"}, "from-env"},
		{"nothing set", EncryptionConfig{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolvePassword(); got != tt.want {
				t.Errorf("ResolvePassword() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewDefaultConfig_IsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := Validate(&cfg); err != nil {
		t.Errorf("Validate(NewDefaultConfig()) = %v, want nil", err)
	}
}
