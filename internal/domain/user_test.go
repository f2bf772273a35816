package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewUser(t *testing.T) {
	user := NewUser("  alice ", " Alice@Example.COM ", "hash")

	if user.Username != "alice" {
		t.Errorf("expected trimmed username, got %q", user.Username)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
	if user.Role != RoleUser {
		t.Errorf("expected default role user, got %q", user.Role)
	}
	if !user.IsActive {
		t.Error("expected new user to be active")
	}
	if !user.CanAuthenticate() {
		t.Error("expected new user to be able to authenticate")
	}

	user.IsActive = false
	if user.CanAuthenticate() {
		t.Error("expected deactivated user to be unable to authenticate")
	}
}

func TestUserPasswordHashNeverSerialized(t *testing.T) {
	user := NewUser("alice", "alice@example.com", "secret-hash")
	user.ID = 42

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "secret-hash") {
		t.Error("password hash leaked into JSON")
	}

	view, err := json.Marshal(user.Public())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(view), "secret-hash") {
		t.Error("password hash leaked into public view")
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "valid", username: "alice"},
		{name: "minimum length", username: "abc"},
		{name: "too short", username: "ab", wantErr: true},
		{name: "whitespace only", username: "   ", wantErr: true},
		{name: "too long", username: strings.Repeat("a", 256), wantErr: true},
		{name: "maximum length", username: strings.Repeat("a", 255)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid", email: "alice@example.com"},
		{name: "upper case accepted", email: "ALICE@EXAMPLE.COM"},
		{name: "missing at", email: "alice.example.com", wantErr: true},
		{name: "missing domain", email: "alice@", wantErr: true},
		{name: "empty", email: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("secret"); err != nil {
		t.Errorf("unexpected error for 6-char password: %v", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Error("expected error for 5-char password")
	}
	if err := ValidatePassword(""); err == nil {
		t.Error("expected error for empty password")
	}
}
