package auth

import (
	"strings"
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if err := CheckPassword(hash, "super-secret"); err != nil {
		t.Fatalf("expected password to match, got %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"
	claims := Claims{UserID: "u1", RoleID: "r1", RoleName: RoleAdmin, SessionID: "s1"}

	token, err := GenerateToken(secret, claims, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	parsed, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if parsed.UserID != claims.UserID || parsed.RoleID != claims.RoleID || parsed.RoleName != claims.RoleName || parsed.SessionID != claims.SessionID {
		t.Fatalf("claims mismatch: %+v", parsed)
	}
	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("s", Claims{UserID: "u1"}, -time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("s", token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestHashTokenDeterministic(t *testing.T) {
	if HashToken("a") != HashToken("a") {
		t.Fatal("expected deterministic hash")
	}
	if HashToken("a") == HashToken("b") {
		t.Fatal("expected different hashes")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid password", password: "Stronger123"},
		{name: "too short", password: "S1hort", wantErr: true},
		{name: "missing uppercase", password: "longpassword1", wantErr: true},
		{name: "missing lowercase", password: "LONGPASSWORD1", wantErr: true},
		{name: "missing number", password: "LongPassword", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestTemporaryPasswordIsStrong(t *testing.T) {
	for i := 0; i < 20; i++ {
		if err := ValidatePassword(TemporaryPassword()); err != nil {
			t.Fatalf("temporary password rejected: %v", err)
		}
	}
}

func TestBuildResetLink(t *testing.T) {
	tests := []struct {
		name      string
		baseURL   string
		token     string
		wantParts []string
	}{
		{name: "empty base url uses default", token: "abc", wantParts: []string{"http://localhost:5173/reset-password", "token=abc"}},
		{name: "custom host", baseURL: "https://work.example.com", token: "t1", wantParts: []string{"https://work.example.com/reset-password", "token=t1"}},
		{name: "custom path", baseURL: "https://work.example.com/app/", token: "xyz", wantParts: []string{"https://work.example.com/app/reset-password", "token=xyz"}},
		{name: "invalid base url falls back", baseURL: "not a url", token: "abc", wantParts: []string{"http://localhost:5173/reset-password"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildResetLink(tc.baseURL, tc.token)
			for _, part := range tc.wantParts {
				if !strings.Contains(got, part) {
					t.Fatalf("expected reset link %q to contain %q", got, part)
				}
			}
		})
	}
}

func TestBuildResetEmailMessage(t *testing.T) {
	link := "https://work.example.com/reset-password?token=abc"
	msg := BuildResetEmailMessage(link, 2*time.Hour)
	if !strings.Contains(msg, link) {
		t.Fatalf("expected email message to include reset link, got %q", msg)
	}
	if !strings.Contains(msg, "expires in 2 hour(s)") {
		t.Fatalf("expected email message to include ttl, got %q", msg)
	}
}

func TestRolePermissions(t *testing.T) {
	if !Allowed(RoleAdmin, PermTieringBulk) {
		t.Fatal("expected admin to run bulk tiering")
	}
	if Allowed(RoleProjectManager, PermTieringBulk) {
		t.Fatal("did not expect project manager to run bulk tiering")
	}
	if !Allowed(RoleFinance, PermPaymentsWrite) {
		t.Fatal("expected finance to write payments")
	}
	if Allowed(RoleFreelancer, PermPerformanceRead) {
		t.Fatal("did not expect freelancer to read all performance")
	}
	if !Allowed(RoleProjectManager, PermDashboardRead) || Allowed(RoleProjectManager, PermUsersManage) {
		t.Fatal("expected project manager to read the dashboard but not manage users")
	}
	for _, role := range Roles() {
		if _, ok := RolePermissions[role]; !ok {
			t.Fatalf("role %s has no permission set", role)
		}
	}
	known := map[string]bool{}
	for _, perm := range DefaultPermissions {
		known[perm] = true
	}
	for role, perms := range RolePermissions {
		for _, perm := range perms {
			if !known[perm] {
				t.Fatalf("role %s references unknown permission %s", role, perm)
			}
		}
	}
}
