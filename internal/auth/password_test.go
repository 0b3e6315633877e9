package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash must not equal the password")
	}
	if !CheckPassword(hash, "correct horse") {
		t.Error("expected password to match")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Error("expected mismatch for wrong password")
	}
}

func TestOpaqueTokens(t *testing.T) {
	for name, generate := range map[string]func() (string, string, error){
		"reset":   NewResetToken,
		"refresh": NewRefreshToken,
	} {
		t.Run(name, func(t *testing.T) {
			token, digest, err := generate()
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if len(token) != 64 {
				t.Errorf("expected 64 hex chars, got %d", len(token))
			}
			if digest == token {
				t.Error("digest must differ from token")
			}
			if HashToken(token) != digest {
				t.Error("expected digest to be reproducible from token")
			}

			other, _, _ := generate()
			if other == token {
				t.Error("expected distinct tokens")
			}
		})
	}
}
