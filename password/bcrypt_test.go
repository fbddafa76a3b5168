package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	b, err := NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt failed: %v", err)
	}

	hash, err := b.Hash("correct-password-123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if !b.Verify("correct-password-123", hash) {
		t.Fatal("correct password rejected")
	}
	if b.Verify("wrong-password", hash) {
		t.Fatal("wrong password accepted")
	}
	if b.Verify("correct-password-123", "not-a-bcrypt-hash") {
		t.Fatal("malformed hash verified")
	}
	if b.Verify("", hash) {
		t.Fatal("empty password accepted")
	}
}

func TestNewBcryptCostBounds(t *testing.T) {
	if _, err := NewBcrypt(0); err != nil {
		t.Errorf("zero cost must select the default, got %v", err)
	}
	if _, err := NewBcrypt(bcrypt.MaxCost + 1); err == nil {
		t.Error("out-of-range cost accepted")
	}
	if _, err := NewBcrypt(2); err == nil {
		t.Error("below-minimum cost accepted")
	}
}
