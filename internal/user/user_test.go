package user

import (
	"testing"
)

func TestAuthor_Override(t *testing.T) {
	t.Setenv(AuthorEnv, "  Tienda Acme ")

	if got := Author(); got != "Tienda Acme" {
		t.Errorf("Author() = %q, want %q", got, "Tienda Acme")
	}
}

func TestAuthor_FromAccount(t *testing.T) {
	t.Setenv(AuthorEnv, "")
	t.Setenv("USER", "cajero")

	// The OS account may or may not have a name; something is always found
	// when $USER is set
	if got := Author(); got == "" {
		t.Error("Author() should fall back to the account or $USER")
	}
}
