package secrets

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestAPITokenRoundTrip(t *testing.T) {
	keyring.MockInit()

	if tok, err := GetAPIToken("salarydash:api@localhost"); err != nil || tok != "" {
		t.Fatalf("unset token = %q, %v", tok, err)
	}
	if err := SetAPIToken("salarydash:api@localhost", "abc123"); err != nil {
		t.Fatal(err)
	}
	tok, err := TokenFunc("salarydash:api@localhost")()
	if err != nil || tok != "abc123" {
		t.Fatalf("token = %q, %v", tok, err)
	}
	if err := DeleteAPIToken("salarydash:api@localhost"); err != nil {
		t.Fatal(err)
	}
	if err := DeleteAPIToken("salarydash:api@localhost"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestAPITokenValidation(t *testing.T) {
	keyring.MockInit()

	if tok, err := GetAPIToken("  "); err != nil || tok != "" {
		t.Fatalf("empty account = %q, %v", tok, err)
	}
	if err := SetAPIToken("", "x"); !errors.Is(err, ErrNoAccount) {
		t.Fatalf("err = %v", err)
	}
	if err := SetAPIToken("acct", " "); err == nil {
		t.Fatal("expected error for empty token")
	}
}
