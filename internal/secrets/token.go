package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the dashboard's secrets in the OS keychain.
	KeyringService = "salarydash"
)

var ErrNoAccount = errors.New("keyring account name is empty")

// GetAPIToken returns the data API token stored for account. An empty
// account means the data API needs no token.
func GetAPIToken(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", nil
	}
	tok, err := keyring.Get(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(tok), nil
}

func SetAPIToken(account, token string) error {
	if strings.TrimSpace(account) == "" {
		return ErrNoAccount
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, account, token)
}

func DeleteAPIToken(account string) error {
	if strings.TrimSpace(account) == "" {
		return ErrNoAccount
	}
	err := keyring.Delete(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// TokenFunc binds an account so the source client can look the token up on
// every request.
func TokenFunc(account string) func() (string, error) {
	return func() (string, error) { return GetAPIToken(account) }
}
