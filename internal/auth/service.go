// Package auth issues the stable player identities the tables key on:
// registered accounts with password login, or one-off guest identities
// minted by the gateway.
package auth

// Service is the account/session contract consumed by the gateway and
// the HTTP handlers.
type Service interface {
	Register(username, password string) (accountID, sessionToken string, err error)
	Login(username, password string) (accountID, sessionToken string, err error)
	ResolveSession(token string) (accountID, username string, ok bool)
	Logout(token string)
	Close() error
}
