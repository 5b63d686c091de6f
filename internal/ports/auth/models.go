package auth

// Claims representa la identidad autenticada que entrega el identity provider.
// El core la trata como un token opaco: solo le importan UserID y Email.
type Claims struct {
	UserID string
	Email  string
}

// Authenticated indica si hay una identidad utilizable.
func (c Claims) Authenticated() bool {
	return c.UserID != ""
}
