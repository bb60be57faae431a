package config

type SecurityConfig interface {
	GetSessionSecret() string
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetSessionSecret returns the secret the cookie codec derives its
// encryption key from. Any long random string works; it is stretched
// with HKDF before use.
func (Security) GetSessionSecret() string {
	return GetEnv("SESSION_SECRET", "")
}
