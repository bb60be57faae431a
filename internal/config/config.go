package config

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	AuthServiceConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
	IsProduction() bool
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	AuthService
}

func New() Config {
	return mainConfig{}
}
