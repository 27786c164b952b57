package runtimecfg

// SensitiveString is a string that redacts itself in logs and formatted
// output. Use Value() to get the underlying secret.
type SensitiveString string

func (s SensitiveString) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

func (s SensitiveString) GoString() string {
	return s.String()
}

func (s SensitiveString) Value() string {
	return string(s)
}

// Credentials authenticates against the sync server.
type Credentials struct {
	SecretKey SensitiveString `koanf:"secret_key" validate:"required"`
}

// Settings is the runtime configuration for commands that talk to the sync
// server. Build-only commands never load it.
type Settings struct {
	Hostport       string      `koanf:"hostport"    validate:"required,url"`
	Credentials    Credentials `koanf:"credentials"`
	EnvironmentTag string      `koanf:"environment" validate:"required"`
}

// Default returns the settings used when neither the environment nor an env
// file overrides them.
func Default() *Settings {
	return &Settings{
		Hostport:       "http://localhost:3003",
		EnvironmentTag: "dev",
	}
}
