package config

// Config represents the entire client configuration file.
// It stores connection settings for the administration service and
// console preferences.
type Config struct {
	Version int      `yaml:"version"`
	Server  *Server  `yaml:"server,omitempty"`
	Console *Console `yaml:"console,omitempty"`
}

// Server holds connection settings for the administration service.
// Authentication is cookie-based and handled by the service; no
// credentials are ever stored in this file.
type Server struct {
	URL            string `yaml:"url"`                        // Base URL, e.g. "https://accounts-admin.corp.example"
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`  // Per-request timeout (default 15)
	InsecureTLS    bool   `yaml:"insecure_tls,omitempty"`     // Skip certificate verification (intranet self-signed)
}

// Console holds interactive console preferences.
type Console struct {
	DefaultDomain string `yaml:"default_domain,omitempty"` // Preselected search domain (overrides server ordering)
	AutoLogin     bool   `yaml:"auto_login"`               // Attempt silent login at startup
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Version: 1,
		Server: &Server{
			TimeoutSeconds: 15,
		},
		Console: &Console{
			AutoLogin: true,
		},
	}
}
