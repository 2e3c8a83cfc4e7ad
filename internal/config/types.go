package config

// APIConfig points the client at the companion backend.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	Token          string `yaml:"token,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// UserConfig identifies the local user.
type UserConfig struct {
	ID       int    `yaml:"id"`
	Nickname string `yaml:"nickname"`
}

// CalendarConfig configures the local calendar store.
type CalendarConfig struct {
	DBPath string `yaml:"db_path"`
}

// Config represents the .companion/config.yaml file.
type Config struct {
	API      APIConfig      `yaml:"api"`
	User     UserConfig     `yaml:"user"`
	Calendar CalendarConfig `yaml:"calendar"`
	LogLevel string         `yaml:"log_level,omitempty"`
}
