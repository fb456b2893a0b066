package domain

// Config mirrors ~/.rxdbg/config.yaml.
type Config struct {
	ConfigFormatVersion string          `yaml:"config_format_version" koanf:"config_format_version"`
	Matcher             MatcherSettings `yaml:"matcher" koanf:"matcher"`
	History             HistorySettings `yaml:"history" koanf:"history"`
	Server              ServerSettings  `yaml:"server" koanf:"server"`
	Log                 LogSettings     `yaml:"log" koanf:"log"`
}

// MatcherSettings selects the regex engine and its flags.
type MatcherSettings struct {
	Engine     string `yaml:"engine" koanf:"engine"`
	IgnoreCase bool   `yaml:"ignore_case" koanf:"ignore_case"`
	Multiline  bool   `yaml:"multiline" koanf:"multiline"`
	DotAll     bool   `yaml:"dot_all" koanf:"dot_all"`
	// Timeout bounds a single search on backtracking engines. Go duration syntax.
	Timeout string `yaml:"timeout" koanf:"timeout"`
}

// Options converts the flag toggles into engine options.
func (m MatcherSettings) Options() MatchOptions {
	return MatchOptions{IgnoreCase: m.IgnoreCase, Multiline: m.Multiline, DotAll: m.DotAll}
}

// HistorySettings configures where and how test runs are recorded.
type HistorySettings struct {
	Enabled         bool   `yaml:"enabled" koanf:"enabled"`
	Backend         string `yaml:"backend" koanf:"backend"`
	Path            string `yaml:"path" koanf:"path"`
	Key             string `yaml:"key" koanf:"key"`
	TimestampLayout string `yaml:"timestamp_layout" koanf:"timestamp_layout"`
	ListLimit       int    `yaml:"list_limit" koanf:"list_limit"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Host string `yaml:"host" koanf:"host"`
	Port int    `yaml:"port" koanf:"port"`
}

// LogSettings configures the structured logger.
type LogSettings struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}
