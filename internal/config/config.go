package config

// Config represents the complete codegraph configuration.
// It can be loaded from .codegraph/config.yml with environment variable overrides.
type Config struct {
	Build Build `yaml:"build" mapstructure:"build"`
	Query Query `yaml:"query" mapstructure:"query"`
}

// Build configures graph construction.
type Build struct {
	Languages   []string `yaml:"languages" mapstructure:"languages"`       // languages to parse; empty means all supported
	JavaBackend string   `yaml:"java_backend" mapstructure:"java_backend"` // "treesitter" or "cst"
	Ignore      []string `yaml:"ignore" mapstructure:"ignore"`             // glob patterns to skip during discovery
}

// Query configures query defaults.
type Query struct {
	DefaultNeighbors int `yaml:"default_neighbors" mapstructure:"default_neighbors"` // hop count for canned slices
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Build: Build{
			Languages:   nil,
			JavaBackend: "treesitter",
			Ignore: []string{
				"**/target/**",
				"**/build/**",
				"**/__pycache__/**",
				"**/.venv/**",
				"**/node_modules/**",
				"**/*.min.js",
			},
		},
		Query: Query{
			DefaultNeighbors: 1,
		},
	}
}
