package config

const (
	DefaultHistoryPath = "review_history.json"
	DefaultCooldown    = "2160h" // 90 days
	DefaultMaxProducts = 5
	DefaultModel       = "gpt-4"
	DefaultTemperature = 0.7
	DefaultTimeout     = "60s"
	DefaultLogLevel    = "info"
)

// DefaultConfig returns a Config with all default values applied.
func DefaultConfig() *Config {
	return &Config{
		HistoryPath: DefaultHistoryPath,
		Selection: SelectionConfig{
			Cooldown:    DefaultCooldown,
			MaxProducts: DefaultMaxProducts,
		},
		Generation: GenerationConfig{
			Model:       DefaultModel,
			Temperature: DefaultTemperature,
			Timeout:     DefaultTimeout,
		},
		LogLevel: DefaultLogLevel,
	}
}
