package output

import "time"

// ConfigPort reads typed settings. Missing or malformed values fall back to
// the supplied default.
type ConfigPort interface {
	Get(key string) string
	GetDefault(key, defaultValue string) string
	Lookup(key string) (string, bool)
	GetBool(key string, defaultValue bool) bool
	GetInt(key string, defaultValue int) int
	GetFloat(key string, defaultValue float64) float64
	GetDuration(key string, defaultValue time.Duration) time.Duration
}
