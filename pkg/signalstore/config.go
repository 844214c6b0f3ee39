package signalstore

import "time"

const (
	// DefaultKeyPrefix namespaces device records in Redis.
	DefaultKeyPrefix = "mssession:device:"

	// DefaultWriteTimeout bounds a Recorder write.
	DefaultWriteTimeout = 100 * time.Millisecond
)

// Driver selects the Store implementation.
type Driver string

const (
	DriverNone   Driver = "none"
	DriverMemory Driver = "memory"
	DriverRedis  Driver = "redis"
)

// Config holds signal store settings
type Config struct {
	// Driver is none, memory or redis
	Driver Driver `env:"SIGNALSTORE_DRIVER" envDefault:"memory"`

	// KeyPrefix namespaces Redis keys
	KeyPrefix string `env:"SIGNALSTORE_KEY_PREFIX" envDefault:"mssession:device:"`

	// MemoryCapacity bounds the in-process store
	MemoryCapacity int `env:"SIGNALSTORE_MEMORY_CAPACITY" envDefault:"10000"`

	// TTL keeps a record alive after the last write. It should exceed the session timeout.
	TTL time.Duration `env:"SIGNALSTORE_TTL" envDefault:"1h"`

	// ReadTimeout bounds the store lookup made while resolving a pageview
	ReadTimeout time.Duration `env:"SIGNALSTORE_READ_TIMEOUT" envDefault:"50ms"`

	// WriteTimeout bounds the Recorder write made after a pageview resolves
	WriteTimeout time.Duration `env:"SIGNALSTORE_WRITE_TIMEOUT" envDefault:"100ms"`

	// Persist enables the Recorder. Leave it off until the visitor has consented.
	Persist bool `env:"SIGNALSTORE_PERSIST" envDefault:"false"`
}

// DefaultConfig returns default signal store configuration
func DefaultConfig() Config {
	return Config{
		Driver:         DriverMemory,
		KeyPrefix:      DefaultKeyPrefix,
		MemoryCapacity: 10_000,
		TTL:            time.Hour,
		ReadTimeout:    50 * time.Millisecond,
		WriteTimeout:   DefaultWriteTimeout,
	}
}
