package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "clinic"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"
	DefaultEnvFile  = ".env"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB
	DefaultCORSOrigins    = "http://localhost:5173"

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultStoreReadTimeout  = 5 * time.Second
	DefaultStoreWriteTimeout = 5 * time.Second

	DefaultClinicTimeZone     = "UTC"
	DefaultSlotDayStart       = "09:00"
	DefaultSlotDayEnd         = "21:00"
	DefaultSlotGranularityMin = 60
	DefaultSlotLockTTL        = 10 * time.Second
	DefaultPhoneRegion        = "US"

	DefaultJWTTTL = 12 * time.Hour

	DefaultKafkaEnabled = false

	DefaultPaginationLimit = 100
	MinPaginationLimit     = 10
)
