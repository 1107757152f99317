package config

import "time"

const (
	DefaultHTTPPort         = "8000"
	DefaultShutdownTimeout  = 10 * time.Second
	DefaultRequestTimeout   = 4 * time.Second
	DefaultBatchConcurrency = 4
	DefaultMaxBatchSymbols  = 50
	DefaultRSIPeriod        = 14
	DefaultResolutionsLimit = 50
	DefaultRecordQueueSize  = 256
	DefaultPGMaxConns       = 5
	DefaultPGMinConns       = 1
	DefaultStartupWait      = 15 * time.Second
	DefaultTokenTTL         = 24 * time.Hour
)
