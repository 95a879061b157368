package config

import "time"

const (
	DefaultHTTPPort        = "8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultCLITimeout      = 10 * time.Second
	DefaultValidateBodyMax = 1 << 16
)
