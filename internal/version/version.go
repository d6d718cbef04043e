// Package version provides the flashmock version string.
// The version is set at build time via -ldflags.
package version

// Version is the current flashmock version.
// Override at build time: go build -ldflags "-X github.com/flashdb/flashmock/internal/version.Version=1.1.0"
var Version = "1.0.0"

// RedisCompat is the Redis version INFO reports, for clients that gate
// features on it.
const RedisCompat = "6.2.0"

// BuildTime is the build timestamp.
// Override at build time: go build -ldflags "-X github.com/flashdb/flashmock/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var BuildTime = "unknown"
