package cache

import "time"

const (
	DefaultTTL    = time.Hour
	DefaultH2HTTL = 24 * time.Hour
)

// TTLPolicy decides how long a result stays cached per endpoint.
type TTLPolicy struct {
	Default    time.Duration
	ByEndpoint map[string]time.Duration
}

func (p TTLPolicy) TTL(endpoint string) time.Duration {
	if ttl, ok := p.ByEndpoint[endpoint]; ok && ttl > 0 {
		return ttl
	}
	if p.Default > 0 {
		return p.Default
	}
	return DefaultTTL
}
