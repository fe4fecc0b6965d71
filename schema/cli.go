package schema

import "time"

type Config struct {
	DataDir         string
	Port            string
	PublicUrl       string // origin the details/preview pages are served from
	MetricPort      string
	SessionStore    bool // keep tab state in memory for the process lifetime instead of bolt
	RpcTimeout      time.Duration
	CacheLifeWindow time.Duration
	PreviewInterval time.Duration
	RateLimit       int // requests per minute on the api group, 0 disables
}
