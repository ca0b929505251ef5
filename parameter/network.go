package parameter

import "time"

// Stream server defaults
const (
	StreamAddress       = ":8080"
	StreamPath          = "/ws"
	StatsPath           = "/stats"
	StreamReadLimit     = 1 << 20
	StreamReadTimeout   = 60 * time.Second
	StreamWriteTimeout  = 10 * time.Second
	StreamPingInterval  = 25 * time.Second
	StreamSendQueueSize = 8

	// StreamEveryTicks broadcasts one snapshot every N simulation ticks
	StreamEveryTicks = 2
)
