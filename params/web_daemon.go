package params

import "time"

// ListenerConfig is passed to net.Listen; Network is "tcp" or "unix".
type ListenerConfig struct {
	Network string
	Address string
}

type WebDaemonConfig struct {
	ListenerConfig
	DataDir string

	// ResultTTL is how long processed tracks are served from memory.
	ResultTTL time.Duration

	// MaxBodyBytes limits upload size.
	MaxBodyBytes int64
}

func DefaultWebListenerConfig() ListenerConfig {
	return ListenerConfig{
		Network: "tcp",
		Address: "localhost:3000",
	}
}

func DefaultWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		DataDir:        DatadirRoot,
		ListenerConfig: DefaultWebListenerConfig(),
		ResultTTL:      CacheResultTTL,
		MaxBodyBytes:   64 << 20,
	}
}

func DefaultTestWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		DataDir: "",
		ListenerConfig: ListenerConfig{
			Network: "tcp",
			Address: "localhost:3333",
		},
		ResultTTL:    time.Minute,
		MaxBodyBytes: 1 << 20,
	}
}

// WebTokenEnv names the environment variable holding the upload token.
const WebTokenEnv = "CATSEG_TOKEN"
