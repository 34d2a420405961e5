package constants

// Event publisher providers accepted by events.provider.
const (
	EventProviderNoop   = "noop"
	EventProviderLocal  = "local"
	EventProviderGoogle = "google"
	EventProviderKafka  = "kafka"
)

// EnvLocal is the env.env value of a developer machine.
const EnvLocal = "local"
