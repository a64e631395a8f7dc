package ports

import "time"

// Metrics receives operational counters from the pipeline and the HTTP layer
type Metrics interface {
	RecordHTTPRequest(status int, duration time.Duration)
	RecordWebSocketConnection()
	RecordGeneration(duration time.Duration, err error)
	RecordExport(format string, duration time.Duration, err error)
	// Status returns a JSON-friendly report of the counters
	Status() map[string]interface{}
}
