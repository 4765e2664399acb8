package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

// One process-wide logger writing JSON lines to stdout. Request logging,
// audit events and startup messages all funnel through it so output stays
// line-oriented and machine-parseable.
var (
	initLogger sync.Once
	shared     *log.Logger
)

// Logger returns the process-wide line logger.
func Logger() *log.Logger {
	initLogger.Do(func() {
		shared = log.New(os.Stdout, "", 0)
	})
	return shared
}

// LogRequest marshals the given fields as one JSON log line. A marshal
// failure is reported as a log line itself rather than dropped.
func LogRequest(fields map[string]any) {
	line, err := json.Marshal(fields)
	if err != nil {
		Logger().Println(`{"ts":"error","level":"error","msg":"log marshal failed"}`)
		return
	}
	Logger().Println(string(line))
}
