package utils

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

// Diagnostic severities written to the append-only log.
const (
	SeverityInfo    = "INFO"
	SeverityWarning = "WARNING"
	SeverityError   = "ERROR"
)

var (
	diagMu   sync.Mutex
	diagFile *os.File
)

// InitDiagnosticLog opens (or creates) the append-only diagnostic log file.
// Every reported failure in the system is also written here with a
// timestamp, severity and message.
func InitDiagnosticLog(path string) error {
	diagMu.Lock()
	defer diagMu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open diagnostic log: %w", err)
	}
	if diagFile != nil {
		if closeErr := diagFile.Close(); closeErr != nil {
			log.Printf("warning: failed to close previous diagnostic log: %v", closeErr)
		}
	}
	diagFile = f
	return nil
}

// CloseDiagnosticLog closes the diagnostic log file if one is open.
func CloseDiagnosticLog() {
	diagMu.Lock()
	defer diagMu.Unlock()

	if diagFile != nil {
		if err := diagFile.Close(); err != nil {
			log.Printf("warning: failed to close diagnostic log: %v", err)
		}
		diagFile = nil
	}
}

// Diag appends one timestamped line to the diagnostic log and mirrors it to
// the process log. When the file has not been initialized the entry only
// reaches the process log; diagnostics must never fail a render cycle.
func Diag(severity, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	log.Printf("[%s] %s", severity, message)

	diagMu.Lock()
	defer diagMu.Unlock()

	if diagFile == nil {
		return
	}
	line := fmt.Sprintf("%s - %s - %s\n", time.Now().Format("2006-01-02 15:04:05"), severity, message)
	if _, err := diagFile.WriteString(line); err != nil {
		log.Printf("warning: failed to write diagnostic log entry: %v", err)
	}
}
