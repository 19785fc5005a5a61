package instance

import "os"

// GetID returns the process instance identifier. PAINEL_INSTANCE_ID wins,
// then the platform's DYNO name, then fallback.
func GetID(fallback string) string {
	for _, key := range []string{"PAINEL_INSTANCE_ID", "DYNO"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return fallback
}
