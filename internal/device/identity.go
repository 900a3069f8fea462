package device

import (
	"os"
	"strings"

	"github.com/lunaselene/solace/internal/security"
)

// FallbackID is used when no identifier can be resolved or persisted. Trial
// accounting still works for the session; it just cannot survive the
// platform failing to provide stable storage.
const FallbackID = "unknown-device"

const generatedIDLength = 24

// ResolveID returns a stable per-install identifier, best effort:
// an explicit override wins, then an identifier persisted in idFile from a
// previous run, then a freshly generated one written to idFile. Only when
// the file can neither be read nor written does the fallback constant apply.
func ResolveID(override string, idFile string) string {
	if trimmed := strings.TrimSpace(override); trimmed != "" {
		return trimmed
	}
	if idFile == "" {
		return FallbackID
	}

	if raw, err := os.ReadFile(idFile); err == nil {
		if stored := strings.TrimSpace(string(raw)); stored != "" {
			return stored
		}
	}

	generated, err := security.RandomString(generatedIDLength, security.DeviceIDAlphabet)
	if err != nil {
		return FallbackID
	}
	if err := os.WriteFile(idFile, []byte(generated+"\n"), 0o600); err != nil {
		return FallbackID
	}
	return generated
}
