package redlock

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// tokenLength is the fixed length of a lease's fencing value, matching
// the Redlock reference implementation's 32-character random string.
const tokenLength = 32

// randomToken returns a 32-character ASCII token drawn from a source
// unpredictable to other clients. google/uuid defaults to reading
// crypto/rand.Reader (see uuid.SetRand), so a v4 UUID is a CSPRNG
// output; stripping its four hyphens yields exactly 32 hex characters.
// A deterministic or clock-seeded PRNG would break mutual exclusion by
// letting a competing client guess a fencing value, so this must never
// be swapped for math/rand.
func randomToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	token := strings.ReplaceAll(id.String(), "-", "")
	if len(token) != tokenLength {
		// uuid.String() is always 36 bytes (32 hex + 4 hyphens); this
		// is a defensive check against a future library change, not a
		// reachable runtime condition today.
		return "", errTokenLength
	}
	return token, nil
}

// toMilliseconds converts d to integer milliseconds with saturating
// semantics: negative durations clamp to 0, and the result never
// exceeds the largest millisecond count a time.Duration can hold
// (math.MaxInt64 nanoseconds / 1e6).
func toMilliseconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	const maxDuration = time.Duration(1<<63 - 1)
	if d > maxDuration/time.Millisecond*time.Millisecond {
		return int64(maxDuration / time.Millisecond)
	}
	return int64(d / time.Millisecond)
}
