package entitlements

import "github.com/readcircle/readcircle-sdk/pkg/serrors"

// ErrComputationFailed wraps calculator failures. Cache IO failures are never
// surfaced as errors; they degrade to misses.
var ErrComputationFailed = serrors.NewError(
	"ENTITLEMENTS_COMPUTATION_FAILED",
	"entitlement computation failed",
	"Entitlements.ComputationFailed",
)

func computationError(userID string, cause error) error {
	return ErrComputationFailed.
		WithTemplateData(map[string]string{"userId": userID}).
		WithCause(cause)
}
