package audio

import (
	"github.com/777genius/audiocycle/internal/logging"
)

// policyConfig is the one operation used from the endpoint policy object
type policyConfig interface {
	SetDefaultEndpoint(id string, role Role) error
	Release()
}

// binder creates a policy object. Its errors are permanent for this OS build.
type binder func() (policyConfig, error)

// commit sets id as the default endpoint for General, Multimedia and
// Communications, in that order. The first failing role aborts the commit;
// roles set before it stay set.
func commit(bind binder, id string) error {
	pc, err := bind()
	if err != nil {
		return &BindError{Err: err}
	}
	defer pc.Release()

	for _, role := range commitOrder {
		if err := pc.SetDefaultEndpoint(id, role); err != nil {
			// Earlier roles are not rolled back, so the OS is now split between devices.
			return &CommitError{Role: role, Err: err}
		}
		logging.Debug("Default endpoint set: role=%s id=%s", role, id)
	}

	return nil
}
