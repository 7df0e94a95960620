package entitlement

import "errors"

// ErrIdentityUnavailable indicates the caller identity could not be
// established or its usage record could not be read. Terminal for the
// request; never retried.
var ErrIdentityUnavailable = errors.New("identity unavailable")
