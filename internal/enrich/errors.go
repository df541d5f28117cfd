package enrich

import "errors"

// ErrDraftingUnavailable indicates no section-drafting provider is configured.
var ErrDraftingUnavailable = errors.New("section drafting is not configured")
