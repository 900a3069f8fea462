package billing

// EntitlementStatus is the tagged result of an entitlement check. Provider
// responses are mapped to it at this boundary so downstream logic never
// inspects raw payload shapes; an unreachable or misconfigured provider maps
// to Unknown, which callers treat as "no active entitlement".
type EntitlementStatus string

const (
	EntitlementActive   EntitlementStatus = "active"
	EntitlementInactive EntitlementStatus = "inactive"
	EntitlementUnknown  EntitlementStatus = "unknown"
)

func (status EntitlementStatus) Active() bool {
	return status == EntitlementActive
}

// PurchaseResult reports the outcome of a purchase or restore attempt.
// Cancelled is a user action, not an error.
type PurchaseResult struct {
	Success   bool   `json:"success"`
	Cancelled bool   `json:"cancelled"`
	Error     string `json:"error,omitempty"`
}
