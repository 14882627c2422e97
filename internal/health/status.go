package health

// Status is the current verdict for a host. The string values are
// stable: they appear in the status API and in log lines consumed by
// the dashboard.
type Status string

const (
	// StatusUnknown means the host has never completed a check.
	StatusUnknown Status = "unknown"
	// StatusUp means the last check judged the host reachable.
	StatusUp Status = "up"
	// StatusDown means the last check judged the host unreachable.
	StatusDown Status = "down"
)
