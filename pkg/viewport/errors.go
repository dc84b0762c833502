package viewport

// CapabilityError reports that a rendering context could not be
// created. It is not fatal: the caller switches to the textual
// fallback view instead.
type CapabilityError struct {
	Reason string
}

// Error implements the error interface
func (e *CapabilityError) Error() string {
	return "rendering unavailable: " + e.Reason
}
