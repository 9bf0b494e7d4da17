package result

// Availability is the three-way outcome of a username availability check.
// Unknown means the check could not be completed; callers must never treat
// it as Taken, so a transient failure cannot block a signup.
type Availability int

const (
	AvailabilityUnknown Availability = iota
	AvailabilityTaken
	AvailabilityAvailable
)

// String returns the wire value for the availability state.
func (a Availability) String() string {
	switch a {
	case AvailabilityAvailable:
		return "available"
	case AvailabilityTaken:
		return "taken"
	default:
		return "unknown"
	}
}

// MarshalText renders the availability as its wire value.
func (a Availability) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
