package jail

// Decision is the outcome of authorizing a single intercepted call.
type Decision int

const (
	// Allow forwards the call to the genuine implementation.
	Allow Decision = iota

	// Deny synthesizes a "no such file or directory" failure without
	// touching the genuine implementation.
	Deny
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "invalid"
	}
}

// Decide is the authorization function: a pure function of the hide
// flag, the whitelist, and the resolved absolute path.
func Decide(hide bool, whitelist Whitelist, resolved string) Decision {
	if !hide {
		return Allow
	}
	if whitelist.Contains(resolved) {
		return Allow
	}
	return Deny
}
