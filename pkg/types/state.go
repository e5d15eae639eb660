package types

// State is a position in the installation lifecycle.
//
//	NotInstalled -> Installed -> Removed   (uninstall)
//	                          -> Archived  (uninstall to a save location)
//	                          -> Degraded  (uninstall failed part way)
//
// A failed install leaves the application NotInstalled.
type State string

const (
	StateNotInstalled State = "not-installed"
	StateInstalled    State = "installed"
	StateRemoved      State = "removed"
	StateArchived     State = "archived"
	StateDegraded     State = "degraded"
)

// IsTerminal reports whether no lifecycle transition leaves the state.
func (s State) IsTerminal() bool {
	return s == StateRemoved || s == StateArchived
}

func (s State) String() string {
	return string(s)
}
