package domain

// DocState is the lifecycle state of an open document
type DocState int

const (
	StateClean DocState = iota
	StateDirty
	StatePendingSaveConfirmation
	StateClosed
)

func (s DocState) String() string {
	switch s {
	case StateClean:
		return "Clean"
	case StateDirty:
		return "Dirty"
	case StatePendingSaveConfirmation:
		return "PendingSaveConfirmation"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Document is an open tab bound to a backing file. New documents are
// backed by a file under the backups directory until saved elsewhere.
type Document struct {
	ID      string
	Path    string
	Label   string
	Content string
	Dirty   bool
	IsNew   bool
	State   DocState
}
