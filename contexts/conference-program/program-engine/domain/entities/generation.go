package entities

import "time"

type GenerationKind string

const (
	GenerationKindBulkAssignments GenerationKind = "bulk_assignments"
	GenerationKindProgram         GenerationKind = "program"
)

func (k GenerationKind) Valid() bool {
	return k == GenerationKindBulkAssignments || k == GenerationKindProgram
}

// Generation counts destructive replace runs per event and kind. Number is
// zero until the first run.
type Generation struct {
	EventID     string
	Kind        GenerationKind
	Number      int64
	RecordCount int
	ReplacedBy  string
	ReplacedAt  time.Time
}

type NotificationKind string

const (
	NotificationKindAssignment   NotificationKind = "assignment"
	NotificationKindReassignment NotificationKind = "reassignment"
)

type Notification struct {
	UserID  string
	Kind    NotificationKind
	Title   string
	Message string
	Link    string
}
