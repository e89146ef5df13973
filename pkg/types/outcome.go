package types

// OutcomeKind is the tagged result of reconciling one unit
type OutcomeKind string

const (
	OutcomeUnchanged           OutcomeKind = "unchanged"
	OutcomeCreated             OutcomeKind = "created"
	OutcomeReplaced            OutcomeKind = "replaced"
	OutcomeBackedUpAndReplaced OutcomeKind = "backed-up"
	OutcomeSkippedConflict     OutcomeKind = "skipped-conflict"
	OutcomeSkippedExternal     OutcomeKind = "skipped-external"
	OutcomeRendered            OutcomeKind = "rendered"
	OutcomeRenderUnchanged     OutcomeKind = "render-unchanged"
	OutcomeDryRunPreview       OutcomeKind = "dry-run"
	OutcomeFailed              OutcomeKind = "failed"
)

// Placed reports whether the unit is in its desired state after this outcome.
// Placed units are recorded in the manifest.
func (k OutcomeKind) Placed() bool {
	switch k {
	case OutcomeUnchanged, OutcomeCreated, OutcomeReplaced, OutcomeBackedUpAndReplaced,
		OutcomeRendered, OutcomeRenderUnchanged:
		return true
	}
	return false
}

// Mutates reports whether the outcome implies a filesystem write
func (k OutcomeKind) Mutates() bool {
	switch k {
	case OutcomeCreated, OutcomeReplaced, OutcomeBackedUpAndReplaced, OutcomeRendered:
		return true
	}
	return false
}

// Skipped reports whether the engine deliberately left the target alone
func (k OutcomeKind) Skipped() bool {
	return k == OutcomeSkippedConflict || k == OutcomeSkippedExternal
}

func (k OutcomeKind) String() string {
	return string(k)
}

// Outcome is what happened (or, under dry-run, what would happen) to one unit
type Outcome struct {
	Kind  OutcomeKind
	State TargetState

	// Planned is the would-be kind carried by a DryRunPreview
	Planned OutcomeKind

	// Reason explains failures and skips
	Reason string

	// BackupPath is set for BackedUpAndReplaced
	BackupPath string

	// LinkTarget is where an existing target symlink pointed
	LinkTarget string
}

// Effective returns the kind to judge the outcome by, looking through dry-run previews
func (o Outcome) Effective() OutcomeKind {
	if o.Kind == OutcomeDryRunPreview {
		return o.Planned
	}
	return o.Kind
}

// FailedOutcome builds a Failed outcome from an error
func FailedOutcome(state TargetState, err error) Outcome {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return Outcome{Kind: OutcomeFailed, State: state, Reason: reason}
}
