package types

// TargetState classifies what currently exists at a target path.
// It is derived from disk on every run and never stored.
type TargetState string

const (
	StateAbsent                 TargetState = "absent"
	StateSymlinkToExpected      TargetState = "symlink-expected"
	StateSymlinkToSameRepoOther TargetState = "symlink-same-repo"
	StateSymlinkToReplaceable   TargetState = "symlink-replaceable"
	StateSymlinkToOtherExternal TargetState = "symlink-external"
	StateSymlinkBroken          TargetState = "symlink-broken"
	StateRegularFileOrDir       TargetState = "regular"
)

// IsSymlink reports whether the state describes a symlink of any kind
func (s TargetState) IsSymlink() bool {
	switch s {
	case StateSymlinkToExpected, StateSymlinkToSameRepoOther, StateSymlinkToReplaceable,
		StateSymlinkToOtherExternal, StateSymlinkBroken:
		return true
	}
	return false
}

func (s TargetState) String() string {
	return string(s)
}
