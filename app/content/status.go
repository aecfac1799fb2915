// Package content implements the content record workflow: the status state
// machine, the lifecycle operations on single records, and the publish
// trigger coordination with the distribution pipe.
package content

import (
	"fmt"
)

// Status is the closed set of workflow states. The backing store holds the
// string form; internal logic switches exhaustively on this type.
type Status int

const (
	StatusPending Status = iota
	StatusApproved
	StatusPublishing
	StatusPublished
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusPublishing:
		return "Publishing"
	case StatusPublished:
		return "Published"
	case StatusFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ParseStatus converts the store's string form to a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "Pending":
		return StatusPending, nil
	case "Approved":
		return StatusApproved, nil
	case "Publishing":
		return StatusPublishing, nil
	case "Published":
		return StatusPublished, nil
	case "Failed":
		return StatusFailed, nil
	default:
		return 0, fmt.Errorf("unknown content status %q", s)
	}
}

// Terminal reports whether no further automated transition leaves s.
// Failed is terminal for the automation; only an explicit operator re-approve
// moves it back into the workflow.
func (s Status) Terminal() bool {
	return s == StatusPublished || s == StatusFailed
}

// CanTransition reports whether the workflow allows moving from s to next.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved
	case StatusApproved:
		return next == StatusPublishing
	case StatusPublishing:
		return next == StatusPublished || next == StatusFailed
	case StatusFailed:
		// Operator retry: back to Approved, never automatic.
		return next == StatusApproved
	default:
		return false
	}
}
