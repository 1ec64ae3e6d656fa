// File: services/complaint/transition.go
package complaint

import (
	"fmt"
	"time"

	"mauryaelectronics/models"
)

// TransitionEffect is the full outcome of one status transition: the fields to
// set and the single history entry to append. Every mutation path (create,
// update, status patch, batch) derives its persistence payload from this one
// value, so timing logic lives in exactly one place.
type TransitionEffect struct {
	Status        string
	OpenedAt      *time.Time // set when non-nil
	ClosedAt      *time.Time // set together with TimeToCloseMs
	TimeToCloseMs *int64
	ClearClosure  bool // clear closedAt and timeToCloseMs
	History       models.StatusHistoryEntry
}

// ApplyTransition computes the effect of moving current to newStatus at `now`.
// It never mutates current.
//
// Rules:
//   - any status is reachable from any other; a no-op change still appends a
//     history entry but leaves timing untouched
//   - entering open sets openedAt only if unset (re-opening keeps the original
//     open time, so the close clock is cumulative across reopen cycles) and
//     always discards previous closure timing
//   - entering closed stamps closedAt, backfills openedAt from the record's
//     creation time when missing, and recomputes timeToCloseMs
//   - a computed negative duration is rejected, never persisted
func ApplyTransition(current *models.Complaint, newStatus, by, note string, now time.Time) (*TransitionEffect, error) {
	if !models.ValidStatus(newStatus) {
		return nil, NewInvalidArgument(fmt.Sprintf("invalid status %q", newStatus))
	}

	eff := &TransitionEffect{
		Status: newStatus,
		History: models.StatusHistoryEntry{
			Status: newStatus,
			At:     now,
			By:     by,
			Note:   note,
		},
	}

	if current.Status == newStatus {
		// Re-affirmation: audit only.
		return eff, nil
	}

	switch newStatus {
	case models.StatusOpen:
		if current.OpenedAt == nil {
			t := now
			eff.OpenedAt = &t
		}
		eff.ClearClosure = true

	case models.StatusClosed:
		closedAt := now
		openedAt := current.OpenedAt
		if openedAt == nil {
			backfill := current.CreatedAt
			if backfill.IsZero() {
				backfill = now
			}
			openedAt = &backfill
			eff.OpenedAt = &backfill
		}
		duration := closedAt.Sub(*openedAt).Milliseconds()
		if duration < 0 {
			return nil, NewBusinessRule(fmt.Sprintf(
				"closing at %s would precede opened_at %s", closedAt.Format(time.RFC3339), openedAt.Format(time.RFC3339)))
		}
		eff.ClosedAt = &closedAt
		eff.TimeToCloseMs = &duration

	default: // cancelled, pending_parts
		if current.Status == models.StatusClosed {
			eff.ClearClosure = true
		}
	}

	return eff, nil
}

// DocumentSet renders the effect as the field map a $set-style update needs.
// The history entry is carried separately since it is a $push, not a $set.
func (e *TransitionEffect) DocumentSet() map[string]interface{} {
	set := map[string]interface{}{"status": e.Status}
	if e.OpenedAt != nil {
		set["openedAt"] = *e.OpenedAt
	}
	if e.ClearClosure {
		set["closedAt"] = nil
		set["timeToCloseMs"] = nil
	}
	if e.ClosedAt != nil {
		set["closedAt"] = *e.ClosedAt
		set["timeToCloseMs"] = *e.TimeToCloseMs
	}
	return set
}

// ApplyTo folds the effect into an in-memory complaint, used on the create
// path before the first insert and by tests.
func (e *TransitionEffect) ApplyTo(c *models.Complaint) {
	c.Status = e.Status
	if e.OpenedAt != nil {
		c.OpenedAt = e.OpenedAt
	}
	if e.ClearClosure {
		c.ClosedAt = nil
		c.TimeToCloseMs = nil
	}
	if e.ClosedAt != nil {
		c.ClosedAt = e.ClosedAt
		c.TimeToCloseMs = e.TimeToCloseMs
	}
	c.StatusHistory = append(c.StatusHistory, e.History)
}
