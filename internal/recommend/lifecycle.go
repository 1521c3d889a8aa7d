package recommend

import (
	"fmt"
	"time"

	"github.com/jgoulah/energytrack/pkg/models"
)

// Validity sets how long a recommendation stays actionable after creation
const Validity = 30 * 24 * time.Hour

// InvalidTransitionError reports a rejected status change
type InvalidTransitionError struct {
	From models.Status
	To   models.Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition recommendation from %s to %s", e.From, e.To)
}

// transitions maps each status to the set it may move to. implemented and
// dismissed are terminal.
var transitions = map[models.Status][]models.Status{
	models.StatusPending:     {models.StatusViewed, models.StatusImplemented, models.StatusDismissed},
	models.StatusViewed:      {models.StatusImplemented, models.StatusDismissed},
	models.StatusImplemented: {},
	models.StatusDismissed:   {},
}

// Transition applies a status change to a recommendation, stamping
// ImplementedAt when the new status is implemented. Disallowed transitions
// return an *InvalidTransitionError and leave the input unchanged.
func Transition(rec models.Recommendation, to models.Status, now time.Time) (models.Recommendation, error) {
	allowed := false
	for _, s := range transitions[rec.Status] {
		if s == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return rec, &InvalidTransitionError{From: rec.Status, To: to}
	}

	rec.Status = to
	if to == models.StatusImplemented {
		rec.ImplementedAt = now
	}
	rec.UpdatedAt = now
	return rec, nil
}

// Expired reports whether a recommendation's validity window has passed.
// Expired pending/viewed recommendations become eligible for deletion by the
// cleanup sweep; they are never auto-transitioned.
func Expired(rec models.Recommendation, now time.Time) bool {
	return now.After(rec.ExpiresAt)
}

// FromDraft materializes a draft as a persisted-shape recommendation owned by
// user, created at now
func FromDraft(d models.Draft, id, user string, now time.Time) models.Recommendation {
	return models.Recommendation{
		ID:          id,
		User:        user,
		Type:        d.Type,
		Title:       d.Title,
		Description: d.Description,
		Priority:    d.Priority,
		Status:      models.StatusPending,
		Impact:      d.Impact,
		Actions:     d.Actions,
		Confidence:  d.Confidence,
		DataPoints:  d.DataPoints,
		WindowStart: d.WindowStart,
		WindowEnd:   d.WindowEnd,
		ExpiresAt:   now.Add(Validity),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
