package recommend_test

import (
	"testing"
	"time"

	"github.com/jgoulah/energytrack/internal/recommend"
	"github.com/jgoulah/energytrack/pkg/models"
	"github.com/stretchr/testify/require"
)

func pendingRec(createdAt time.Time) models.Recommendation {
	return recommend.FromDraft(models.Draft{
		Type:       models.TypeCostOptimization,
		Title:      "Reduce Energy Costs",
		Priority:   models.PriorityMedium,
		Confidence: 0.75,
	}, "rec-1", "acme", createdAt)
}

func TestTransition_PendingToViewed(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := pendingRec(now)

	viewed, err := recommend.Transition(rec, models.StatusViewed, now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, models.StatusViewed, viewed.Status)
	require.True(t, viewed.ImplementedAt.IsZero())
}

func TestTransition_ImplementedStampsDate(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := pendingRec(now)

	viewed, err := recommend.Transition(rec, models.StatusViewed, now)
	require.NoError(t, err)

	later := now.Add(48 * time.Hour)
	done, err := recommend.Transition(viewed, models.StatusImplemented, later)
	require.NoError(t, err)
	require.Equal(t, models.StatusImplemented, done.Status)
	require.True(t, done.ImplementedAt.Equal(later))
	require.True(t, done.UpdatedAt.Equal(later))
}

func TestTransition_PendingMaySkipViewed(t *testing.T) {
	now := time.Now()
	rec := pendingRec(now)

	done, err := recommend.Transition(rec, models.StatusImplemented, now)
	require.NoError(t, err)
	require.Equal(t, models.StatusImplemented, done.Status)

	dismissed, err := recommend.Transition(pendingRec(now), models.StatusDismissed, now)
	require.NoError(t, err)
	require.Equal(t, models.StatusDismissed, dismissed.Status)
}

func TestTransition_TerminalStatesRejectEverything(t *testing.T) {
	now := time.Now()

	for _, terminal := range []models.Status{models.StatusImplemented, models.StatusDismissed} {
		rec := pendingRec(now)
		rec.Status = terminal

		for _, target := range []models.Status{
			models.StatusPending, models.StatusViewed,
			models.StatusImplemented, models.StatusDismissed,
		} {
			_, err := recommend.Transition(rec, target, now)
			var terr *recommend.InvalidTransitionError
			require.ErrorAs(t, err, &terr, "from %s to %s", terminal, target)
			require.Equal(t, terminal, terr.From)
			require.Equal(t, target, terr.To)
		}
	}
}

func TestTransition_NoBackwardsMoves(t *testing.T) {
	now := time.Now()
	rec := pendingRec(now)
	rec.Status = models.StatusViewed

	_, err := recommend.Transition(rec, models.StatusPending, now)
	var terr *recommend.InvalidTransitionError
	require.ErrorAs(t, err, &terr)

	_, err = recommend.Transition(rec, models.StatusViewed, now)
	require.ErrorAs(t, err, &terr)
}

func TestTransition_RejectedTransitionLeavesRecordUnchanged(t *testing.T) {
	now := time.Now()
	rec := pendingRec(now)
	rec.Status = models.StatusDismissed

	got, err := recommend.Transition(rec, models.StatusImplemented, now.Add(time.Hour))
	require.Error(t, err)
	require.Equal(t, rec, got)
}

func TestExpired(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rec := pendingRec(createdAt)

	require.True(t, rec.ExpiresAt.Equal(createdAt.Add(recommend.Validity)))
	require.False(t, recommend.Expired(rec, createdAt.AddDate(0, 0, 29)))
	require.True(t, recommend.Expired(rec, createdAt.AddDate(0, 0, 31)))
}

func TestFromDraft(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	draft := models.Draft{
		Type:        models.TypeEnergyMix,
		Title:       "Increase Renewable Energy Usage",
		Priority:    models.PriorityHigh,
		Impact:      models.Impact{CostSavings: 42},
		Confidence:  0.8,
		DataPoints:  12,
		WindowStart: now.AddDate(0, 0, -30),
		WindowEnd:   now,
	}

	rec := recommend.FromDraft(draft, "rec-9", "acme", now)
	require.Equal(t, "rec-9", rec.ID)
	require.Equal(t, "acme", rec.User)
	require.Equal(t, models.StatusPending, rec.Status)
	require.Equal(t, draft.Impact, rec.Impact)
	require.Equal(t, 12, rec.DataPoints)
	require.True(t, rec.CreatedAt.Equal(now))
	require.True(t, rec.ExpiresAt.Equal(now.Add(recommend.Validity)))
}
