package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"valorant-sync/internal/domain"
	"valorant-sync/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	ids []string
	err error
}

func (f fakeLister) FetchMatchIDs(context.Context, string) ([]string, error) {
	return f.ids, f.err
}

type fakeReader struct {
	matches map[string]*domain.Match
}

func (f fakeReader) Get(_ context.Context, id string) (*domain.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrMatchNotFound, id)
	}
	return m, nil
}

func storedMatch(id, mode string, kills, deaths int) *domain.Match {
	return &domain.Match{
		ID:   id,
		Mode: mode,
		Players: []domain.Player{
			{
				Puuid:  "A",
				TeamID: "Red",
				Stats:  domain.OverallStats{Score: 1000, Kills: kills, Deaths: deaths},
			},
		},
	}
}

func TestRecentMatchesSkipsUningested(t *testing.T) {
	lister := fakeLister{ids: []string{"m1", "pending", "m2"}}
	reader := fakeReader{matches: map[string]*domain.Match{
		"m1": storedMatch("m1", "Competitive", 10, 5),
		"m2": storedMatch("m2", "Unrated", 4, 2),
	}}

	svc := NewHistoryService(lister, reader, zerolog.Nop())
	history, err := svc.RecentMatches(context.Background(), "A")
	require.NoError(t, err)

	require.Len(t, history, 2)
	assert.Equal(t, "m1", history[0].Match.ID)
	assert.Equal(t, "m2", history[1].Match.ID)
	assert.InDelta(t, 2.0, history[0].Stats.KDRatio, 1e-9)
	assert.Equal(t, 1, history[0].Stats.LeaderboardRank)
}

func TestRecentMatchesCapped(t *testing.T) {
	matches := make(map[string]*domain.Match)
	var ids []string
	for i := 0; i < 30; i++ {
		id := fmt.Sprintf("m%02d", i)
		ids = append(ids, id)
		matches[id] = storedMatch(id, "Competitive", 1, 1)
	}

	svc := NewHistoryService(fakeLister{ids: ids}, fakeReader{matches: matches}, zerolog.Nop())
	history, err := svc.RecentMatches(context.Background(), "A")
	require.NoError(t, err)

	assert.Len(t, history, 20)
	assert.Equal(t, "m00", history[0].Match.ID)
	assert.Equal(t, "m19", history[19].Match.ID)
}

func TestRecentMatchesListFailure(t *testing.T) {
	svc := NewHistoryService(fakeLister{err: errors.New("remote down")}, fakeReader{}, zerolog.Nop())

	_, err := svc.RecentMatches(context.Background(), "A")
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	lister := fakeLister{ids: []string{"m1", "m2", "m3"}}
	reader := fakeReader{matches: map[string]*domain.Match{
		"m1": storedMatch("m1", "Competitive", 10, 4),
		"m2": storedMatch("m2", "Unrated", 5, 1),
		"m3": storedMatch("m3", "Deathmatch", 40, 30),
	}}

	svc := NewHistoryService(lister, reader, zerolog.Nop())
	summary, err := svc.Summary(context.Background(), "A")
	require.NoError(t, err)

	// The deathmatch game contributes nothing to round-based aggregates.
	assert.InDelta(t, 3.0, summary.AverageKDA, 1e-9)
	assert.Empty(t, summary.WeaponUsage)
	assert.Empty(t, summary.LossReasons)
}
