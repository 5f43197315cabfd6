package service

import (
	"context"
	"errors"
	"fmt"
	"valorant-sync/internal/constants"
	"valorant-sync/internal/domain"
	"valorant-sync/internal/repository"
	"valorant-sync/internal/stats"

	"github.com/rs/zerolog"
)

// MatchLister is the slice of the fetcher the read path needs: the
// recent-match list always comes live from the remote, never from the
// store.
type MatchLister interface {
	FetchMatchIDs(ctx context.Context, puuid string) ([]string, error)
}

type MatchReader interface {
	Get(ctx context.Context, id string) (*domain.Match, error)
}

// HistoryService is the surface the presentation layer consumes: stored
// matches plus derived per-player statistics. It exposes no HTTP routes,
// sessions or templates.
type HistoryService struct {
	lister MatchLister
	store  MatchReader
	logger zerolog.Logger
}

func NewHistoryService(lister MatchLister, store MatchReader, logger zerolog.Logger) *HistoryService {
	return &HistoryService{lister: lister, store: store, logger: logger}
}

type MatchHistory struct {
	Match *domain.Match
	Stats domain.AggregatedStats
}

type PlayerSummary struct {
	AverageKDA      float64
	WeaponUsage     []stats.NamedCount
	MostKillsWeapon []stats.NamedCount
	LossReasons     []stats.NamedCount
}

// RecentMatches lists the player's recent matches from the remote and
// returns the ones already ingested, each with the player's aggregated
// stats. A match the scheduler has not persisted yet is simply absent.
func (s *HistoryService) RecentMatches(ctx context.Context, puuid string) ([]MatchHistory, error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	ids, err := s.lister.FetchMatchIDs(apiCtx, puuid)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent matches: %w", err)
	}

	var history []MatchHistory
	for _, id := range ids {
		if len(history) >= constants.RecentMatchLimit {
			break
		}

		dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
		match, err := s.store.Get(dbCtx, id)
		cancel()
		if errors.Is(err, repository.ErrMatchNotFound) {
			s.logger.Debug().Str("match_id", id).Msg("match not ingested yet")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load match %s: %w", id, err)
		}

		history = append(history, MatchHistory{
			Match: match,
			Stats: stats.Aggregate(match, puuid),
		})
	}

	s.logger.Info().Str("puuid", puuid).Int("count", len(history)).Msg("recent matches loaded")
	return history, nil
}

// Summary bundles the cross-match derived statistics for one player over
// their recent ingested matches.
func (s *HistoryService) Summary(ctx context.Context, puuid string) (*PlayerSummary, error) {
	history, err := s.RecentMatches(ctx, puuid)
	if err != nil {
		return nil, err
	}

	matches := make([]*domain.Match, len(history))
	for i, h := range history {
		matches[i] = h.Match
	}

	return &PlayerSummary{
		AverageKDA:      stats.AverageKDA(matches, puuid),
		WeaponUsage:     stats.WeaponUsage(matches, puuid),
		MostKillsWeapon: stats.MostKillsWeapon(matches, puuid),
		LossReasons:     stats.LossReasons(matches, puuid),
	}, nil
}
