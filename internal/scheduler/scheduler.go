package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"valorant-sync/internal/api"
	"valorant-sync/internal/config"
	"valorant-sync/internal/constants"
	"valorant-sync/internal/domain"
	"valorant-sync/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
)

type MatchFetcher interface {
	FetchMatchIDs(ctx context.Context, puuid string) ([]string, error)
	FetchMatch(ctx context.Context, matchID string) (*api.RawMatch, error)
}

type MatchStore interface {
	KnownIDs(ctx context.Context) (map[string]struct{}, error)
	Put(ctx context.Context, id string, match *domain.Match) error
}

type AccountSource interface {
	List(ctx context.Context) ([]domain.Account, error)
}

type MatchNormalizer interface {
	Normalize(raw *api.RawMatch) (*domain.Match, error)
}

type IngestLog interface {
	Record(ctx context.Context, matchID, status, detail string)
}

// Scheduler drives the recurring sync loop: snapshot known IDs, discover
// new matches per tracked account, and fan out fetch/normalize/persist
// for every unseen match with a bounded worker count.
type Scheduler struct {
	fetcher    MatchFetcher
	store      MatchStore
	accounts   AccountSource
	normalizer MatchNormalizer
	ingestLog  IngestLog
	interval   time.Duration
	workers    int
	logger     zerolog.Logger

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func New(
	fetcher MatchFetcher,
	store MatchStore,
	accounts AccountSource,
	normalizer MatchNormalizer,
	ingestLog IngestLog,
	cfg *config.Config,
	logger zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		fetcher:    fetcher,
		store:      store,
		accounts:   accounts,
		normalizer: normalizer,
		ingestLog:  ingestLog,
		interval:   cfg.SyncInterval,
		workers:    cfg.SyncWorkers,
		logger:     logger,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run executes sync cycles until Shutdown is called or a cycle fails
// fatally. A rejected credential or a fatal store failure is not something
// the next tick can heal, so Run returns the error instead of hammering a
// broken dependency every interval. The stop signal is only observed at
// the top of the loop and at the sleep boundary; in-flight per-match work
// always completes before Run returns, so no match is ever half ingested.
func (s *Scheduler) Run() error {
	defer close(s.done)

	s.logger.Info().
		Dur("interval", s.interval).
		Int("workers", s.workers).
		Msg("sync scheduler starting")

	for {
		select {
		case <-s.stop:
			s.logger.Info().Msg("sync scheduler stopping")
			return nil
		default:
		}

		if err := s.RunCycle(context.Background()); err != nil {
			s.logger.Error().Err(err).Msg("sync scheduler halting")
			return err
		}

		select {
		case <-s.stop:
			s.logger.Info().Msg("sync scheduler stopping")
			return nil
		case <-time.After(s.interval):
		}
	}
}

// Shutdown signals the loop to exit and waits for the current cycle to
// finish, giving up when the context expires. Safe to call more than once.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type cycleCounters struct {
	ingested atomic.Int64
	skipped  atomic.Int64
	failed   atomic.Int64
}

// RunCycle performs one full sync pass. Individual match failures are
// isolated. A broken credential or a fatal store failure is returned so
// the loop halts; transient store failures skip the cycle and the next
// tick retries.
func (s *Scheduler) RunCycle(ctx context.Context) error {
	started := time.Now()
	log := s.logger.With().Str("cycle_id", uuid.NewString()[:8]).Logger()

	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	known, err := s.store.KnownIDs(dbCtx)
	cancel()
	if err != nil {
		if errors.Is(err, repository.ErrStoreTransient) {
			log.Error().Err(err).Msg("failed to snapshot known match ids, skipping cycle")
			return nil
		}
		return fmt.Errorf("snapshot known match ids: %w", err)
	}

	dbCtx, cancel = context.WithTimeout(ctx, constants.DatabaseTimeout)
	accounts, err := s.accounts.List(dbCtx)
	cancel()
	if err != nil {
		if errors.Is(err, repository.ErrStoreTransient) {
			log.Error().Err(err).Msg("failed to list tracked accounts, skipping cycle")
			return nil
		}
		return fmt.Errorf("list tracked accounts: %w", err)
	}
	if len(accounts) == 0 {
		log.Debug().Msg("no tracked accounts")
		return nil
	}

	pending, err := s.discover(ctx, log, accounts, known)
	if err != nil {
		return fmt.Errorf("discovery aborted: %w", err)
	}
	if len(pending) == 0 {
		log.Debug().Int("accounts", len(accounts)).Msg("no new matches discovered")
		return nil
	}

	log.Info().
		Int("accounts", len(accounts)).
		Int("known", len(known)).
		Int("pending", len(pending)).
		Msg("cycle discovered new matches")

	var counters cycleCounters
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, matchID := range pending {
		matchID := matchID
		g.Go(func() error {
			return s.ingestMatch(gCtx, log, matchID, &counters)
		})
	}
	err = g.Wait()

	log.Info().
		Int64("ingested", counters.ingested.Load()).
		Int64("skipped", counters.skipped.Load()).
		Int64("failed", counters.failed.Load()).
		Dur("elapsed", time.Since(started)).
		Msg("cycle complete")

	if err != nil {
		return fmt.Errorf("cycle aborted: %w", err)
	}
	return nil
}

// discover lists each account's matches concurrently and returns the IDs
// absent from the known snapshot, deduplicated across accounts so a match
// shared by two tracked players is fetched once. Only a rejected
// credential aborts discovery.
func (s *Scheduler) discover(ctx context.Context, log zerolog.Logger, accounts []domain.Account, known map[string]struct{}) ([]string, error) {
	var mu sync.Mutex
	seen := make(map[string]struct{})
	var pending []string

	g, gCtx := errgroup.WithContext(ctx)
	for _, account := range accounts {
		account := account
		g.Go(func() error {
			ids, err := s.fetchListWithRetry(gCtx, account.Puuid)
			switch {
			case err == nil:
			case errors.Is(err, api.ErrNotFound):
				log.Debug().Str("puuid", account.Puuid).Msg("no match history for account")
				return nil
			case errors.Is(err, api.ErrUnauthorized):
				return err
			default:
				log.Warn().Err(err).Str("puuid", account.Puuid).Msg("matchlist fetch failed, skipping account this cycle")
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			for _, id := range ids {
				if _, ok := known[id]; ok {
					continue
				}
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				pending = append(pending, id)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pending, nil
}

// fetchListWithRetry makes one extra attempt after a transient matchlist
// failure. NotFound and Unauthorized are never retried.
func (s *Scheduler) fetchListWithRetry(ctx context.Context, puuid string) ([]string, error) {
	var ids []string
	backoff := retry.WithMaxRetries(constants.ListFetchRetries, retry.NewConstant(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
		defer cancel()

		var fetchErr error
		ids, fetchErr = s.fetcher.FetchMatchIDs(apiCtx, puuid)
		if fetchErr != nil && errors.Is(fetchErr, api.ErrTransient) {
			return retry.RetryableError(fetchErr)
		}
		return fetchErr
	})
	return ids, err
}

// ingestMatch fetches, normalizes and persists one match. It returns an
// error only for failures that must abort the rest of the cycle; all
// per-match failures are logged and absorbed so sibling matches proceed.
func (s *Scheduler) ingestMatch(ctx context.Context, log zerolog.Logger, matchID string, counters *cycleCounters) error {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	raw, err := s.fetcher.FetchMatch(apiCtx, matchID)
	cancel()
	switch {
	case err == nil:
	case errors.Is(err, api.ErrNotFound):
		counters.skipped.Add(1)
		log.Warn().Str("match_id", matchID).Msg("match not found upstream, skipping")
		s.ingestLog.Record(ctx, matchID, repository.IngestStatusNotFound, err.Error())
		return nil
	case errors.Is(err, api.ErrUnauthorized):
		counters.failed.Add(1)
		log.Error().Err(err).Str("match_id", matchID).Msg("credential rejected, aborting cycle")
		return err
	default:
		// Transient; the ID stays unknown and is rediscovered next cycle.
		counters.failed.Add(1)
		log.Warn().Err(err).Str("match_id", matchID).Msg("match fetch failed, will retry next cycle")
		s.ingestLog.Record(ctx, matchID, repository.IngestStatusFetchFailed, err.Error())
		return nil
	}

	match, err := s.normalizer.Normalize(raw)
	if err != nil {
		counters.skipped.Add(1)
		log.Warn().Err(err).Str("match_id", matchID).Msg("malformed match record, skipping permanently")
		s.ingestLog.Record(ctx, matchID, repository.IngestStatusMalformed, err.Error())
		return nil
	}

	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	err = s.store.Put(dbCtx, matchID, match)
	cancel()
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrStoreTransient):
		counters.failed.Add(1)
		log.Warn().Err(err).Str("match_id", matchID).Msg("match persist failed, will retry next cycle")
		s.ingestLog.Record(ctx, matchID, repository.IngestStatusStoreFailed, err.Error())
		return nil
	default:
		counters.failed.Add(1)
		log.Error().Err(err).Str("match_id", matchID).Msg("fatal store failure, aborting cycle")
		return err
	}

	counters.ingested.Add(1)
	log.Debug().
		Str("match_id", matchID).
		Str("map", match.MapName).
		Str("mode", match.Mode).
		Int("players", len(match.Players)).
		Int("rounds", len(match.Rounds)).
		Msg("match ingested")
	return nil
}
