package stats

import (
	"sort"
	"valorant-sync/internal/domain"
)

// Modes without per-round economy semantics; excluded from round-based
// corpora (weapon usage, loss reasons, averaged KDA).
var nonRoundModes = map[string]struct{}{
	"Deathmatch":  {},
	"Escalation":  {},
	"Replication": {},
}

func roundBased(mode string) bool {
	_, excluded := nonRoundModes[mode]
	return !excluded
}

// Aggregate derives per-player summary statistics for one match. KDA
// comes from the player's overall stats; rounds contribute damage and
// shot breakdowns only. Rounds where the target has no stat entry are
// skipped. Safe to recompute per request; no state, no I/O.
func Aggregate(m *domain.Match, puuid string) domain.AggregatedStats {
	agg := domain.AggregatedStats{}

	player := m.PlayerByPUUID(puuid)
	if player != nil {
		agg.Score = player.Stats.Score
		agg.Kills = player.Stats.Kills
		agg.Deaths = player.Stats.Deaths
		agg.Assists = player.Stats.Assists
		agg.LeaderboardRank = m.Rank(puuid)
	}

	deaths := agg.Deaths
	if deaths == 0 {
		deaths = 1
	}
	agg.KDRatio = float64(agg.Kills) / float64(deaths)

	var headshots, bodyshots, legshots int
	for _, round := range m.Rounds {
		stat := playerStat(round, puuid)
		if stat == nil {
			continue
		}
		agg.RoundsPlayed++
		agg.TotalDamage += stat.TotalDamage
		for _, d := range stat.Damage {
			headshots += d.Headshots
			bodyshots += d.Bodyshots
			legshots += d.Legshots
		}
	}

	if agg.RoundsPlayed > 0 {
		agg.AvgDamagePerRound = float64(agg.TotalDamage) / float64(agg.RoundsPlayed)
	}
	if shots := headshots + bodyshots + legshots; shots > 0 {
		agg.HeadshotPct = 100 * float64(headshots) / float64(shots)
	}

	return agg
}

func playerStat(round domain.Round, puuid string) *domain.PlayerStat {
	for i := range round.PlayerStats {
		if round.PlayerStats[i].Puuid == puuid {
			return &round.PlayerStats[i]
		}
	}
	return nil
}

// NamedCount is one row of a frequency table.
type NamedCount struct {
	Name  string
	Count int
}

// counter accumulates counts keyed by name, remembering first-seen order
// so equal counts sort deterministically.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string, n int) {
	if _, seen := c.counts[name]; !seen {
		c.order = append(c.order, name)
	}
	c.counts[name] += n
}

func (c *counter) sorted() []NamedCount {
	out := make([]NamedCount, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, NamedCount{Name: name, Count: c.counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// WeaponUsage counts how many rounds the target started with each weapon,
// across round-based matches, sorted descending by count.
func WeaponUsage(matches []*domain.Match, puuid string) []NamedCount {
	c := newCounter()
	for _, m := range matches {
		if !roundBased(m.Mode) {
			continue
		}
		for _, round := range m.Rounds {
			stat := playerStat(round, puuid)
			if stat == nil || stat.Economy.WeaponName == "" {
				continue
			}
			c.add(stat.Economy.WeaponName, 1)
		}
	}
	return c.sorted()
}

// MostKillsWeapon counts kills by the weapon the target carried that
// round, sorted descending by kill count.
func MostKillsWeapon(matches []*domain.Match, puuid string) []NamedCount {
	c := newCounter()
	for _, m := range matches {
		if !roundBased(m.Mode) {
			continue
		}
		for _, round := range m.Rounds {
			stat := playerStat(round, puuid)
			if stat == nil || stat.Economy.WeaponName == "" {
				continue
			}
			c.add(stat.Economy.WeaponName, len(stat.Kills))
		}
	}
	return c.sorted()
}

// LossReasons counts how the target's team lost rounds, sorted descending
// by count. Matches where the target is absent contribute nothing.
func LossReasons(matches []*domain.Match, puuid string) []NamedCount {
	c := newCounter()
	for _, m := range matches {
		if !roundBased(m.Mode) {
			continue
		}
		player := m.PlayerByPUUID(puuid)
		if player == nil {
			continue
		}
		for _, round := range m.Rounds {
			if round.WinningTeamID == player.TeamID {
				continue
			}
			if round.Result == "" {
				continue
			}
			c.add(round.Result, 1)
		}
	}
	return c.sorted()
}

// AverageKDA computes (kills + 0.5*assists) / deaths over round-based
// matches, with a divisor floor of one death.
func AverageKDA(matches []*domain.Match, puuid string) float64 {
	var kills, deaths, assists int
	for _, m := range matches {
		if !roundBased(m.Mode) {
			continue
		}
		player := m.PlayerByPUUID(puuid)
		if player == nil {
			continue
		}
		kills += player.Stats.Kills
		deaths += player.Stats.Deaths
		assists += player.Stats.Assists
	}
	if deaths == 0 {
		deaths = 1
	}
	return (float64(kills) + 0.5*float64(assists)) / float64(deaths)
}
