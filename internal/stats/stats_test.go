package stats

import (
	"testing"
	"valorant-sync/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func player(puuid, team string, kills, deaths, assists int) domain.Player {
	return domain.Player{
		Puuid:  puuid,
		TeamID: team,
		Stats:  domain.OverallStats{Kills: kills, Deaths: deaths, Assists: assists},
	}
}

func weaponRound(puuid, weapon string, kills int) domain.Round {
	events := make([]domain.KillEvent, kills)
	for i := range events {
		events[i] = domain.KillEvent{KillerPuuid: puuid}
	}
	return domain.Round{
		PlayerStats: []domain.PlayerStat{
			{Puuid: puuid, Economy: domain.Economy{WeaponName: weapon}, Kills: events},
		},
	}
}

func TestAggregateZeroDeaths(t *testing.T) {
	m := &domain.Match{
		Mode:    "Competitive",
		Players: []domain.Player{player("A", "Red", 5, 0, 2)},
	}

	agg := Aggregate(m, "A")

	assert.Equal(t, 5, agg.Kills)
	assert.Equal(t, 0, agg.Deaths)
	assert.InDelta(t, 5.0, agg.KDRatio, 1e-9)
	assert.Equal(t, 1, agg.LeaderboardRank)
}

func TestAggregateSkipsRoundsWithoutEntry(t *testing.T) {
	m := &domain.Match{
		Mode:    "Competitive",
		Players: []domain.Player{player("A", "Red", 10, 4, 0)},
		Rounds: []domain.Round{
			{PlayerStats: []domain.PlayerStat{{
				Puuid:       "A",
				TotalDamage: 150,
				Damage:      []domain.DamageEvent{{Headshots: 1, Bodyshots: 2, Legshots: 1}},
			}}},
			{PlayerStats: []domain.PlayerStat{{Puuid: "B", TotalDamage: 999}}},
			{PlayerStats: []domain.PlayerStat{{
				Puuid:       "A",
				TotalDamage: 50,
				Damage:      []domain.DamageEvent{{Headshots: 1, Bodyshots: 3}},
			}}},
		},
	}

	agg := Aggregate(m, "A")

	assert.Equal(t, 2, agg.RoundsPlayed)
	assert.Equal(t, 200, agg.TotalDamage)
	assert.InDelta(t, 100.0, agg.AvgDamagePerRound, 1e-9)
	assert.InDelta(t, 25.0, agg.HeadshotPct, 1e-9)
	assert.InDelta(t, 2.5, agg.KDRatio, 1e-9)
}

func TestAggregateNoShotsNoRounds(t *testing.T) {
	m := &domain.Match{
		Mode:    "Competitive",
		Players: []domain.Player{player("A", "Red", 0, 3, 1)},
	}

	agg := Aggregate(m, "A")

	assert.Zero(t, agg.HeadshotPct)
	assert.Zero(t, agg.AvgDamagePerRound)
	assert.Zero(t, agg.RoundsPlayed)
}

func TestAggregateAbsentPlayer(t *testing.T) {
	m := &domain.Match{
		Mode:    "Competitive",
		Players: []domain.Player{player("A", "Red", 5, 2, 0)},
	}

	agg := Aggregate(m, "ghost")

	assert.Zero(t, agg.Kills)
	assert.Zero(t, agg.KDRatio)
	assert.Zero(t, agg.LeaderboardRank)
}

func TestWeaponUsageOrdering(t *testing.T) {
	matches := []*domain.Match{
		{
			Mode: "Competitive",
			Rounds: []domain.Round{
				weaponRound("A", "Classic", 0),
				weaponRound("A", "Vandal", 2),
				weaponRound("A", "Vandal", 1),
			},
		},
		{
			Mode: "Competitive",
			Rounds: []domain.Round{
				weaponRound("A", "Vandal", 0),
				weaponRound("A", "Phantom", 0),
			},
		},
	}

	usage := WeaponUsage(matches, "A")

	require.Len(t, usage, 3)
	assert.Equal(t, NamedCount{Name: "Vandal", Count: 3}, usage[0])
	// Classic and Phantom tie at one round each; first seen wins.
	assert.Equal(t, NamedCount{Name: "Classic", Count: 1}, usage[1])
	assert.Equal(t, NamedCount{Name: "Phantom", Count: 1}, usage[2])
}

func TestWeaponUsageExcludesNonRoundModes(t *testing.T) {
	matches := []*domain.Match{
		{Mode: "Deathmatch", Rounds: []domain.Round{weaponRound("A", "Vandal", 10)}},
		{Mode: "Escalation", Rounds: []domain.Round{weaponRound("A", "Phantom", 3)}},
		{Mode: "Replication", Rounds: []domain.Round{weaponRound("A", "Ghost", 1)}},
		{Mode: "Competitive", Rounds: []domain.Round{weaponRound("A", "Classic", 1)}},
	}

	usage := WeaponUsage(matches, "A")

	require.Len(t, usage, 1)
	assert.Equal(t, "Classic", usage[0].Name)
}

func TestWeaponUsageSkipsUnresolvedWeapons(t *testing.T) {
	matches := []*domain.Match{
		{Mode: "Competitive", Rounds: []domain.Round{weaponRound("A", "", 2)}},
	}

	assert.Empty(t, WeaponUsage(matches, "A"))
}

func TestMostKillsWeapon(t *testing.T) {
	matches := []*domain.Match{
		{
			Mode: "Competitive",
			Rounds: []domain.Round{
				weaponRound("A", "Classic", 2),
				weaponRound("A", "Vandal", 3),
				weaponRound("A", "Vandal", 2),
			},
		},
	}

	kills := MostKillsWeapon(matches, "A")

	require.Len(t, kills, 2)
	assert.Equal(t, NamedCount{Name: "Vandal", Count: 5}, kills[0])
	assert.Equal(t, NamedCount{Name: "Classic", Count: 2}, kills[1])
}

func TestLossReasons(t *testing.T) {
	matches := []*domain.Match{
		{
			Mode:    "Competitive",
			Players: []domain.Player{player("A", "Red", 0, 0, 0)},
			Rounds: []domain.Round{
				{WinningTeamID: "Red", Result: "eliminated"},
				{WinningTeamID: "Blue", Result: "eliminated"},
				{WinningTeamID: "Blue", Result: "bomb detonated"},
				{WinningTeamID: "Blue", Result: "eliminated"},
				{WinningTeamID: "Blue", Result: ""},
			},
		},
		// The target is absent here; nothing counts.
		{
			Mode:    "Competitive",
			Players: []domain.Player{player("B", "Blue", 0, 0, 0)},
			Rounds:  []domain.Round{{WinningTeamID: "Red", Result: "eliminated"}},
		},
	}

	reasons := LossReasons(matches, "A")

	require.Len(t, reasons, 2)
	assert.Equal(t, NamedCount{Name: "eliminated", Count: 2}, reasons[0])
	assert.Equal(t, NamedCount{Name: "bomb detonated", Count: 1}, reasons[1])
}

func TestAverageKDA(t *testing.T) {
	matches := []*domain.Match{
		{Mode: "Competitive", Players: []domain.Player{player("A", "Red", 10, 4, 2)}},
		{Mode: "Unrated", Players: []domain.Player{player("A", "Blue", 5, 1, 3)}},
		{Mode: "Deathmatch", Players: []domain.Player{player("A", "Red", 40, 30, 0)}},
	}

	// (15 + 0.5*5) / 5 across the two round-based matches.
	assert.InDelta(t, 3.5, AverageKDA(matches, "A"), 1e-9)
}

func TestAverageKDAZeroDeaths(t *testing.T) {
	matches := []*domain.Match{
		{Mode: "Competitive", Players: []domain.Player{player("A", "Red", 4, 0, 2)}},
	}

	assert.InDelta(t, 5.0, AverageKDA(matches, "A"), 1e-9)
}
