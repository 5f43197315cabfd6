package domain

import (
	"time"
)

type Account struct {
	Puuid     string
	CreatedAt time.Time
}

// Match is the normalized form of one raw match record. It is immutable
// once constructed; back-references between its collections are plain
// identifiers resolved through PlayerByPUUID and TeamByID.
type Match struct {
	ID        string
	MapID     string
	MapName   string
	Thumbnail string
	Mode      string
	QueueID   string
	SeasonID  string
	StartedAt time.Time
	EndedAt   time.Time
	Teams     []Team
	Players   []Player
	Rounds    []Round
}

// TeamByID resolves a raw team code against the match's teams. Unknown or
// empty codes resolve to nil rather than an error.
func (m *Match) TeamByID(id string) *Team {
	if id == "" {
		return nil
	}
	for i := range m.Teams {
		if m.Teams[i].ID == id {
			return &m.Teams[i]
		}
	}
	return nil
}

// PlayerByPUUID resolves a puuid against the match's players. Unknown or
// empty puuids resolve to nil.
func (m *Match) PlayerByPUUID(puuid string) *Player {
	if puuid == "" {
		return nil
	}
	for i := range m.Players {
		if m.Players[i].Puuid == puuid {
			return &m.Players[i]
		}
	}
	return nil
}

// Rank returns the 1-based leaderboard position of a player, or 0 when the
// player is not part of the match. Players are sorted by score descending
// at construction time, so the slice position is the rank.
func (m *Match) Rank(puuid string) int {
	for i := range m.Players {
		if m.Players[i].Puuid == puuid {
			return i + 1
		}
	}
	return 0
}

type Team struct {
	ID          string
	DisplayName string
	Score       int
	Won         bool
}

type Player struct {
	Puuid        string
	Name         string
	Tag          string
	DisplayName  string
	Tier         int
	TeamID       string
	PartyID      string
	Character    Character
	CardID       string
	CardIcon     string
	TitleID      string
	Playtime     time.Duration
	Stats        OverallStats
	AbilityCasts AbilityCasts
}

type Character struct {
	ID   string
	Name string
}

type OverallStats struct {
	Score        int
	RoundsPlayed int
	Kills        int
	Deaths       int
	Assists      int
}

type AbilityCasts struct {
	Grenade  int
	Ability1 int
	Ability2 int
	Ultimate int
}

type Round struct {
	// Serial is the 1-based round number carried over from the source
	// record, not re-derived from slice position.
	Serial        int
	WinningTeamID string
	Result        string
	Spike         SpikeInfo
	PlayerStats   []PlayerStat
}

type SpikeInfo struct {
	Planted      bool
	Defused      bool
	PlanterPuuid string
	DefuserPuuid string
	Site         string
	Location     Location
	PlantTime    time.Duration
	DefuseTime   time.Duration
}

type Location struct {
	X int
	Y int
}

type PlayerStat struct {
	Puuid       string
	Score       int
	Economy     Economy
	Kills       []KillEvent
	Damage      []DamageEvent
	TotalDamage int
}

type Economy struct {
	Spent        int
	Remaining    int
	LoadoutValue int
	WeaponID     string
	WeaponName   string
	ArmorID      string
}

type KillEvent struct {
	KillerPuuid     string
	VictimPuuid     string
	AssistantPuuids []string
	Location        Location
	Weapon          FinishingDamage
	TimeInRound     time.Duration
	TimeInMatch     time.Duration
}

type FinishingDamage struct {
	Type          string
	ItemID        string
	ItemName      string
	SecondaryFire bool
}

type DamageEvent struct {
	ReceiverPuuid string
	Damage        int
	Headshots     int
	Bodyshots     int
	Legshots      int
}

// AggregatedStats is derived on demand from a Match and a target puuid;
// it is never persisted.
type AggregatedStats struct {
	Score             int
	Kills             int
	Deaths            int
	Assists           int
	KDRatio           float64
	TotalDamage       int
	AvgDamagePerRound float64
	HeadshotPct       float64
	RoundsPlayed      int
	LeaderboardRank   int
}
