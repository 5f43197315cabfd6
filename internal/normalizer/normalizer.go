package normalizer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"valorant-sync/internal/api"
	"valorant-sync/internal/domain"
)

// Catalog is the read contract the normalizer needs from the reference
// data catalog. Implementations return an empty string for unknown IDs.
type Catalog interface {
	MapNameFromURL(mapURL string) string
	MapSplash(mapName string) string
	WeaponName(weaponID string) string
	AgentName(agentID string) string
	CardIcon(cardID string) string
	QueueName(queueID string) string
}

// MalformedRecordError marks a raw record missing a required field. The
// match is skipped permanently; it is never retried.
type MalformedRecordError struct {
	Field string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed match record: missing %s", e.Field)
}

func IsMalformed(err error) bool {
	var m *MalformedRecordError
	return errors.As(err, &m)
}

var teamDisplayNames = map[string]string{
	"Red":        "Attackers",
	"Blue":       "Defenders",
	"FreeForAll": "Free For All",
}

type Normalizer struct {
	catalog Catalog
}

func New(catalog Catalog) *Normalizer {
	return &Normalizer{catalog: catalog}
}

// Normalize turns one raw match record into the domain model. It is pure
// apart from catalog lookups, which are cached and side-effect free from
// the caller's perspective. A missing required field (match ID, players,
// teams) fails with MalformedRecordError; missing optional substructures
// normalize to zero values.
func (n *Normalizer) Normalize(raw *api.RawMatch) (*domain.Match, error) {
	if raw == nil || raw.MatchInfo.MatchID == "" {
		return nil, &MalformedRecordError{Field: "matchInfo.matchId"}
	}
	if len(raw.Players) == 0 {
		return nil, &MalformedRecordError{Field: "players"}
	}
	if len(raw.Teams) == 0 {
		return nil, &MalformedRecordError{Field: "teams"}
	}

	started := time.UnixMilli(raw.MatchInfo.GameStartMillis)
	mapName := n.catalog.MapNameFromURL(raw.MatchInfo.MapID)

	m := &domain.Match{
		ID:        raw.MatchInfo.MatchID,
		MapID:     raw.MatchInfo.MapID,
		MapName:   mapName,
		Thumbnail: n.catalog.MapSplash(mapName),
		Mode:      n.catalog.QueueName(raw.MatchInfo.QueueID),
		QueueID:   raw.MatchInfo.QueueID,
		SeasonID:  raw.MatchInfo.SeasonID,
		StartedAt: started,
		EndedAt:   started.Add(time.Duration(raw.MatchInfo.GameLengthMillis) * time.Millisecond),
		Teams:     n.teams(raw.Teams),
		Players:   n.players(raw.Players),
		Rounds:    n.rounds(raw.RoundResults),
	}

	return m, nil
}

func (n *Normalizer) teams(raw []api.RawTeam) []domain.Team {
	teams := make([]domain.Team, len(raw))
	for i, t := range raw {
		name, ok := teamDisplayNames[t.TeamID]
		if !ok {
			name = "Unknown"
		}
		teams[i] = domain.Team{
			ID:          t.TeamID,
			DisplayName: name,
			Score:       t.NumPoints,
			Won:         t.Won,
		}
	}
	return teams
}

func (n *Normalizer) players(raw []api.RawPlayer) []domain.Player {
	players := make([]domain.Player, len(raw))
	for i, p := range raw {
		players[i] = domain.Player{
			Puuid:       p.Puuid,
			Name:        p.GameName,
			Tag:         p.TagLine,
			DisplayName: fmt.Sprintf("%s#%s", p.GameName, p.TagLine),
			Tier:        p.CompetitiveTier,
			TeamID:      p.TeamID,
			PartyID:     p.PartyID,
			Character: domain.Character{
				ID:   p.CharacterID,
				Name: n.catalog.AgentName(p.CharacterID),
			},
			CardID:   p.PlayerCard,
			CardIcon: n.catalog.CardIcon(p.PlayerCard),
			TitleID:  p.PlayerTitle,
			Playtime: time.Duration(p.Stats.PlaytimeMillis) * time.Millisecond,
			Stats: domain.OverallStats{
				Score:        p.Stats.Score,
				RoundsPlayed: p.Stats.RoundsPlayed,
				Kills:        p.Stats.Kills,
				Deaths:       p.Stats.Deaths,
				Assists:      p.Stats.Assists,
			},
			AbilityCasts: abilityCasts(p.Stats.AbilityCasts),
		}
	}

	// The score ordering is the leaderboard; equal scores keep their
	// source order.
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Stats.Score > players[j].Stats.Score
	})

	return players
}

func abilityCasts(raw *api.RawAbilityCasts) domain.AbilityCasts {
	if raw == nil {
		return domain.AbilityCasts{}
	}
	return domain.AbilityCasts{
		Grenade:  raw.GrenadeCasts,
		Ability1: raw.Ability1Casts,
		Ability2: raw.Ability2Casts,
		Ultimate: raw.UltimateCasts,
	}
}

func (n *Normalizer) rounds(raw []api.RawRound) []domain.Round {
	rounds := make([]domain.Round, len(raw))
	for i, r := range raw {
		rounds[i] = domain.Round{
			Serial:        r.RoundNum,
			WinningTeamID: r.WinningTeam,
			Result:        strings.ToLower(r.RoundResult),
			Spike:         spikeInfo(r),
			PlayerStats:   n.roundPlayerStats(r.PlayerStats),
		}
	}
	return rounds
}

func spikeInfo(r api.RawRound) domain.SpikeInfo {
	info := domain.SpikeInfo{
		Planted: r.BombPlanter != nil,
		Defused: r.BombDefuser != nil,
		Site:    r.PlantSite,
	}
	if r.BombPlanter != nil {
		info.PlanterPuuid = *r.BombPlanter
		info.PlantTime = time.Duration(r.PlantRoundTime) * time.Millisecond
	}
	if r.BombDefuser != nil {
		info.DefuserPuuid = *r.BombDefuser
		info.DefuseTime = time.Duration(r.DefuseRoundTime) * time.Millisecond
	}
	if r.PlantLocation != nil {
		info.Location = domain.Location{X: r.PlantLocation.X, Y: r.PlantLocation.Y}
	}
	return info
}

func (n *Normalizer) roundPlayerStats(raw []api.RawRoundPlayerStats) []domain.PlayerStat {
	stats := make([]domain.PlayerStat, len(raw))
	for i, ps := range raw {
		stat := domain.PlayerStat{
			Puuid: ps.Puuid,
			Score: ps.Score,
			Economy: domain.Economy{
				Spent:        ps.Economy.Spent,
				Remaining:    ps.Economy.Remaining,
				LoadoutValue: ps.Economy.LoadoutValue,
				WeaponID:     ps.Economy.Weapon,
				WeaponName:   n.catalog.WeaponName(ps.Economy.Weapon),
				ArmorID:      ps.Economy.Armor,
			},
			Kills:  make([]domain.KillEvent, len(ps.Kills)),
			Damage: make([]domain.DamageEvent, len(ps.Damage)),
		}

		for k, kill := range ps.Kills {
			stat.Kills[k] = n.killEvent(kill)
		}
		for d, dmg := range ps.Damage {
			stat.Damage[d] = domain.DamageEvent{
				ReceiverPuuid: dmg.Receiver,
				Damage:        dmg.Damage,
				Headshots:     dmg.Headshots,
				Bodyshots:     dmg.Bodyshots,
				Legshots:      dmg.Legshots,
			}
			stat.TotalDamage += dmg.Damage
		}

		stats[i] = stat
	}
	return stats
}

func (n *Normalizer) killEvent(raw api.RawKill) domain.KillEvent {
	kill := domain.KillEvent{
		KillerPuuid:     raw.Killer,
		VictimPuuid:     raw.Victim,
		AssistantPuuids: raw.Assistants,
		Weapon: domain.FinishingDamage{
			Type:          raw.FinishingDamage.DamageType,
			ItemID:        raw.FinishingDamage.DamageItem,
			ItemName:      n.catalog.WeaponName(raw.FinishingDamage.DamageItem),
			SecondaryFire: raw.FinishingDamage.IsSecondaryFireMode,
		},
		TimeInRound: time.Duration(raw.TimeSinceRoundStartMillis) * time.Millisecond,
		TimeInMatch: time.Duration(raw.TimeSinceGameStartMillis) * time.Millisecond,
	}
	if raw.VictimLocation != nil {
		kill.Location = domain.Location{X: raw.VictimLocation.X, Y: raw.VictimLocation.Y}
	}
	return kill
}
