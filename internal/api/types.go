package api

// Wire types for the Riot VAL-MATCH-V1 endpoints. Optional substructures
// are pointers so an absent field is distinguishable from a zero value.

type RawMatchlist struct {
	Puuid   string              `json:"puuid"`
	History []RawMatchlistEntry `json:"history"`
}

type RawMatchlistEntry struct {
	MatchID             string `json:"matchId"`
	GameStartTimeMillis int64  `json:"gameStartTimeMillis"`
	QueueID             string `json:"queueId"`
}

type RawMatch struct {
	MatchInfo    RawMatchInfo `json:"matchInfo"`
	Players      []RawPlayer  `json:"players"`
	Teams        []RawTeam    `json:"teams"`
	RoundResults []RawRound   `json:"roundResults"`
}

type RawMatchInfo struct {
	MatchID          string `json:"matchId"`
	MapID            string `json:"mapId"`
	GameLengthMillis int64  `json:"gameLengthMillis"`
	GameStartMillis  int64  `json:"gameStartMillis"`
	IsCompleted      bool   `json:"isCompleted"`
	CustomGameName   string `json:"customGameName"`
	QueueID          string `json:"queueId"`
	GameMode         string `json:"gameMode"`
	IsRanked         bool   `json:"isRanked"`
	SeasonID         string `json:"seasonId"`
}

type RawPlayer struct {
	Puuid           string         `json:"puuid"`
	GameName        string         `json:"gameName"`
	TagLine         string         `json:"tagLine"`
	TeamID          string         `json:"teamId"`
	PartyID         string         `json:"partyId"`
	CharacterID     string         `json:"characterId"`
	Stats           RawPlayerStats `json:"stats"`
	CompetitiveTier int            `json:"competitiveTier"`
	PlayerCard      string         `json:"playerCard"`
	PlayerTitle     string         `json:"playerTitle"`
}

type RawPlayerStats struct {
	Score          int              `json:"score"`
	RoundsPlayed   int              `json:"roundsPlayed"`
	Kills          int              `json:"kills"`
	Deaths         int              `json:"deaths"`
	Assists        int              `json:"assists"`
	PlaytimeMillis int64            `json:"playtimeMillis"`
	AbilityCasts   *RawAbilityCasts `json:"abilityCasts"`
}

type RawAbilityCasts struct {
	GrenadeCasts  int `json:"grenadeCasts"`
	Ability1Casts int `json:"ability1Casts"`
	Ability2Casts int `json:"ability2Casts"`
	UltimateCasts int `json:"ultimateCasts"`
}

type RawTeam struct {
	TeamID       string `json:"teamId"`
	Won          bool   `json:"won"`
	RoundsPlayed int    `json:"roundsPlayed"`
	RoundsWon    int    `json:"roundsWon"`
	NumPoints    int    `json:"numPoints"`
}

type RawRound struct {
	RoundNum        int                   `json:"roundNum"`
	RoundResult     string                `json:"roundResult"`
	RoundCeremony   string                `json:"roundCeremony"`
	WinningTeam     string                `json:"winningTeam"`
	BombPlanter     *string               `json:"bombPlanter"`
	BombDefuser     *string               `json:"bombDefuser"`
	PlantRoundTime  int64                 `json:"plantRoundTime"`
	PlantSite       string                `json:"plantSite"`
	DefuseRoundTime int64                 `json:"defuseRoundTime"`
	PlantLocation   *RawLocation          `json:"plantLocation"`
	DefuseLocation  *RawLocation          `json:"defuseLocation"`
	PlayerStats     []RawRoundPlayerStats `json:"playerStats"`
}

type RawLocation struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type RawRoundPlayerStats struct {
	Puuid   string      `json:"puuid"`
	Kills   []RawKill   `json:"kills"`
	Damage  []RawDamage `json:"damage"`
	Score   int         `json:"score"`
	Economy RawEconomy  `json:"economy"`
}

type RawKill struct {
	TimeSinceGameStartMillis  int64              `json:"timeSinceGameStartMillis"`
	TimeSinceRoundStartMillis int64              `json:"timeSinceRoundStartMillis"`
	Killer                    string             `json:"killer"`
	Victim                    string             `json:"victim"`
	VictimLocation            *RawLocation       `json:"victimLocation"`
	Assistants                []string           `json:"assistants"`
	FinishingDamage           RawFinishingDamage `json:"finishingDamage"`
}

type RawFinishingDamage struct {
	DamageType          string `json:"damageType"`
	DamageItem          string `json:"damageItem"`
	IsSecondaryFireMode bool   `json:"isSecondaryFireMode"`
}

type RawDamage struct {
	Receiver  string `json:"receiver"`
	Damage    int    `json:"damage"`
	Legshots  int    `json:"legshots"`
	Bodyshots int    `json:"bodyshots"`
	Headshots int    `json:"headshots"`
}

type RawEconomy struct {
	LoadoutValue int    `json:"loadoutValue"`
	Weapon       string `json:"weapon"`
	Armor        string `json:"armor"`
	Remaining    int    `json:"remaining"`
	Spent        int    `json:"spent"`
}
