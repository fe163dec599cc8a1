package statsapi

// Upstream JSON shapes. Every field is optional from the API's perspective;
// decoding fills zero values and downstream code treats them as such.

type ScheduleResponse struct {
	Dates []ScheduleDate `json:"dates"`
}

type ScheduleDate struct {
	Date  string `json:"date"`
	Games []Game `json:"games"`
}

type Game struct {
	GamePk   int64  `json:"gamePk"`
	GameDate string `json:"gameDate"`
	Status   struct {
		DetailedState string `json:"detailedState"`
	} `json:"status"`
	Teams struct {
		Home GameTeam `json:"home"`
		Away GameTeam `json:"away"`
	} `json:"teams"`
	Venue struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"venue"`
}

type GameTeam struct {
	Team            TeamRef    `json:"team"`
	LeagueRecord    WinLoss    `json:"leagueRecord"`
	Score           *int       `json:"score,omitempty"`
	IsWinner        *bool      `json:"isWinner,omitempty"`
	ProbablePitcher *PersonRef `json:"probablePitcher,omitempty"`
}

type TeamRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type WinLoss struct {
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Pct    string `json:"pct"`
}

type PersonRef struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
}

// StatsResponse covers both team season stats and person pitching stats.
// Stat values arrive as a loose map because the upstream mixes strings and
// numbers per metric.
type StatsResponse struct {
	Stats []StatGroup `json:"stats"`
}

type StatGroup struct {
	Group struct {
		DisplayName string `json:"displayName"`
	} `json:"group"`
	Splits []StatSplit `json:"splits"`
}

type StatSplit struct {
	Stat map[string]interface{} `json:"stat"`
}

// FeedResponse is the slice of the live feed the preview needs: venue
// weather and the probable pitchers once identities are published.
type FeedResponse struct {
	GameData struct {
		Weather struct {
			Condition string `json:"condition"`
			Temp      string `json:"temp"`
			Wind      string `json:"wind"`
		} `json:"weather"`
		ProbablePitchers struct {
			Home *PersonRef `json:"home,omitempty"`
			Away *PersonRef `json:"away,omitempty"`
		} `json:"probablePitchers"`
	} `json:"gameData"`
}

type RosterResponse struct {
	Roster []RosterEntry `json:"roster"`
}

type RosterEntry struct {
	Person   PersonRef `json:"person"`
	Position struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
}

type InjuryResponse struct {
	Injuries []InjuryEntry `json:"injuries"`
}

type InjuryEntry struct {
	Player      PersonRef `json:"player"`
	Team        TeamRef   `json:"team"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
}

// GameBundle collects everything the formatter needs for one preview. Any
// field may be nil or empty when the corresponding fetch failed or returned
// nothing; the formatter degrades the affected blocks.
type GameBundle struct {
	Fixture      *Game
	Feed         *FeedResponse
	SelfStats    *StatsResponse
	OppStats     *StatsResponse
	SelfRecent   []Game
	OppRecent    []Game
	HeadToHead   []Game
	SelfRoster   *RosterResponse
	OppRoster    *RosterResponse
	SelfPitcher  *StatsResponse
	OppPitcher   *StatsResponse
	SelfInjuries []InjuryEntry
	OppInjuries  []InjuryEntry
}
