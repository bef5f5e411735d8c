package match

import (
	"fmt"
	"time"
)

// Team is one side of a fixture.
type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Score holds goals per side for one period.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

func (s Score) Total() int {
	return s.Home + s.Away
}

// Record is the flattened, read-only view of one fixture.
type Record struct {
	FixtureID int64
	KickoffAt time.Time
	Status    string
	LeagueID  int64
	Season    int
	Home      Team
	Away      Team
	FullTime  Score
	HalfTime  *Score
	ExtraTime *Score
	Penalty   *Score
}

func (r Record) Validate() error {
	if r.FixtureID <= 0 {
		return fmt.Errorf("fixture id must be > 0")
	}
	if r.Home.ID <= 0 || r.Away.ID <= 0 {
		return fmt.Errorf("fixture %d: team ids must be > 0", r.FixtureID)
	}
	if r.Home.ID == r.Away.ID {
		return fmt.Errorf("fixture %d: home and away team must differ", r.FixtureID)
	}

	return nil
}

func (r Record) IsFinished() bool {
	return IsFinished(r.Status)
}

func (r Record) HasTeam(teamID int64) bool {
	return r.Home.ID == teamID || r.Away.ID == teamID
}

// IsBetween reports whether the fixture opposes exactly these two teams, in
// either orientation.
func (r Record) IsBetween(teamA, teamB int64) bool {
	return (r.Home.ID == teamA && r.Away.ID == teamB) ||
		(r.Home.ID == teamB && r.Away.ID == teamA)
}

func (r Record) TotalGoals() int {
	return r.FullTime.Total()
}

// GoalsFor returns goals scored and conceded by teamID. ok is false when the
// team did not play in this fixture.
func (r Record) GoalsFor(teamID int64) (scored, conceded int, ok bool) {
	switch teamID {
	case r.Home.ID:
		return r.FullTime.Home, r.FullTime.Away, true
	case r.Away.ID:
		return r.FullTime.Away, r.FullTime.Home, true
	default:
		return 0, 0, false
	}
}

// IsHome reports whether teamID is the home side.
func (r Record) IsHome(teamID int64) bool {
	return r.Home.ID == teamID
}
