package query

import (
	"strings"
	"time"
)

// TeamLocation selects which side a single team must play on.
type TeamLocation string

const (
	LocationHome TeamLocation = "HOME"
	LocationAway TeamLocation = "AWAY"
	LocationAll  TeamLocation = "ALL"
)

var teamLocations = []string{string(LocationHome), string(LocationAway), string(LocationAll)}

func ParseTeamLocation(raw string) (TeamLocation, error) {
	value := TeamLocation(strings.ToUpper(strings.TrimSpace(raw)))
	switch value {
	case LocationHome, LocationAway, LocationAll:
		return value, nil
	default:
		return "", invalid(ParamLocation, "unknown value "+quote(raw), teamLocations...)
	}
}

// H2HLocation pins the side team1 occupies in a head-to-head.
type H2HLocation string

const (
	H2HAny       H2HLocation = "ANY"
	H2HTeam1Home H2HLocation = "TEAM1_HOME"
	H2HTeam1Away H2HLocation = "TEAM1_AWAY"
)

var h2hLocations = []string{string(H2HAny), string(H2HTeam1Home), string(H2HTeam1Away)}

func ParseH2HLocation(raw string) (H2HLocation, error) {
	value := H2HLocation(strings.ToUpper(strings.TrimSpace(raw)))
	switch value {
	case H2HAny, H2HTeam1Home, H2HTeam1Away:
		return value, nil
	default:
		return "", invalid(ParamH2HLocation, "unknown value "+quote(raw), h2hLocations...)
	}
}

// GameTimeSlot is a kickoff window. Start is inclusive, end exclusive.
type GameTimeSlot string

const (
	Slot12To14 GameTimeSlot = "slot_12_14"
	Slot14To17 GameTimeSlot = "slot_14_17"
	Slot17To20 GameTimeSlot = "slot_17_20"
	Slot20To23 GameTimeSlot = "slot_20_23"
)

var gameTimeSlots = []string{string(Slot12To14), string(Slot14To17), string(Slot17To20), string(Slot20To23)}

// Hours returns the [start, end) hour bounds of the slot.
func (s GameTimeSlot) Hours() (start, end int) {
	switch s {
	case Slot12To14:
		return 12, 14
	case Slot14To17:
		return 14, 17
	case Slot17To20:
		return 17, 20
	case Slot20To23:
		return 20, 23
	default:
		return 0, 0
	}
}

func ParseGameTimeSlot(raw string) (GameTimeSlot, error) {
	value := GameTimeSlot(strings.ToLower(strings.TrimSpace(raw)))
	switch value {
	case Slot12To14, Slot14To17, Slot17To20, Slot20To23:
		return value, nil
	default:
		return "", invalid(ParamGameTime, "unknown value "+quote(raw), gameTimeSlots...)
	}
}

// Weekday counts from Monday=0 to Sunday=6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return ""
	}
	return weekdayNames[d]
}

// WeekdayOf converts a time.Weekday, which starts on Sunday.
func WeekdayOf(day time.Weekday) Weekday {
	return Weekday((int(day) + 6) % 7)
}

func ParseWeekday(raw string) (Weekday, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	for i, name := range weekdayNames {
		if value == name {
			return Weekday(i), nil
		}
	}
	return 0, invalid(ParamWeekday, "unknown value "+quote(raw), weekdayNames...)
}

func quote(raw string) string {
	return "\"" + raw + "\""
}
