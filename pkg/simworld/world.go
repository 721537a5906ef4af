package simworld

import (
	"github.com/narrativekit/kb/pkg/assembler"
	"github.com/narrativekit/kb/pkg/ids"
)

// Season names one of the four seasons, recomputed from the current
// day by AdvanceTime.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// Weather conditions a World's Environment can carry.
const (
	WeatherClear  assembler.Weather = "clear"
	WeatherCloudy assembler.Weather = "cloudy"
	WeatherRainy  assembler.Weather = "rainy"
	WeatherStormy assembler.Weather = "stormy"
	WeatherSnowy  assembler.Weather = "snowy"
	WeatherFoggy  assembler.Weather = "foggy"
)

// Clock is the world's time reference: a day counter plus
// hour/minute-of-day, with the season derived from the day.
type Clock struct {
	Day    uint32
	Hour   uint8
	Minute uint8
	Season Season
}

// Environment is the ambient weather/danger state of the world.
type Environment struct {
	Weather            assembler.Weather
	Temperature        int
	AmbientDangerLevel float64
}

// NewEnvironment returns the default environment: clear weather, 20C, zero ambient danger.
func NewEnvironment() Environment {
	return Environment{Weather: WeatherClear, Temperature: 20}
}

// Location is a place in the world. Its ambient tags are exposed
// through GetLocation; no event adds them to its own tags.
type Location struct {
	ID                 ids.LocationID
	Name               string
	Description        string
	ConnectedLocations []ids.LocationID
	AmbientTags        []string
}

// World is a minimal, in-memory, non-concurrent-safe snapshot of game
// state: time, environment, characters, and locations. It implements
// assembler.WorldSnapshot.
type World struct {
	Clock       Clock
	Environment Environment

	characters      map[ids.EntityID]*Character
	locations       map[ids.LocationID]*Location
	entityLocations map[ids.EntityID]ids.LocationID
}

// New creates an empty world with default environment and spring day zero.
func New() *World {
	return &World{
		Clock:           Clock{Season: Spring},
		Environment:     NewEnvironment(),
		characters:      make(map[ids.EntityID]*Character),
		locations:       make(map[ids.LocationID]*Location),
		entityLocations: make(map[ids.EntityID]ids.LocationID),
	}
}

// AddCharacter registers a character and returns its ID.
func (w *World) AddCharacter(c *Character) ids.EntityID {
	w.characters[c.ID] = c
	return c.ID
}

// AddLocation registers a location and returns its ID.
func (w *World) AddLocation(l *Location) ids.LocationID {
	w.locations[l.ID] = l
	return l.ID
}

// SetEntityLocation records where entity currently stands.
func (w *World) SetEntityLocation(entity ids.EntityID, location ids.LocationID) {
	w.entityLocations[entity] = location
}

// EntitiesAtLocation returns every entity currently at location.
func (w *World) EntitiesAtLocation(location ids.LocationID) []ids.EntityID {
	out := make([]ids.EntityID, 0)
	for entity, loc := range w.entityLocations {
		if loc == location {
			out = append(out, entity)
		}
	}
	return out
}

// IsNight reports whether the world clock currently reads as night:
// before 06:00 or at/after 20:00.
func (w *World) IsNight() bool {
	return w.Clock.Hour < 6 || w.Clock.Hour >= 20
}

// CurrentDangerLevel combines ambient danger with a night penalty and
// a weather penalty (storms worse than fog), clamped to 1.0.
func (w *World) CurrentDangerLevel() float64 {
	danger := w.Environment.AmbientDangerLevel

	if w.IsNight() {
		danger += 0.2
	}

	switch w.Environment.Weather {
	case WeatherStormy:
		danger += 0.15
	case WeatherFoggy:
		danger += 0.1
	}

	if danger > 1.0 {
		return 1.0
	}
	return danger
}

// AdvanceTime moves the world clock forward by minutes, rolling
// minute -> hour -> day as needed, and recomputes Season from the new
// day (day%360: 0-89 spring, 90-179 summer, 180-269 autumn, else winter).
func (w *World) AdvanceTime(minutes uint32) {
	totalMinutes := uint32(w.Clock.Minute) + minutes
	w.Clock.Minute = uint8(totalMinutes % 60)

	hoursPassed := totalMinutes / 60
	totalHours := uint32(w.Clock.Hour) + hoursPassed
	w.Clock.Hour = uint8(totalHours % 24)

	daysPassed := totalHours / 24
	w.Clock.Day += daysPassed

	seasonDay := w.Clock.Day % 360
	switch {
	case seasonDay <= 89:
		w.Clock.Season = Spring
	case seasonDay <= 179:
		w.Clock.Season = Summer
	case seasonDay <= 269:
		w.Clock.Season = Autumn
	default:
		w.Clock.Season = Winter
	}
}

// GetCharacter implements assembler.WorldSnapshot.
func (w *World) GetCharacter(id ids.EntityID) (assembler.Character, bool) {
	c, ok := w.characters[id]
	if !ok {
		return nil, false
	}
	return c, true
}

// EntityLocation implements assembler.WorldSnapshot.
func (w *World) EntityLocation(id ids.EntityID) (ids.LocationID, bool) {
	loc, ok := w.entityLocations[id]
	return loc, ok
}

// GetLocation implements assembler.WorldSnapshot.
func (w *World) GetLocation(id ids.LocationID) (assembler.Location, bool) {
	l, ok := w.locations[id]
	if !ok {
		return assembler.Location{}, false
	}
	return assembler.Location{ID: l.ID, Name: l.Name, AmbientTags: l.AmbientTags}, true
}

// Time implements assembler.WorldSnapshot.
func (w *World) Time() assembler.WorldTime {
	return assembler.WorldTime{
		Day:    w.Clock.Day,
		Hour:   w.Clock.Hour,
		Minute: w.Clock.Minute,
		Season: string(w.Clock.Season),
	}
}

// Weather implements assembler.WorldSnapshot.
func (w *World) Weather() assembler.Weather {
	return w.Environment.Weather
}
