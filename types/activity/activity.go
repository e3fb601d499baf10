package activity

import (
	"regexp"
	"strings"
)

// Activity identifies what a segment was doing, eg. "walk" or "lift".
// It keys the profile table, so unknown values are allowed and
// resolve to the default profile.
type Activity string

const (
	Unknown   Activity = ""
	Walk      Activity = "walk"
	Hike      Activity = "hike"
	Run       Activity = "run"
	Cycle     Activity = "cycle"
	MTB       Activity = "mtb"
	Ski       Activity = "ski"
	SkiTour   Activity = "skitour"
	Downhill  Activity = "downhill"
	Snowboard Activity = "snowboard"
	Lift      Activity = "lift"
	Paddle    Activity = "paddle"
	Boat      Activity = "boat"
	Car       Activity = "car"
	Fly       Activity = "fly"
)

var All = []Activity{
	Walk, Hike, Run, Cycle, MTB, Ski, SkiTour, Downhill, Snowboard, Lift, Paddle, Boat, Car, Fly,
}

var (
	activityWalk      = regexp.MustCompile(`(?i)^walk|^promenera|^gå`)
	activityHike      = regexp.MustCompile(`(?i)hike|hiking|trek|vandra`)
	activityRun       = regexp.MustCompile(`(?i)^run|jog|springa`)
	activityMTB       = regexp.MustCompile(`(?i)mtb|mountain.?bike`)
	activityCycle     = regexp.MustCompile(`(?i)cycl|bike|biking|cykla`)
	activitySkiTour   = regexp.MustCompile(`(?i)ski.?tour|randonn`)
	activityDownhill  = regexp.MustCompile(`(?i)downhill|alpine|utför`)
	activitySnowboard = regexp.MustCompile(`(?i)snowboard`)
	activitySki       = regexp.MustCompile(`(?i)^ski|skida|langlauf|nordic`)
	activityLift      = regexp.MustCompile(`(?i)lift|gondola|chair|tbar|t-bar|hiss`)
	activityPaddle    = regexp.MustCompile(`(?i)paddl|kayak|canoe|sup`)
	activityBoat      = regexp.MustCompile(`(?i)boat|ferry|sail|segla|båt|bat$`)
	activityCar       = regexp.MustCompile(`(?i)^car|drive|driving|automotive|bil$|bus`)
	activityFly       = regexp.MustCompile(`(?i)^fly|^air|plane|flyg`)
)

// FromString resolves a loose activity name to a known Activity.
// Order matters; the more specific patterns are tried first.
func FromString(str string) Activity {
	str = strings.TrimSpace(str)
	for _, a := range All {
		if strings.EqualFold(str, string(a)) {
			return a
		}
	}
	switch {
	case activitySkiTour.MatchString(str):
		return SkiTour
	case activitySnowboard.MatchString(str):
		return Snowboard
	case activityDownhill.MatchString(str):
		return Downhill
	case activityLift.MatchString(str):
		return Lift
	case activityMTB.MatchString(str):
		return MTB
	case activityCycle.MatchString(str):
		return Cycle
	case activityHike.MatchString(str):
		return Hike
	case activityWalk.MatchString(str):
		return Walk
	case activityRun.MatchString(str):
		return Run
	case activitySki.MatchString(str):
		return Ski
	case activityPaddle.MatchString(str):
		return Paddle
	case activityBoat.MatchString(str):
		return Boat
	case activityCar.MatchString(str):
		return Car
	case activityFly.MatchString(str):
		return Fly
	}
	return Unknown
}

func (a Activity) String() string {
	if a == Unknown {
		return "unknown"
	}
	return string(a)
}

// IsMotorized is true for activities not powered by the cat.
func (a Activity) IsMotorized() bool {
	switch a {
	case Car, Fly, Boat, Lift:
		return true
	}
	return false
}

// Emoji returns a single emoji representation of the activity.
func (a Activity) Emoji() string {
	switch a {
	case Walk:
		return "🚶"
	case Hike:
		return "🥾"
	case Run:
		return "🏃"
	case Cycle:
		return "🚴"
	case MTB:
		return "🚵"
	case Ski, SkiTour, Downhill:
		return "⛷️"
	case Snowboard:
		return "🏂"
	case Lift:
		return "🚡"
	case Paddle:
		return "🛶"
	case Boat:
		return "⛴️"
	case Car:
		return "🚗"
	case Fly:
		return "✈️"
	}
	return "❓"
}
