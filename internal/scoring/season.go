package scoring

import (
	"math"
	"time"

	"DiveScout/internal/model"
)

// HemisphereFor derives the hemisphere from the latitude sign. The equator
// counts as north.
func HemisphereFor(lat float64) model.Hemisphere {
	if lat < 0 {
		return model.HemisphereSouth
	}
	return model.HemisphereNorth
}

// SeasonFor maps a calendar month to its meteorological season.
func SeasonFor(month time.Month, h model.Hemisphere) model.Season {
	var s model.Season
	switch month {
	case time.December, time.January, time.February:
		s = model.SeasonWinter
	case time.March, time.April, time.May:
		s = model.SeasonSpring
	case time.June, time.July, time.August:
		s = model.SeasonSummer
	default:
		s = model.SeasonAutumn
	}
	if h == model.HemisphereSouth {
		s = opposite[s]
	}
	return s
}

var opposite = map[model.Season]model.Season{
	model.SeasonSummer: model.SeasonWinter,
	model.SeasonWinter: model.SeasonSummer,
	model.SeasonSpring: model.SeasonAutumn,
	model.SeasonAutumn: model.SeasonSpring,
}

type seasonScore struct {
	Score      float64
	Favorable  bool
	Commentary string
}

var seasonScores = map[model.Hemisphere]map[model.Season]seasonScore{
	model.HemisphereSouth: {
		model.SeasonSummer: {3, true, "Summer is the best season: warmer water and better visibility."},
		model.SeasonAutumn: {2, false, "Autumn still offers decent conditions at many spots."},
		model.SeasonWinter: {1, false, "Colder water may call for extra thermal protection."},
		model.SeasonSpring: {1, true, "Spring water is still warming up."},
	},
	model.HemisphereNorth: {
		model.SeasonWinter: {0, false, "Colder water may call for extra thermal protection."},
		model.SeasonSpring: {1, true, "Spring brings better conditions, water still warming up."},
		model.SeasonSummer: {3, true, "Summer is the best season: warmer water and better visibility."},
		model.SeasonAutumn: {1, false, "Autumn still offers decent conditions with fewer visitors."},
	},
}

// ScoreSeason scores the season at latitude lat on now's date.
func ScoreSeason(now time.Time, lat float64) (model.FactorScore, model.SeasonDetails) {
	h := HemisphereFor(lat)
	s := SeasonFor(now.Month(), h)
	details := model.SeasonDetails{
		Season:          s,
		Hemisphere:      h,
		DaysUntilSummer: DaysUntilSummer(now, h),
	}
	sc := seasonScores[h][s]
	return model.Available(model.FactorSeason, sc.Score, sc.Favorable, sc.Commentary), details
}

// summerWindow returns the summer diving window starting in year, as a
// half-open interval [start, end). South runs Dec 21 to Mar 21 inclusive,
// north Jun 21 to Sep 23 inclusive.
func summerWindow(year int, h model.Hemisphere, loc *time.Location) (start, end time.Time) {
	if h == model.HemisphereSouth {
		return time.Date(year, time.December, 21, 0, 0, 0, 0, loc),
			time.Date(year+1, time.March, 22, 0, 0, 0, 0, loc)
	}
	return time.Date(year, time.June, 21, 0, 0, 0, 0, loc),
		time.Date(year, time.September, 24, 0, 0, 0, 0, loc)
}

// IsSummer reports whether now falls inside the summer window.
func IsSummer(now time.Time, h model.Hemisphere) bool {
	for _, y := range []int{now.Year() - 1, now.Year()} {
		start, end := summerWindow(y, h, now.Location())
		if !now.Before(start) && now.Before(end) {
			return true
		}
	}
	return false
}

// DaysUntilSummer returns 0 inside the summer window, otherwise the number of
// days (rounded up) until the next window opens.
func DaysUntilSummer(now time.Time, h model.Hemisphere) int {
	if IsSummer(now, h) {
		return 0
	}
	start, _ := summerWindow(now.Year(), h, now.Location())
	if !now.Before(start) {
		start, _ = summerWindow(now.Year()+1, h, now.Location())
	}
	return int(math.Ceil(start.Sub(now).Hours() / 24))
}
