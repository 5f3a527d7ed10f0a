package zoning

import (
	"math"
	"sort"

	"github.com/tripforge/planner/internal/model"
)

// SplitByFixedDate implements spec §4.2 "Fixed-date split": a zone whose
// members have mixed fixedDate values is split into one sub-zone per date
// (stamped with that date's 0-based day offset from tripStartDate) plus one
// "free" sub-zone for members without a fixed date. A zone whose members
// all share a single date (or have none at all) is returned unchanged,
// stamped with that day if present.
func SplitByFixedDate(zone model.Zone, byID map[string]model.Waypoint, tripStartDate string) []model.Zone {
	dateGroups := make(map[string][]string) // fixedDate -> waypoint ids
	var free []string

	for _, id := range zone.WaypointIDs {
		w, ok := byID[id]
		if !ok {
			continue
		}
		if w.FixedDate == "" {
			free = append(free, id)
			continue
		}
		dateGroups[w.FixedDate] = append(dateGroups[w.FixedDate], id)
	}

	if len(dateGroups) == 0 {
		return []model.Zone{zone}
	}
	if len(dateGroups) == 1 && len(free) == 0 {
		for date := range dateGroups {
			if idx, ok := model.DayIndexFromDate(tripStartDate, date); ok {
				zone.FixedDayIndex = &idx
			}
		}
		return []model.Zone{zone}
	}

	out := make([]model.Zone, 0, len(dateGroups)+1)
	dates := make([]string, 0, len(dateGroups))
	for d := range dateGroups {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, date := range dates {
		sub := subZone(dateGroups[date], byID)
		if idx, ok := model.DayIndexFromDate(tripStartDate, date); ok {
			sub.FixedDayIndex = &idx
		}
		out = append(out, sub)
	}
	if len(free) > 0 {
		out = append(out, subZone(free, byID))
	}
	return out
}

func subZone(ids []string, byID map[string]model.Waypoint) model.Zone {
	members := make([]model.Waypoint, 0, len(ids))
	for _, id := range ids {
		members = append(members, byID[id])
	}
	return buildZone(members)
}

// SplitByDayLock is the dayLock counterpart of SplitByFixedDate: a zone
// whose members carry mixed (or partially absent) dayLock values is split
// into one sub-zone per lock value, each stamped with that lock's 0-based
// FixedDayIndex, plus one "free" sub-zone for unlocked members, so
// AssignToDays' FixedDayIndex pre-assignment (spec §4.2 "Day assignment")
// also honors per-waypoint dayLock and not only fixedDate. A zone already
// carrying a FixedDayIndex from SplitByFixedDate is passed through
// unchanged: fixedDate pinning takes precedence over dayLock pinning.
func SplitByDayLock(zone model.Zone, byID map[string]model.Waypoint) []model.Zone {
	if zone.FixedDayIndex != nil {
		return []model.Zone{zone}
	}

	lockGroups := make(map[int][]string) // dayLock (1-based) -> waypoint ids
	var free []string

	for _, id := range zone.WaypointIDs {
		w, ok := byID[id]
		if !ok {
			continue
		}
		if w.DayLock == nil {
			free = append(free, id)
			continue
		}
		lockGroups[*w.DayLock] = append(lockGroups[*w.DayLock], id)
	}

	if len(lockGroups) == 0 {
		return []model.Zone{zone}
	}
	if len(lockGroups) == 1 && len(free) == 0 {
		for lock := range lockGroups {
			idx := lock - 1
			zone.FixedDayIndex = &idx
		}
		return []model.Zone{zone}
	}

	locks := make([]int, 0, len(lockGroups))
	for lock := range lockGroups {
		locks = append(locks, lock)
	}
	sort.Ints(locks)

	out := make([]model.Zone, 0, len(lockGroups)+1)
	for _, lock := range locks {
		sub := subZone(lockGroups[lock], byID)
		idx := lock - 1
		sub.FixedDayIndex = &idx
		out = append(out, sub)
	}
	if len(free) > 0 {
		out = append(out, subZone(free, byID))
	}
	return out
}

// SplitOverload implements spec §4.2 "Overload split": a zone exceeding the
// size or minutes limit is split along its dominant axis into equal-sized
// contiguous buckets.
func SplitOverload(zone model.Zone, byID map[string]model.Waypoint, targetPerDay int, dailyMaxMinutes *float64) []model.Zone {
	sizeLimit := int(math.Ceil(float64(targetPerDay) * 1.5))
	overSize := len(zone.WaypointIDs) > sizeLimit
	overMinutes := dailyMaxMinutes != nil && zone.EstimatedMinutes > *dailyMaxMinutes

	if !overSize && !overMinutes {
		return []model.Zone{zone}
	}

	members := make([]model.Waypoint, 0, len(zone.WaypointIDs))
	for _, id := range zone.WaypointIDs {
		members = append(members, byID[id])
	}

	numBuckets := 2
	if overSize && sizeLimit > 0 {
		numBuckets = maxInt(numBuckets, int(math.Ceil(float64(len(members))/float64(sizeLimit))))
	}
	if overMinutes && dailyMaxMinutes != nil && *dailyMaxMinutes > 0 {
		numBuckets = maxInt(numBuckets, int(math.Ceil(zone.EstimatedMinutes / *dailyMaxMinutes)))
	}
	if numBuckets > len(members) {
		numBuckets = maxInt(1, len(members))
	}
	if numBuckets <= 1 {
		return []model.Zone{zone}
	}

	latRange := rangeOf(members, func(w model.Waypoint) float64 { return w.Coord.Lat })
	lngRange := rangeOf(members, func(w model.Waypoint) float64 { return w.Coord.Lng })
	axisLat := latRange >= lngRange

	sorted := append([]model.Waypoint(nil), members...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if axisLat {
			return sorted[i].Coord.Lat < sorted[j].Coord.Lat
		}
		return sorted[i].Coord.Lng < sorted[j].Coord.Lng
	})

	bucketSize := int(math.Ceil(float64(len(sorted)) / float64(numBuckets)))
	out := make([]model.Zone, 0, numBuckets)
	for start := 0; start < len(sorted); start += bucketSize {
		end := start + bucketSize
		if end > len(sorted) {
			end = len(sorted)
		}
		bucket := buildZone(sorted[start:end])
		// Preserve a FixedDayIndex forced upstream (fixedDate/dayLock split)
		// across the axis split, so overload splitting never un-pins a
		// zone that was already locked to a day.
		bucket.FixedDayIndex = zone.FixedDayIndex
		out = append(out, bucket)
	}
	return out
}

func rangeOf(ws []model.Waypoint, f func(model.Waypoint) float64) float64 {
	if len(ws) == 0 {
		return 0
	}
	lo, hi := f(ws[0]), f(ws[0])
	for _, w := range ws[1:] {
		v := f(w)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return hi - lo
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
