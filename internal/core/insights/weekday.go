package insights

// weekdayNames maps ISO weekday numbers (1=Monday .. 7=Sunday) to the
// display names used on the wire.
var weekdayNames = [...]string{
	1: "Lunes",
	2: "Martes",
	3: "Miércoles",
	4: "Jueves",
	5: "Viernes",
	6: "Sábado",
	7: "Domingo",
}

// WeekdayName returns the display name for an ISO weekday number.
func WeekdayName(n int) string {
	if n < 1 || n > 7 {
		return "Desconocido"
	}
	return weekdayNames[n]
}

// ValidISOWeekday reports whether n is in the ISO range 1-7.
func ValidISOWeekday(n int) bool {
	return n >= 1 && n <= 7
}

// ValidHour reports whether h is a valid hour of day.
func ValidHour(h int) bool {
	return h >= 0 && h <= 23
}

// HourInWindow reports whether hour falls within ±tolerance of target,
// wrapping modulo 24 so a target at the day boundary still has a full
// window (target 0, tolerance 1 matches hours 23, 0 and 1).
func HourInWindow(hour, target, tolerance int) bool {
	if hour < 0 || hour > 23 {
		return false
	}
	diff := (hour - target + 24) % 24
	return diff <= tolerance || diff >= 24-tolerance
}
