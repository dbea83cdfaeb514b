package domain

import "time"

var monthNames = []string{
	"", "янв", "фев", "мар", "апр", "мая", "июн",
	"июл", "авг", "сен", "окт", "ноя", "дек",
}

// DueLabel returns a user-friendly date of a review relative to now
func DueLabel(due, now time.Time) string {
	due = due.In(now.Location())

	if !due.After(now) || sameDay(due, now) {
		return "Сегодня"
	}
	if sameDay(due, now.AddDate(0, 0, 1)) {
		return "Завтра"
	}

	return due.Format("2 ") + monthNames[due.Month()] + due.Format(" 2006")
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
