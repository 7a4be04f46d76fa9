package policy

import (
	"time"

	"cloud.google.com/go/civil"
)

// IsEligible reports whether someone born on birthdate is at least minAge
// years old on today. Turning minAge exactly today counts as eligible.
func IsEligible(birthdate civil.Date, minAge int, today civil.Date) bool {
	ageLimit := SubtractYears(today, minAge)
	return !birthdate.After(ageLimit)
}

// SubtractYears moves d back by n calendar years. Feb 29 lands on Feb 28
// when the target year is not a leap year.
func SubtractYears(d civil.Date, n int) civil.Date {
	out := civil.Date{Year: d.Year - n, Month: d.Month, Day: d.Day}
	if d.Month == time.February && d.Day == 29 && !isLeap(out.Year) {
		out.Day = 28
	}
	return out
}

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}
