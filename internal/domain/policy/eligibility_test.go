package policy

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func date(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func TestIsEligible(t *testing.T) {
	today := date(2024, 6, 15)
	tests := []struct {
		name      string
		birthdate civil.Date
		minAge    int
		want      bool
	}{
		{name: "exactly_min_age", birthdate: date(2006, 6, 15), minAge: 18, want: true},
		{name: "one_day_short", birthdate: date(2006, 6, 16), minAge: 18, want: false},
		{name: "well_over", birthdate: date(2000, 12, 30), minAge: 18, want: true},
		{name: "child", birthdate: date(2010, 12, 30), minAge: 18, want: false},
		{name: "zero_min_age_born_today", birthdate: today, minAge: 0, want: true},
		{name: "configured_21", birthdate: date(2004, 6, 15), minAge: 21, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEligible(tt.birthdate, tt.minAge, today))
		})
	}
}

func TestSubtractYears(t *testing.T) {
	tests := []struct {
		name string
		in   civil.Date
		n    int
		want civil.Date
	}{
		{name: "plain", in: date(2024, 6, 15), n: 18, want: date(2006, 6, 15)},
		{name: "leap_to_non_leap", in: date(2024, 2, 29), n: 18, want: date(2006, 2, 28)},
		{name: "leap_to_leap", in: date(2024, 2, 29), n: 4, want: date(2020, 2, 29)},
		{name: "century_non_leap", in: date(2000, 2, 29), n: 100, want: date(1900, 2, 28)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubtractYears(tt.in, tt.n))
		})
	}
}
