package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lodge/internal/domains/booking/model"
	"lodge/shared/timezone"
)

func date(value string) time.Time {
	parsed, err := timezone.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}

	return parsed
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		want     int
	}{
		{"two nights", "2026-03-10", "2026-03-12", 2},
		{"one night", "2026-03-10", "2026-03-11", 1},
		{"same day", "2026-03-10", "2026-03-10", 0},
		{"full week", "2026-03-01", "2026-03-08", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.Nights(date(tt.checkIn), date(tt.checkOut)))
		})
	}
}

func TestNightsPartialDayRoundsUp(t *testing.T) {
	checkIn := date("2026-03-10")
	checkOut := checkIn.Add(36 * time.Hour)

	assert.Equal(t, 2, model.Nights(checkIn, checkOut))
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		aIn  string
		aOut string
		bIn  string
		bOut string
		want bool
	}{
		{"identical stays", "2026-03-10", "2026-03-12", "2026-03-10", "2026-03-12", true},
		{"partial overlap", "2026-03-10", "2026-03-14", "2026-03-12", "2026-03-16", true},
		{"contained stay", "2026-03-10", "2026-03-20", "2026-03-12", "2026-03-14", true},
		{"checkout day is free for new check-in", "2026-03-10", "2026-03-12", "2026-03-12", "2026-03-14", false},
		{"disjoint stays", "2026-03-10", "2026-03-12", "2026-03-20", "2026-03-22", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.Overlaps(date(tt.aIn), date(tt.aOut), date(tt.bIn), date(tt.bOut))
			assert.Equal(t, tt.want, got)

			// Overlap is symmetric.
			swapped := model.Overlaps(date(tt.bIn), date(tt.bOut), date(tt.aIn), date(tt.aOut))
			assert.Equal(t, got, swapped)
		})
	}
}

func TestHoldsRoom(t *testing.T) {
	assert.True(t, model.HoldsRoom(model.StatusConfirmed))
	assert.True(t, model.HoldsRoom(model.StatusCheckedIn))
	assert.True(t, model.HoldsRoom(model.StatusCheckedOut))
	assert.True(t, model.HoldsRoom(model.StatusNoShow))
	assert.False(t, model.HoldsRoom(model.StatusCancelled))
}

func TestTotalGuests(t *testing.T) {
	booking := model.Booking{Adults: 2, Children: 1, Infants: 1}

	assert.Equal(t, 4, booking.TotalGuests())
}
