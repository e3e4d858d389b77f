package services_test

import (
	"testing"
	"time"

	"github.com/Shash-135/Synca/models"
	"github.com/Shash-135/Synca/services"
)

func TestClassify(t *testing.T) {
	now := time.Date(2026, 10, 15, 13, 30, 0, 0, time.UTC)
	cancelledAt := now.Add(-time.Hour)

	cases := []struct {
		name    string
		booking models.Booking
		want    services.BookingStatus
	}{
		{
			name:    "upcoming",
			booking: models.Booking{CheckIn: day(t, "2026-10-16"), CheckOut: day(t, "2026-10-20")},
			want:    services.StatusUpcoming,
		},
		{
			name:    "active on check-in day",
			booking: models.Booking{CheckIn: day(t, "2026-10-15"), CheckOut: day(t, "2026-10-20")},
			want:    services.StatusActive,
		},
		{
			name:    "active mid-stay",
			booking: models.Booking{CheckIn: day(t, "2026-10-10"), CheckOut: day(t, "2026-10-20")},
			want:    services.StatusActive,
		},
		{
			name:    "completed on checkout day",
			booking: models.Booking{CheckIn: day(t, "2026-10-10"), CheckOut: day(t, "2026-10-15")},
			want:    services.StatusCompleted,
		},
		{
			name:    "completed in the past",
			booking: models.Booking{CheckIn: day(t, "2026-09-01"), CheckOut: day(t, "2026-09-10")},
			want:    services.StatusCompleted,
		},
		{
			name: "cancelled wins over active dates",
			booking: models.Booking{
				CheckIn: day(t, "2026-10-10"), CheckOut: day(t, "2026-10-20"),
				Cancelled: true, CancelledAt: &cancelledAt,
			},
			want: services.StatusCancelled,
		},
		{
			name: "cancelled wins over upcoming dates",
			booking: models.Booking{
				CheckIn: day(t, "2026-11-01"), CheckOut: day(t, "2026-11-10"),
				Cancelled: true,
			},
			want: services.StatusCancelled,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := services.Classify(&c.booking, now); got != c.want {
				t.Fatalf("want %s, got %s", c.want, got)
			}
		})
	}
}

func TestStatusCounts(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{CheckIn: day(t, "2026-10-16"), CheckOut: day(t, "2026-10-20")},                  // upcoming
		{CheckIn: day(t, "2026-10-10"), CheckOut: day(t, "2026-10-20")},                  // active
		{CheckIn: day(t, "2026-09-01"), CheckOut: day(t, "2026-09-10")},                  // completed
		{CheckIn: day(t, "2026-10-10"), CheckOut: day(t, "2026-10-20"), Cancelled: true}, // cancelled
		{CheckIn: day(t, "2026-10-18"), CheckOut: day(t, "2026-10-22")},                  // upcoming
	}

	counts := services.StatusCounts(bookings, now)
	if counts["upcoming"] != 2 || counts["active"] != 1 || counts["completed"] != 1 || counts["cancelled"] != 1 {
		t.Fatalf("bad counts: %v", counts)
	}
	if counts["all"] != 5 {
		t.Fatalf("want all=5, got %d", counts["all"])
	}

	grouped := services.GroupByStatus(bookings, now)
	if len(grouped[services.StatusUpcoming]) != 2 || len(grouped[services.StatusCancelled]) != 1 {
		t.Fatalf("bad grouping: %d upcoming, %d cancelled",
			len(grouped[services.StatusUpcoming]), len(grouped[services.StatusCancelled]))
	}
}
