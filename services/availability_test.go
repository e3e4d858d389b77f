package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Shash-135/Synca/services"
)

func TestDateOnly(t *testing.T) {
	in := time.Date(2026, 10, 10, 18, 45, 12, 999, time.FixedZone("IST", 5*3600+1800))
	got := services.DateOnly(in)
	want := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	cases := []struct {
		start  string
		months int
		want   string
	}{
		{"2024-01-31", 1, "2024-02-29"}, // leap year
		{"2023-01-31", 1, "2023-02-28"},
		{"2024-01-31", 2, "2024-03-31"}, // clamp does not carry forward
		{"2026-10-31", 1, "2026-11-30"},
		{"2026-11-15", 2, "2027-01-15"}, // year rollover
		{"2026-10-10", 0, "2026-10-10"},
	}
	for _, c := range cases {
		start := day(t, c.start)
		if got := services.AddMonths(start, c.months); !got.Equal(day(t, c.want)) {
			t.Errorf("AddMonths(%s, %d): want %s, got %s", c.start, c.months, c.want, got.Format("2006-01-02"))
		}
	}
}

func TestEnforceLockIn(t *testing.T) {
	if err := services.EnforceLockIn(0, day(t, "2026-10-01"), day(t, "2026-10-02")); err != nil {
		t.Fatalf("no lock-in must accept any valid range: %v", err)
	}

	// min checkout for Jan 31 + 1 month is Feb 28 (2023 is not a leap year)
	if err := services.EnforceLockIn(1, day(t, "2023-01-31"), day(t, "2023-02-27")); !errors.Is(err, services.ErrLockInViolation) {
		t.Fatalf("want ErrLockInViolation, got %v", err)
	}
	if err := services.EnforceLockIn(1, day(t, "2023-01-31"), day(t, "2023-02-28")); err != nil {
		t.Fatalf("clamped boundary must pass: %v", err)
	}

	if err := services.EnforceLockIn(3, day(t, "2026-10-01"), day(t, "2027-06-01")); err != nil {
		t.Fatalf("longer stays always pass: %v", err)
	}
}

func TestIsRangeFreeIgnoresCancelledAndSelf(t *testing.T) {
	db := setupTestDB(t)
	fx := seedInventory(t, db, 0, nil)

	b := mustBook(t, fx.bed.ID, day(t, "2026-10-10"), day(t, "2026-10-20"), nil)

	free, err := services.IsRangeFree(db, fx.bed.ID, day(t, "2026-10-15"), day(t, "2026-10-25"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if free {
		t.Fatal("overlapping range reported free")
	}

	// the booking does not conflict with itself
	free, err = services.IsRangeFree(db, fx.bed.ID, day(t, "2026-10-10"), day(t, "2026-10-20"), b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !free {
		t.Fatal("self-excluded check must report free")
	}

	if _, err := services.Cancel(b.ID); err != nil {
		t.Fatal(err)
	}
	free, err = services.IsRangeFree(db, fx.bed.ID, day(t, "2026-10-10"), day(t, "2026-10-20"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !free {
		t.Fatal("cancelled bookings must not block the range")
	}
}

func TestIsRangeFreeOtherBedUnaffected(t *testing.T) {
	db := setupTestDB(t)
	fx := seedInventory(t, db, 0, nil)

	other, err := services.AddBed(fx.room.ID, "B", nil)
	if err != nil {
		t.Fatal(err)
	}
	mustBook(t, fx.bed.ID, day(t, "2026-10-10"), day(t, "2026-10-20"), nil)

	free, err := services.IsRangeFree(db, other.ID, day(t, "2026-10-10"), day(t, "2026-10-20"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !free {
		t.Fatal("bookings on one bed must not block another")
	}
}
