package renewal

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDueIncludesEveryPassedAnniversary(t *testing.T) {
	got := Due(date("2022-03-01"), date("2025-03-01"), date("2024-03-15"))
	if len(got) != 2 {
		t.Fatalf("expected checkpoints for 2023 and 2024, got %+v", got)
	}
	if got[1].Year != 2024 || !got[1].DueDate.Equal(date("2024-03-01")) {
		t.Fatalf("unexpected 2024 checkpoint %+v", got[1])
	}
	if got[0].Year != 2023 || !got[0].DueDate.Equal(date("2023-03-01")) {
		t.Fatalf("unexpected 2023 checkpoint %+v", got[0])
	}
}

func TestDueSkipsFirstYearAndFuture(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		today      string
		years      []int
	}{
		{"single year policy", "2024-01-01", "2024-12-31", "2024-06-01", nil},
		{"before first anniversary", "2023-07-01", "2026-07-01", "2024-06-30", nil},
		{"on anniversary", "2023-07-01", "2026-07-01", "2024-07-01", []int{2024}},
		{"ended today", "2022-03-01", "2025-03-01", "2025-03-01", nil},
		{"ended", "2020-01-01", "2022-01-01", "2024-01-01", nil},
		{"end year checkpoint needs today before end", "2023-01-10", "2024-12-01", "2024-11-30", nil},
		{"start late in year", "2023-12-31", "2025-06-30", "2025-06-29", []int{2024}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Due(date(tc.start), date(tc.end), date(tc.today))
			if len(got) != len(tc.years) {
				t.Fatalf("expected years %v, got %+v", tc.years, got)
			}
			for i, y := range tc.years {
				if got[i].Year != y {
					t.Fatalf("expected years %v, got %+v", tc.years, got)
				}
			}
		})
	}
}

func TestDueNeverExceedsYearSpan(t *testing.T) {
	start, end := date("2020-05-20"), date("2027-05-20")
	for d := start; d.Before(end); d = d.AddDate(0, 0, 17) {
		if n := len(Due(start, end, d)); n > end.Year()-start.Year() {
			t.Fatalf("today %s: %d checkpoints", d.Format("2006-01-02"), n)
		}
	}
}

func TestAnniversaryLeapDay(t *testing.T) {
	end := date("2028-02-29")
	if got := Anniversary(end, 2025); !got.Equal(date("2025-02-28")) {
		t.Fatalf("expected clamp to Feb 28, got %s", got)
	}
	if got := Anniversary(end, 2024); !got.Equal(date("2024-02-29")) {
		t.Fatalf("expected Feb 29 in leap year, got %s", got)
	}
	if got := Anniversary(end, 2100); !got.Equal(date("2100-02-28")) {
		t.Fatalf("2100 is not a leap year, got %s", got)
	}
}

func TestDueLeapDayPolicy(t *testing.T) {
	got := Due(date("2024-02-29"), date("2028-02-29"), date("2025-02-28"))
	if len(got) != 1 || got[0].Year != 2025 || !got[0].DueDate.Equal(date("2025-02-28")) {
		t.Fatalf("unexpected checkpoints %+v", got)
	}
}
