package seed

import (
	"context"
	"testing"
	"time"

	"insurance-tracker/internal/repository/repotest"
)

func TestApplyIsRepeatable(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	repotest.InsertCustomer(t, pool, "REAL-1", "Real Customer")
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for run := 0; run < 2; run++ {
		if err := Apply(ctx, pool, today, nil); err != nil {
			t.Fatalf("apply run %d: %v", run, err)
		}
	}

	counts := map[string]int{}
	for _, table := range []string{"customers", "insurances", "warranties", "defects"} {
		var n int
		if err := pool.QueryRow(ctx, `SELECT count(*) FROM `+table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		counts[table] = n
	}
	want := map[string]int{"customers": 6, "insurances": 5, "warranties": 2, "defects": 3}
	for table, n := range want {
		if counts[table] != n {
			t.Fatalf("%s: expected %d rows, got %d", table, n, counts[table])
		}
	}
}
