package file

import (
	"context"
	"errors"
	"testing"

	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/repository/repotest"
)

func TestPostgres_CreateListDelete(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	repotest.InsertCustomer(t, pool, "C-1", "Alpha")
	repo := NewPostgres(pool, nil)

	created, err := repo.Create(ctx, domain.CustomerFile{
		CustomerID:  "C-1",
		ObjectKey:   "customers/C-1/abc.pdf",
		FileName:    "policy.pdf",
		ContentType: "application/pdf",
		Size:        2048,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 || created.UploadedAt.IsZero() {
		t.Fatalf("unexpected file %+v", created)
	}

	if _, err := repo.Create(ctx, domain.CustomerFile{CustomerID: "C-1", ObjectKey: "customers/C-1/abc.pdf", FileName: "x"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for reused key, got %v", err)
	}

	list, err := repo.ListByCustomer(ctx, "C-1")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListByCustomer: %+v (%v)", list, err)
	}

	if _, err := pool.Exec(ctx, `DELETE FROM customers WHERE id = 'C-1'`); err != nil {
		t.Fatalf("delete customer: %v", err)
	}
	if _, err := repo.Get(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected cascade delete, got %v", err)
	}
}
