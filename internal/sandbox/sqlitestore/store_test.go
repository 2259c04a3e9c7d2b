package sqlitestore_test

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/Ratio1/crud_sdk_go/internal/devseed"
	"github.com/Ratio1/crud_sdk_go/internal/sandbox/sqlitestore"
	"github.com/Ratio1/crud_sdk_go/pkg/crud"
)

func openStore(t *testing.T) *sqlitestore.Store {
	t.Helper()
	s, err := sqlitestore.Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	client := crud.NewWithBackend(openStore(t))
	ctx := context.Background()

	created, err := client.Create(ctx, crud.CreateData{Value: 1.5, TxHash: "0xabc"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.Status != "created" {
		t.Fatalf("unexpected create result %#v", created)
	}

	got, err := client.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Value != 1.5 || got.TxHash != "0xabc" {
		t.Fatalf("unexpected get result %#v", got)
	}

	if _, err := client.Update(ctx, created.ID, crud.UpdateData{}.SetValue(7)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = client.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if got.Value != 7 || got.TxHash != "0xabc" {
		t.Fatalf("partial update must keep txHash: %#v", got)
	}

	deleted, err := client.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.Status != "deleted" {
		t.Fatalf("unexpected delete result %#v", deleted)
	}
	_, err = client.Get(ctx, created.ID)
	var cerr *crud.Error
	if !errors.As(err, &cerr) || cerr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
}

func TestStoreRejectsInvalidPayloads(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, []byte(`{"value":"1","txHash":"0x1"}`)); !errors.Is(err, crud.ErrRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if _, err := s.Update(ctx, "x", []byte(`{}`)); !errors.Is(err, crud.ErrRemote) || err.Error() != "Update data is required" {
		t.Fatalf("expected update data error, got %v", err)
	}
	if _, err := s.Update(ctx, "x", []byte(`{"value":2}`)); !errors.Is(err, crud.ErrRemote) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.Delete(ctx, "x"); !errors.Is(err, crud.ErrRemote) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStoreSeedPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.db")
	ctx := context.Background()

	s, err := sqlitestore.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	err = s.Seed(ctx, []devseed.ItemSeedEntry{
		{ID: "seed-1", Value: 10, TxHash: "0x10"},
		{Value: 11, TxHash: "0x11"},
	})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := s.Seed(ctx, []devseed.ItemSeedEntry{{ID: "seed-1"}}); err == nil {
		t.Fatalf("expected duplicate seed error")
	}
	s.Close()

	reopened, err := sqlitestore.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	n, err := reopened.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
	got, err := crud.NewWithBackend(reopened).Get(ctx, "seed-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Value != 10 || got.TxHash != "0x10" {
		t.Fatalf("unexpected seeded item %#v", got)
	}
}
