package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cognicore/stylometer/pkg/stylometer/internalerr"
	"github.com/cognicore/stylometer/pkg/stylometer/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// TestSQLiteIntegrationBasic tests the report round trip
func TestSQLiteIntegrationBasic(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	created := time.Date(2024, 3, 1, 12, 30, 0, 123456789, time.UTC)
	r := store.Report{
		ID:         "01HQ0000000000000000000000",
		Method:     store.MethodDelta,
		N:          30,
		Subject:    "specialcase",
		Candidates: []string{"madison", "hamilton", "jay"},
		Scores: []store.Score{
			{Label: "jay", Value: 0.5},
			{Label: "madison", Value: 1.25},
			{Label: "hamilton", Value: 1.25},
		},
		CreatedAt: created,
	}
	if err := st.SaveReport(ctx, r); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	got, found, err := st.GetReport(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if !found {
		t.Fatal("Report should be found")
	}
	if got.Method != r.Method || got.N != r.N || got.Subject != r.Subject {
		t.Errorf("header mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, created)
	}
	if len(got.Candidates) != 3 || got.Candidates[1] != "hamilton" {
		t.Errorf("candidates mismatch: %v", got.Candidates)
	}
	if len(got.Scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(got.Scores))
	}
	for i, sc := range r.Scores {
		if got.Scores[i] != sc {
			t.Errorf("score %d: got %+v, want %+v", i, got.Scores[i], sc)
		}
	}

	if _, found, err := st.GetReport(ctx, "missing"); err != nil || found {
		t.Errorf("missing report: found=%v err=%v", found, err)
	}
}

func TestSQLiteReplaceScores(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	r := store.Report{
		ID:        "r1",
		Method:    store.MethodChiSquared,
		Scores:    []store.Score{{Label: "a", Value: 1}, {Label: "b", Value: 2}},
		CreatedAt: time.Now(),
	}
	if err := st.SaveReport(ctx, r); err != nil {
		t.Fatal(err)
	}
	r.Scores = []store.Score{{Label: "b", Value: 0.5}}
	if err := st.SaveReport(ctx, r); err != nil {
		t.Fatal(err)
	}

	got, _, err := st.GetReport(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Scores) != 1 || got.Scores[0].Label != "b" {
		t.Errorf("scores should be replaced, got %+v", got.Scores)
	}
}

func TestSQLiteListReports(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, method := range []string{store.MethodDelta, store.MethodChiSquared, store.MethodDelta, store.MethodSpectrum} {
		r := store.Report{
			ID:        string(rune('a' + i)),
			Method:    method,
			CreatedAt: base.Add(time.Duration(i) * 1500 * time.Millisecond),
		}
		if err := st.SaveReport(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	all, err := st.ListReports(ctx, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 || all[0].ID != "d" || all[3].ID != "a" {
		t.Errorf("expected newest first, got %+v", all)
	}

	deltas, err := st.ListReports(ctx, store.MethodDelta, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(deltas) != 1 || deltas[0].ID != "c" {
		t.Errorf("expected latest delta report, got %+v", deltas)
	}
}

func TestSQLiteRejectsEmptyID(t *testing.T) {
	st := openTestStore(t)
	err := st.SaveReport(context.Background(), store.Report{Method: store.MethodDelta})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSQLiteConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- st.SaveReport(ctx, store.Report{
				ID:        string(rune('A' + i)),
				Method:    store.MethodChiSquared,
				Scores:    []store.Score{{Label: "x", Value: float64(i)}},
				CreatedAt: time.Now(),
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("concurrent save: %v", err)
		}
	}

	all, err := st.ListReports(ctx, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 20 {
		t.Errorf("expected 20 reports, got %d", len(all))
	}
}
