package service_test

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"floorplan/internal/domain"
	"floorplan/internal/service"
)

func TestScheduler_RunReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fp := f.plan(t, 800, 600)
	tbl, _ := f.tables.AddTable(ctx, fp.ID, twoTop, 0)
	f.tables.SetStatus(ctx, tbl.ID, domain.TableStatusOccupied)

	s := service.NewScheduler(f.tables, log.New(io.Discard))
	n, err := s.RunReset(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 table reset, got %d", n)
	}
	got, _ := f.tables.GetTable(ctx, tbl.ID)
	if got.Status != domain.TableStatusAvailable {
		t.Errorf("expected available, got %s", got.Status)
	}
}

func TestScheduler_Start(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := service.NewScheduler(f.tables, log.New(io.Discard))

	if err := s.Start(ctx, "not a schedule"); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
	if err := s.Start(ctx, "0 4 * * *"); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Stop(ctx)
}
