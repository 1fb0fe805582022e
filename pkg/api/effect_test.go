package api

import (
	"context"
	"errors"
	"testing"
	"time"
)

type nilEnv struct{}

// walkLog records every leaf a Walk visits, for structural assertions.
type walkLog struct {
	entries []string
}

func (l *walkLog) visitor() EffectVisitor[nilEnv, string] {
	return EffectVisitor[nilEnv, string]{
		Emit: func(events []string, id TaskID, delay time.Duration) error {
			entry := "emit"
			for _, ev := range events {
				entry += ":" + ev
			}
			if id != "" {
				entry += "@" + string(id)
			}
			if delay > 0 {
				entry += "+delay"
			}
			l.entries = append(l.entries, entry)
			return nil
		},
		Action: func(fn ActionFunc[nilEnv, string]) error {
			l.entries = append(l.entries, "action")
			return nil
		},
		Operation: func(id TaskID, fn OperationFunc[nilEnv, string]) error {
			l.entries = append(l.entries, "operation@"+string(id))
			return nil
		},
		Cancel: func(id TaskID) error {
			l.entries = append(l.entries, "cancel@"+string(id))
			return nil
		},
	}
}

func assertEntries(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected entries %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected entries %v, got %v", want, got)
		}
	}
}

func TestEffect_ZeroValueIsNone(t *testing.T) {
	var e Effect[nilEnv, string]
	if !e.IsNone() {
		t.Fatal("zero effect should be none")
	}
	if !None[nilEnv, string]().IsNone() {
		t.Fatal("None() should be none")
	}
	if Emit[nilEnv, string]("x").IsNone() {
		t.Fatal("Emit should not be none")
	}

	var log walkLog
	if err := e.Walk(log.visitor()); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	assertEntries(t, log.entries, nil)
}

func TestEffect_WalkVisitsLeaves(t *testing.T) {
	e := Batch(
		Emit[nilEnv, string]("a", "b"),
		EmitAfter[nilEnv, string]("timer", time.Second, "later"),
		Do[nilEnv, string](func(ctx context.Context, env nilEnv) ([]string, error) { return nil, nil }),
		SpawnNamed[nilEnv, string]("worker", func(ctx context.Context, env nilEnv, input Input[string]) error { return nil }),
		Cancel[nilEnv, string]("worker"),
	)

	var log walkLog
	if err := e.Walk(log.visitor()); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	assertEntries(t, log.entries, []string{
		"emit:a:b",
		"emit:later@timer+delay",
		"action",
		"operation@worker",
		"cancel@worker",
	})
}

func TestEffect_SpawnCarriesNoIdentifier(t *testing.T) {
	e := Spawn[nilEnv, string](func(ctx context.Context, env nilEnv, input Input[string]) error { return nil })

	var log walkLog
	if err := e.Walk(log.visitor()); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	assertEntries(t, log.entries, []string{"operation@"})
}

func TestEffect_BatchFlattening(t *testing.T) {
	if !Batch[nilEnv, string]().IsNone() {
		t.Fatal("empty batch should be none")
	}

	single := Batch(Emit[nilEnv, string]("x"))
	var log walkLog
	if err := single.Walk(log.visitor()); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	assertEntries(t, log.entries, []string{"emit:x"})
}

func TestEffect_NestedBatchKeepsOrder(t *testing.T) {
	e := Batch(
		Emit[nilEnv, string]("1"),
		Batch(
			Emit[nilEnv, string]("2"),
			Emit[nilEnv, string]("3"),
		),
		Emit[nilEnv, string]("4"),
	)

	var log walkLog
	if err := e.Walk(log.visitor()); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	assertEntries(t, log.entries, []string{"emit:1", "emit:2", "emit:3", "emit:4"})
}

func TestEffect_WalkStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	e := Batch(
		Emit[nilEnv, string]("1"),
		Cancel[nilEnv, string]("x"),
		Emit[nilEnv, string]("2"),
	)

	var visited []string
	err := e.Walk(EffectVisitor[nilEnv, string]{
		Emit: func(events []string, id TaskID, delay time.Duration) error {
			visited = append(visited, events[0])
			return nil
		},
		Cancel: func(id TaskID) error {
			return boom
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected walk to return the callback error, got %v", err)
	}
	assertEntries(t, visited, []string{"1"})
}
