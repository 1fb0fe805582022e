package transiro_test

import (
	"context"
	"fmt"
	"log"

	"github.com/petrijr/transiro"
)

// CounterEvent drives the example machine.
type CounterEvent string

// CounterState accumulates the count and remembers when to stop.
type CounterState struct {
	Count int
	Done  bool
}

// Example demonstrates assembling and running a small transducer with the
// high-level builder API and a buffered event channel.
func Example() {
	ctx := context.Background()

	update := func(s *CounterState, ev CounterEvent) (transiro.Effect[struct{}, CounterEvent], *int) {
		switch ev {
		case "inc":
			s.Count++
			out := s.Count
			return transiro.None[struct{}, CounterEvent](), &out
		case "stop":
			s.Done = true
		}
		return transiro.None[struct{}, CounterEvent](), nil
	}

	events := transiro.NewBuffered[CounterEvent](8)
	for _, ev := range []CounterEvent{"inc", "inc", "stop"} {
		if err := events.Send(ev); err != nil {
			log.Fatal(err)
		}
	}

	final, err := transiro.NewProgram(CounterState{}, update).
		Sink(func(out int) { fmt.Println("count:", out) }).
		Terminal(func(s CounterState) bool { return s.Done }).
		Run(ctx, events)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("final:", final)
	// Output:
	// count: 1
	// count: 2
	// final: 2
}

// ExampleEmit shows a transition synthesizing follow-up events that are
// processed depth-first, ahead of anything else in the channel.
func ExampleEmit() {
	ctx := context.Background()

	type state struct{ done bool }

	update := func(s *state, ev string) (transiro.Effect[struct{}, string], *string) {
		out := ev
		switch ev {
		case "begin":
			return transiro.Emit[struct{}, string]("step-1", "step-2"), &out
		case "end":
			s.done = true
		}
		return transiro.None[struct{}, string](), &out
	}

	events := transiro.NewBuffered[string](8)
	_ = events.Send("begin")
	_ = events.Send("end")

	_, err := transiro.NewProgram(state{}, update).
		Sink(func(out string) { fmt.Println(out) }).
		Terminal(func(s state) bool { return s.done }).
		Run(ctx, events)
	if err != nil {
		log.Fatal(err)
	}

	// Output:
	// begin
	// step-1
	// step-2
	// end
}
