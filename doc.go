/*
Package transitions is a hierarchical (nested) finite state machine engine.
States form a tree; the machine flattens the tree into a single table of
dotted qualified names ("caffeinated.dispensing") and routes every trigger
through one flat core, so nesting costs nothing at dispatch time.

# Concept

A nested state is declared once, as a tree, and addressed everywhere by its
qualified name. When a transition crosses subtree boundaries the machine
exits exactly the states that are left (children before parents) and enters
exactly the states that are reached (parents before children); the deepest
common ancestor and everything above it stay untouched. Triggers declared on
a parent are inherited by its children: firing a trigger bubbles from the
active leaf up the ancestor chain and the nearest declaration wins.

# Key Features

  - Qualified addressing: every state in the tree has one flat dotted name.
  - Correct nested walks: least-common-ancestor exit/enter ordering.
  - Trigger inheritance: parent triggers fire from any descendant state.
  - Machine embedding: a finished machine can be mounted as a subtree of
    another, with optional remapping of its final states.
  - Auto transitions: each state gets a to_<name> trigger usable from
    anywhere, also reachable through a chainable namespace tree.
  - Session persistence: execution snapshots (never definitions) can be
    stored in memory or Redis and resumed later.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/alvion/transitions"
		"github.com/alvion/transitions/pkg/domain"
	)

	func main() {
		m, err := transitions.New(
			transitions.WithInitial("standing"),
			transitions.WithStates(
				domain.StateSpec{Name: "caffeinated", Children: []any{
					"dispensing",
					"ready",
				}},
				"standing",
			),
		)
		if err != nil {
			log.Fatal(err)
		}

		m.AddTransition("drink", "standing", "caffeinated.dispensing")
		m.AddTransition("done", "caffeinated", "standing")

		m.Fire("drink")
		fmt.Println(m.Current().Name()) // caffeinated.dispensing

		// "done" is declared on the parent, so it fires from the child too.
		m.Fire("done")
		fmt.Println(m.Current().Name()) // standing
	}

The machine core is synchronous and single-caller. For concurrent use over
many persisted sessions, wrap it in a session.Manager and a ports.StateStore.
*/
package transitions
