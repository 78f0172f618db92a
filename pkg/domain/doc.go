// Package domain contains the core types of the state machine: hierarchical
// state nodes, transition records, event data and the declarative state spec.
//
// Types here are pure data plus the tree walks that belong to the state node
// itself (qualified naming, nested exit/enter ordering). Everything that needs
// a registry or an active-state pointer lives in the runtime engine.
package domain
