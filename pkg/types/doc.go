// Package types defines the core types and interfaces used throughout homie.
// This includes the placement vocabulary (Strategy, ActionKind, TargetState,
// Outcome), the Unit that the walker produces and the engine reconciles, and
// the FS interface every filesystem-touching package depends on.
package types
