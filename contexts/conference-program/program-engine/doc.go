// Package programengine implements the conference program and assignment
// engine inside the conference-program context.
//
// The module owns equitable bulk reviewer allocation, the manual assignment
// registry kept separate from bulk assignments, heuristic program generation
// from approved submissions, and attendee agenda conflict warnings. Bulk
// allocation and program generation are destructive replaces tracked by a
// per-event generation counter. Infrastructure sits behind ports with memory
// and postgres repositories plus bus and NATS notifiers.
package programengine
