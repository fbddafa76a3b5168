// Package rate enforces the per-address failed-login budget.
//
// Each origin address moves through three states driven by wall-clock
// time: unthrottled (no record), tracking (failures inside the window),
// and locked (budget exhausted, timed lockout). Expired records are purged
// both lazily on Allow and by the reclaimer's Sweep.
//
// The limiter is independent of the token engine and never fails; every
// operation is a bounded in-memory critical section.
package rate
