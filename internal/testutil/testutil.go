// Package testutil provides test helpers shared across packages. The
// miniredis helpers give unit tests an in-memory Redis without Docker.
package testutil
