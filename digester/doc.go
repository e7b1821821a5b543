// Package digester calculates SHA256 digests of rendered output and of files
// on disk, enabling skip-if-unchanged writes and stale-output checks.
package digester
