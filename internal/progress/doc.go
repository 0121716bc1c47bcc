// Package progress carries the run/day/attempt event stream emitted while
// scraping. Events flow through a non-blocking Hub into pluggable sinks; the
// pipeline never waits on observability.
package progress
