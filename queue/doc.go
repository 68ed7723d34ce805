// Package queue provides Redis-backed job distribution for the analysis
// pipeline.
//
// Submitters push analysis jobs onto a shared list (LPUSH) and subscribe
// to a job-specific pub/sub channel for the result. Workers block on the
// list (BRPOP), run the pipeline, and publish the finished report to the
// job's channel. A heartbeat key with a short TTL advertises worker
// liveness.
//
// The queue is a transport layer only: the analysis itself stays pure, so
// a job replayed through a different worker produces a byte-identical
// report.
package queue
