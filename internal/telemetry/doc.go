// Package telemetry supervises the tegrastats process and publishes decoded
// samples.
//
// # Pipeline
//
//	tegrastats --interval N  ->  Source reader goroutine  ->  DecodeFunc
//	                                      |
//	                          atomic snapshot swap + Registry.Notify
//	                                      |
//	                     observers (History, CLI printers, ...)
//
// The reader goroutine is the only writer of the current snapshot. Readers
// call Source.Snapshot at their own pace and always see a complete sample:
// a new snapshot replaces the previous one wholesale, never field by field.
//
// # Lifecycle
//
// Open starts the process and blocks until the first sample is decoded, so
// callers never observe an empty snapshot after Open returns. Close kills the
// process; the reader sees EOF, reaps the child and exits. Lines that fail to
// decode are logged at debug level and skipped.
//
// # Observers
//
// Anything with an Update(*Snapshot) method can be attached. Plain functions
// are wrapped with Func. Each observer receives every snapshot published after
// it was attached, on the reader goroutine, so Update should return quickly.
package telemetry
