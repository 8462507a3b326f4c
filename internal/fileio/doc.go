// Package fileio reads and writes documents on disk and watches them for
// outside changes.
//
// OS is the real implementation: reads detect the line ending and refuse
// binary files, writes go to a temporary file that is renamed over the
// target so a failed save never truncates it. MemFS is an in-memory
// stand-in for tests. Watcher reports when a watched file is changed by
// another program.
package fileio
