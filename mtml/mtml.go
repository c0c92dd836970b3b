// Package mtml implements Go bindings for MTML, the management library for
// MT-series GPUs (libmtml.so).
//
// MTML exposes a hierarchy of opaque handles: a process-wide library handle,
// one device handle per physical board, and per-device sub-component handles
// (GPU, Memory, VPU) with explicit acquire/release lifecycles.
//
// The shared library is loaded dynamically on the first successful Init and
// unloaded when the matching Shutdown brings the init count back to zero.
// Any number of Init/Shutdown cycles are supported within one process.
// Every other operation fails with an Uninitialized error while the library
// is not initialized, without touching the native layer.
//
// Handles carry no synchronization of their own: concurrent use of the same
// handle from multiple goroutines follows the native library's contract and
// is the caller's responsibility. Init and Shutdown themselves are safe to
// call concurrently.
package mtml

// The canonical error kinds are shared with the nvml compatibility package.
//go:generate go tool enumer -type=Kind kind.go
