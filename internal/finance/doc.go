// Package finance is the monthly aggregation and projection engine.
//
// Every function here is a pure reduction over an already-loaded, immutable
// snapshot of records. Nothing is cached between calls and nothing talks to
// the record store, so evaluations for different users or months can run in
// parallel without coordination.
//
// Ratios follow one rule everywhere: a percentage of a non-positive whole is
// 0, never NaN and never an error.
package finance
