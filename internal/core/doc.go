// Package core provides the cleaning logic behind the web and CLI front ends.
//
// It has no knowledge of HTTP or terminals; handlers and commands pass it a
// file name and a reader and render what it returns.
//
// # Pipeline
//
// [Clean] runs three steps in order on an immutable table:
//
//  1. [RemoveDuplicates] keeps the first occurrence of each distinct row
//  2. [RemoveEmptyRows] drops rows where every value is missing
//  3. [NormalizeText] capitalizes the values of text columns
//
// and returns the cleaned table together with [Metrics] describing the run.
//
// # Service
//
// [Service] wraps the pipeline for concurrent callers. A [RunLimiter] bounds
// how many files are decoded at once, cleaned results are kept in memory
// until their TTL elapses, and each run can be recorded in an optional
// Postgres run log ([PostgresRunLog]). [Telemetry] exports Prometheus metrics
// for every run.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE007: File errors (size, format, encoding)
//   - RUN001-RUN004: Run errors (busy, expired, cancelled, timeout)
//   - DB001-DB004: Run log errors
//   - AUTH001, RATE001: Access errors
package core
