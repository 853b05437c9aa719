// Package mirror reconciles calendar events into a Notion database.
//
// The calendar is the source of truth. Every run queries both sides live and
// converges the database onto the current event set; nothing is remembered
// between runs, so a run can never act on stale sync state.
//
// # Identity
//
// Events and pages are matched through a stable identity string: the
// provider's event UID with its well-known suffix stripped, or a weak
// composite of start instant and title when no UID exists. The identity is
// written into a dedicated rich-text property of every mirrored page and read
// back during the archive phase.
//
// # Run shape
//
// Each run walks two strictly ordered phases:
//
//  1. Upsert: every event is projected onto the database schema, pruned to
//     the fields the database actually defines, and written - updating the
//     page carrying its identity or creating a fresh one.
//  2. Archive: every in-range page whose identity no current event claims is
//     flagged archived, including pages whose identity cannot be read.
//
// Per-identity failures are collected as outcomes rather than aborting the
// batch; the run report carries the aggregate counts.
//
// # Entry points
//
// FullResync mirrors the current calendar month. RollingSync mirrors from the
// first of the current month up to a configurable lookahead horizon. Both are
// reachable through the CLI, the HTTP trigger endpoints and the in-process
// scheduler.
package mirror
