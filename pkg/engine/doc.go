// Package engine is a compact reference implementation of the core.Engine
// contract.
//
// Text and List containers are replicated growable arrays: every element
// carries a unique (peer, counter) id and a Lamport timestamp, and is
// integrated to the right of its origin element, skipping concurrent
// siblings with a larger timestamp. Deleted elements remain as tombstones.
// Map entries resolve concurrent writes by (lamport, peer), last write wins.
//
// Local edits accumulate as pending operations until Commit groups them into
// a Change. Export serializes every Change; Import applies foreign changes in
// any order, parking operations whose causal dependencies have not arrived
// yet and skipping operations it has already seen.
//
// A Document is not safe for concurrent use.
package engine
