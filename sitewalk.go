// Package sitewalk discovers the set of pages on a website worth
// capturing and fetches their raw HTML reliably despite transient
// network failures, rate limiting, and JavaScript-rendered pages.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., http/,
// rod/, goquery/).
package sitewalk
