// Package repocrawl crawls GitHub search results through caller-supplied
// proxies. For repository searches each result is enriched with its owner
// and the language breakdown shown on the repository page.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, rod/, gin/).
package repocrawl
