// Package datescrub removes dated content from personal data export archives.
// It locates content entries in exported HTML, reads the timestamps inside
// each entry, and discards entries whose whole time span falls outside a
// caller-supplied window. Media that surviving entries still reference is
// carried over to the cleaned archive.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, zip/).
package datescrub
