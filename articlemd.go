// Package articlemd converts web pages (primarily scientific articles) into
// structured Markdown with extracted metadata. Raw HTML is parsed, the main
// article content is located heuristically, segmented into semantic sections,
// annotated with controlled-vocabulary entities, and rendered into one of
// several Markdown representations.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, htmltomarkdown/).
package articlemd
