// Package pagemig migrates a page-builder travel website into a normalized
// record store. It fetches raw pages and REST API collections from the
// source site, recovers structured records (routes, safaris, destinations,
// day trips, blog posts) from free-form markup, and upserts them by slug.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, resty/).
package pagemig
