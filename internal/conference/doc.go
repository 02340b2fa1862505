// Package conference provides the conference record types, date resolution for
// conference listing and detail pages, and an always-sorted collection of records.
//
// A Summary is what a listing page knows about an event. A Record extends it with
// the description, tags, attributes, keywords and speakers gathered by enrichment.
// List keeps records in ascending date order after every mutation and renders them
// as plain lines or as a table.
package conference
