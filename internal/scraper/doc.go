// Package scraper fetches and parses conference index pages.
//
// A Fetcher performs one GET per page and returns the page parsed once into a
// Document. ParseListing turns a listing page into conference summaries, the
// Enricher reads a conference's detail page into its record, the SpeakerResolver
// scans the program page for known speakers, and the Crawler walks the paginated
// listing until its stopping rule fires. All fetching is sequential.
package scraper
