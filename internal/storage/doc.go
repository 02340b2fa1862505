// Package storage provides JSON-based persistence for conference snapshots.
//
// A snapshot is the enriched conference collection of a run, written to
// snapshot.json in the data directory so later runs can re-filter and render it
// without crawling. The default storage location is ~/.local/share/conf-hunt/.
package storage
