// Package cli implements the command-line interface for conf-hunt.
//
// The cli package provides the Cobra-based CLI: hunt crawls the conference
// listing and renders the filtered collection (text, table, JSON or iCalendar),
// show inspects a single conference page, digest delivers the collection by mail
// or Twitter, and schedule runs digest on a cron schedule. It coordinates the
// config, hunt, storage, digest and notifier packages.
package cli
