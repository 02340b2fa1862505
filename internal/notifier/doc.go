// Package notifier delivers conference digests.
//
// A digest can be mailed to every recipient over SMTP, posted to Twitter as one
// tweet per conference, or printed instead of sent in dry-run mode.
package notifier
