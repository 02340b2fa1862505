// Package calendar exports conferences as iCalendar files.
package calendar
