package scraper

import (
	"errors"

	"github.com/pfrederiksen/conf-hunt/internal/conference"
)

// ErrNoProgramURL is returned when a record has no program page to scan.
var ErrNoProgramURL = errors.New("no program URL")

// SpeakerResolver finds known speakers on conference program pages.
type SpeakerResolver struct {
	fetcher  Fetcher
	names    []string
	enricher *Enricher
}

// NewSpeakerResolver creates a resolver for the given speaker names. The enricher
// is used to look up a missing program URL and may be nil.
func NewSpeakerResolver(fetcher Fetcher, names []string, enricher *Enricher) *SpeakerResolver {
	return &SpeakerResolver{
		fetcher:  fetcher,
		names:    names,
		enricher: enricher,
	}
}

// Resolve sets rec.Speakers to the known names occurring on its program page.
//
// When the record has no program URL and enrich is set, the detail page is
// enriched first and the lookup retried once. A record that still has no
// program URL yields ErrNoProgramURL and an empty speaker list.
func (s *SpeakerResolver) Resolve(rec *conference.Record, enrich bool) error {
	programURL, ok := rec.ProgramURL()
	if !ok && enrich && s.enricher != nil {
		if err := s.enricher.Enrich(rec); err != nil {
			return err
		}
		programURL, ok = rec.ProgramURL()
	}
	if !ok {
		rec.Speakers = []string{}
		return ErrNoProgramURL
	}

	doc, err := s.fetcher.Fetch(programURL)
	if err != nil {
		return err
	}
	rec.Speakers = conference.MatchSpeakers(s.names, doc.Text())
	return nil
}
