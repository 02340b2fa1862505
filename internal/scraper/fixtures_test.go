package scraper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type listingEvent struct {
	date     time.Time
	name     string
	location string
	href     string
}

// listingHTML renders events as a listing page, opening a new month group
// whenever the month changes.
func listingHTML(events []listingEvent) string {
	var sb strings.Builder
	sb.WriteString(`<html><body><header><nav><ul><li><a href="/login" title="Login">Login</a></li></ul></nav></header>`)
	sb.WriteString(`<div id="eventList">`)
	current := ""
	for _, e := range events {
		group := e.date.Format("January 2006")
		if group != current {
			if current != "" {
				sb.WriteString(`</ul></div>`)
			}
			fmt.Fprintf(&sb, `<div class="card"><div class="card-header">%s</div><ul class="list-group">`, group)
			current = group
		}
		fmt.Fprintf(&sb, `<li class="list-group-item"><span>%s</span> <a href="%s" title="%s">%s</a> <span>- %s</span></li>`,
			e.date.Format("Jan 2"), e.href, e.name, e.name, e.location)
	}
	if current != "" {
		sb.WriteString(`</ul></div>`)
	}
	sb.WriteString(`</div><footer><ul><li><a href="/privacy">Privacy</a></li></ul></footer></body></html>`)
	return sb.String()
}

const detailHTML = `
<html>
	<body>
		<header><h1>Conference Index</h1><a href="/about">About</a></header>
		<div class="col-lg-9 col-sm-12"><h1>International Conference on Quantum Optics</h1></div>
		<div id="event-description">
			Welcome to QOPT.<br>Topics include Quantum Optics and ENTANGLEMENT.<br><br>See you there.
		</div>
		<ul class="list-unstyled">
			<li class="mt-3">Tags: <a href="/t/quantum">Quantum Physics</a> <a href="/t/optics">Optics</a></li>
		</ul>
		<ul class="mb-2 list-unstyled">
			<li class="font-weight-bold">Event details</li>
			<li>Date: Mon January 12-14 2026</li>
			<li>Location: Delft, Netherlands</li>
			<li>Program URL: <a href="/program">Programme</a></li>
			<li>Website: https://qopt.example.com</li>
		</ul>
		<footer><a href="/privacy">Privacy</a></footer>
	</body>
</html>
`

const programHTML = `
<html><body>
	<h2>Invited speakers</h2>
	<ul><li>Ada Lovelace (Analytical Engines)</li><li>Grace Hopper</li></ul>
</body></html>
`

// site serves fixed pages by path and counts requests per path.
type site struct {
	t      *testing.T
	mu     sync.Mutex
	pages  map[string]string
	status map[string]int
	hits   map[string]int
	total  int
	server *httptest.Server
}

func newSite(t *testing.T) *site {
	t.Helper()
	s := &site{
		t:      t,
		pages:  make(map[string]string),
		status: make(map[string]int),
		hits:   make(map[string]int),
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.server.Close)
	return s
}

func (s *site) serve(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Path
	if page := r.URL.Query().Get("page"); page != "" {
		key += "?page=" + page
	}

	s.mu.Lock()
	s.hits[key]++
	s.total++
	body, ok := s.pages[key]
	status := s.status[key]
	s.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, body)
}

func (s *site) url(path string) string {
	return s.server.URL + path
}

func (s *site) set(key, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[key] = body
}

func (s *site) fail(key string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[key] = status
}

func (s *site) count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[key]
}

func (s *site) requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}
