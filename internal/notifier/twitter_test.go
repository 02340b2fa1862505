package notifier

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/conf-hunt/internal/conference"
)

func testRecord(name string, day int) *conference.Record {
	rec := conference.NewRecord(conference.Summary{
		Name:     name,
		Location: "Delft, Netherlands",
		Date:     time.Date(2026, time.December, day, 0, 0, 0, 0, time.UTC),
		URL:      "https://conferenceindex.org/event/" + strings.ReplaceAll(strings.ToLower(name), " ", "-"),
	})
	return rec
}

func TestFormatTweet(t *testing.T) {
	complete := testRecord("Quantum Optics Workshop", 3)
	complete.Keywords = []string{"quantum optics", "entanglement"}
	complete.Speakers = []string{"Ada Lovelace"}

	bare := conference.NewRecord(conference.Summary{
		Name: "QIP",
		Date: time.Date(2027, time.January, 24, 0, 0, 0, 0, time.UTC),
	})

	long := testRecord(strings.Repeat("Very Long Conference Name ", 12), 9)
	long.Keywords = []string{"quantum", "qubit", "error correction", "optics", "photonics"}

	tests := []struct {
		name     string
		record   *conference.Record
		contains []string
		excludes []string
	}{
		{
			name:   "complete record",
			record: complete,
			contains: []string{
				"📣 Quantum Optics Workshop",
				"📅 2026-12-03",
				"📍 Delft, Netherlands",
				"🎤 Ada Lovelace",
				"https://conferenceindex.org/event/quantum-optics-workshop",
				"#QuantumOptics #Entanglement",
			},
		},
		{
			name:     "record without location or speakers",
			record:   bare,
			contains: []string{"📣 QIP", "📅 2027-01-24"},
			excludes: []string{"📍", "🎤", "#"},
		},
		{
			name:     "very long name gets truncated",
			record:   long,
			contains: []string{"..."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatTweet(tt.record)

			if n := utf8.RuneCountInString(got); n > tweetLimit {
				t.Errorf("formatTweet() length = %d, want <= %d", n, tweetLimit)
			}
			if !utf8.ValidString(got) {
				t.Errorf("formatTweet() produced invalid UTF-8")
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("formatTweet() missing %q in tweet:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("formatTweet() contains %q in tweet:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestHashtag(t *testing.T) {
	tests := map[string]string{
		"quantum":                  "#Quantum",
		"quantum error correction": "#QuantumErrorCorrection",
		"many-body":                "#ManyBody",
	}
	for in, want := range tests {
		if got := hashtag(in); got != want {
			t.Errorf("hashtag(%q) = %q, want %q", in, got, want)
		}
	}
}

// rewriteTransport sends every request to the test server.
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

type fakeTwitter struct {
	mu       sync.Mutex
	statuses []string
	failOn   string
}

func (f *fakeTwitter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/1.1/statuses/update.json" {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	status := r.PostForm.Get("status")

	w.Header().Set("Content-Type", "application/json")
	if f.failOn != "" && strings.Contains(status, f.failOn) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"errors":[{"code":187,"message":"Status is a duplicate."}]}`)
		return
	}

	f.mu.Lock()
	f.statuses = append(f.statuses, status)
	n := len(f.statuses)
	f.mu.Unlock()
	fmt.Fprintf(w, `{"id":%d,"text":"ok"}`, n)
}

func newTestTwitterNotifier(t *testing.T, fake *fakeTwitter) *TwitterNotifier {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	n := newTwitterNotifier(&http.Client{Transport: rewriteTransport{target: target}})
	n.pause = 0
	return n
}

func TestTwitterNotifier_Notify(t *testing.T) {
	fake := &fakeTwitter{}
	n := newTestTwitterNotifier(t, fake)

	list := conference.NewList(testRecord("Second Meeting", 20), testRecord("First Meeting", 5))
	if err := n.Notify(list); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	if len(fake.statuses) != 2 {
		t.Fatalf("posted %d tweets, want 2", len(fake.statuses))
	}
	if !strings.Contains(fake.statuses[0], "First Meeting") {
		t.Errorf("first tweet = %q, want the earliest conference", fake.statuses[0])
	}
}

func TestTwitterNotifier_NotifyError(t *testing.T) {
	fake := &fakeTwitter{failOn: "Second Meeting"}
	n := newTestTwitterNotifier(t, fake)

	list := conference.NewList(testRecord("First Meeting", 5), testRecord("Second Meeting", 20), testRecord("Third Meeting", 28))
	err := n.Notify(list)
	if err == nil {
		t.Fatal("Notify() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "Second Meeting") {
		t.Errorf("Notify() error = %v, want it to name the conference", err)
	}
	if len(fake.statuses) != 1 {
		t.Errorf("posted %d tweets before failing, want 1", len(fake.statuses))
	}
}

func TestNewTwitterNotifier_MissingCredentials(t *testing.T) {
	for _, key := range []string{"TWITTER_API_KEY", "TWITTER_API_SECRET", "TWITTER_ACCESS_TOKEN", "TWITTER_ACCESS_SECRET"} {
		t.Setenv(key, "")
	}
	if _, err := NewTwitterNotifier(); err == nil {
		t.Error("NewTwitterNotifier() error = nil, want missing credentials error")
	}
}
