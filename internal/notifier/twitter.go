package notifier

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/pfrederiksen/conf-hunt/internal/conference"
	"github.com/pfrederiksen/conf-hunt/internal/logger"
)

const (
	tweetLimit   = 280
	tweetPause   = 2 * time.Second
	maxTweetTags = 4
)

// TwitterNotifier posts one tweet per conference
type TwitterNotifier struct {
	client *twitter.Client
	pause  time.Duration
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	return newTwitterNotifier(config.Client(oauth1.NoContext, token)), nil
}

func newTwitterNotifier(httpClient *http.Client) *TwitterNotifier {
	return &TwitterNotifier{
		client: twitter.NewClient(httpClient),
		pause:  tweetPause,
	}
}

// Notify posts a tweet for each conference, stopping at the first failure
func (n *TwitterNotifier) Notify(list *conference.List) error {
	records := list.Records()
	for i, rec := range records {
		if _, _, err := n.client.Statuses.Update(formatTweet(rec), nil); err != nil {
			return fmt.Errorf("failed to post tweet for %s: %w", rec.Name, err)
		}
		logger.IncrCounter("twitter.posted")

		// Rate limiting: wait between tweets
		if i < len(records)-1 && n.pause > 0 {
			time.Sleep(n.pause)
		}
	}

	return nil
}

// formatTweet formats a conference as a tweet of at most 280 characters
func formatTweet(rec *conference.Record) string {
	tweet := fmt.Sprintf("📣 %s\n", rec.Name)
	tweet += fmt.Sprintf("📅 %s\n", rec.Date.Format(conference.DateLayout))

	if rec.Location != "" {
		tweet += fmt.Sprintf("📍 %s\n", rec.Location)
	}
	if len(rec.Speakers) > 0 {
		tweet += fmt.Sprintf("🎤 %s\n", strings.Join(rec.Speakers, ", "))
	}
	if rec.URL != "" {
		tweet += "\n" + rec.URL + "\n"
	}

	tags := make([]string, 0, maxTweetTags)
	for _, kw := range rec.Keywords {
		if len(tags) == maxTweetTags {
			break
		}
		tags = append(tags, hashtag(kw))
	}
	if len(tags) > 0 {
		tweet += "\n" + strings.Join(tags, " ")
	}

	runes := []rune(strings.TrimRight(tweet, "\n"))
	if len(runes) > tweetLimit {
		// Truncate and add ellipsis
		return string(runes[:tweetLimit-3]) + "..."
	}
	return string(runes)
}

// hashtag turns a keyword such as "quantum error correction" into
// "#QuantumErrorCorrection".
func hashtag(keyword string) string {
	var sb strings.Builder
	sb.WriteString("#")
	for _, word := range strings.FieldsFunc(keyword, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}) {
		runes := []rune(word)
		sb.WriteString(strings.ToUpper(string(runes[0])) + string(runes[1:]))
	}
	return sb.String()
}
