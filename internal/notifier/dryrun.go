package notifier

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/conf-hunt/internal/conference"
	"github.com/pfrederiksen/conf-hunt/internal/digest"
)

// DryRunNotifier prints what would be sent without sending it
type DryRunNotifier struct {
	out        io.Writer
	recipients []string
	tweets     bool
	now        func() time.Time
}

// NewDryRunNotifier creates a dry-run notifier that prints the digest mail
func NewDryRunNotifier(out io.Writer, recipients []string) *DryRunNotifier {
	return &DryRunNotifier{out: out, recipients: recipients, now: time.Now}
}

// NewDryRunTwitterNotifier creates a dry-run notifier that prints the tweets
func NewDryRunTwitterNotifier(out io.Writer) *DryRunNotifier {
	return &DryRunNotifier{out: out, tweets: true, now: time.Now}
}

// Notify prints the digest mail or the tweets that would be posted
func (n *DryRunNotifier) Notify(list *conference.List) error {
	if n.tweets {
		records := list.Records()
		for i, rec := range records {
			tweet := formatTweet(rec)
			fmt.Fprintf(n.out, "--- Tweet %d/%d ---\n", i+1, len(records))
			fmt.Fprintln(n.out, tweet)
			fmt.Fprintf(n.out, "\n(Length: %d characters)\n\n", utf8.RuneCountInString(tweet))
		}
		return nil
	}

	fmt.Fprintf(n.out, "To: %s\n", strings.Join(n.recipients, ", "))
	fmt.Fprintf(n.out, "Subject: %s\n\n", digest.Subject(n.now()))
	_, err := io.WriteString(n.out, digest.FormatDigest(list))
	return err
}
