package notifier

import (
	"fmt"
	"strings"
)

// DefaultSite names the catalog in messages when no site name is configured.
const DefaultSite = "the catalog"

// AlertSubject is the subject of the short alert. It is kept minimal because
// alerts are usually forwarded to an SMS gateway.
const AlertSubject = "NEW"

// Message is a rendered notification.
type Message struct {
	Subject string
	Body    string
}

// Summary renders the summary notification for a finalized diff.
func Summary(site string, added, removed []string) Message {
	if site == "" {
		site = DefaultSite
	}

	return Message{
		Subject: fmt.Sprintf("%d new, %d removed items at %s!", len(added), len(removed), site),
		Body: fmt.Sprintf("New Items:\n%s\nRemoved Items:\n%s",
			strings.Join(added, "\n"),
			strings.Join(removed, "\n")),
	}
}

// Alert renders the short alert sent when items were added.
func Alert(site string, addedCount int) Message {
	if site == "" {
		site = DefaultSite
	}

	return Message{
		Subject: AlertSubject,
		Body:    fmt.Sprintf("%d new items at %s", addedCount, site),
	}
}
