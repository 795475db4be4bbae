package backend

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is ISO-8601 in UTC with microseconds and a trailing Z.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Message is a row of the messages collection.
type Message struct {
	AuthorSession string  `json:"author_session"`
	Name          string  `json:"name"`
	School        *string `json:"school"`
	Avatar        *string `json:"avatar"`
	Text          string  `json:"text"`
	Type          string  `json:"type"`
	TS            string  `json:"ts"`
}

// NewTestMessage builds the throwaway row written by the startup probe.
func NewTestMessage(now time.Time) Message {
	return Message{
		AuthorSession: "server_test_" + shortID(),
		Name:          "ServerTester",
		Text:          "hello from devserver",
		Type:          "message",
		TS:            now.UTC().Format(TimestampLayout),
	}
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
