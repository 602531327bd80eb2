// Package interview drives a simulated interview: a transcript of
// exchanges with an AI interviewer, updated optimistically while each turn
// is in flight and reconciled with the server's transcript afterwards.
package interview

import (
	"fmt"
	"time"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
)

// DefaultTopic is used when StartSession is given a blank topic.
const DefaultTopic = "Full-Stack Engineer"

// State is the controller's position in the interview lifecycle.
type State int

const (
	// StateIdle means no session has been started.
	StateIdle State = iota
	// StateActive accepts the next user message.
	StateActive
	// StateWaitingForReply has one turn in flight.
	StateWaitingForReply
	// StateComplete is terminal until the next StartSession.
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateWaitingForReply:
		return "waiting"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Exchange is one user message and the interviewer's reply. The opening
// greeting is an exchange with IsGreeting set and no user text.
type Exchange struct {
	UserText   string
	AIText     string
	CreatedAt  time.Time
	IsGreeting bool
}

// Session is one interview from greeting to completion.
type Session struct {
	ID         string
	Topic      string
	Exchanges  []Exchange
	IsTerminal bool
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	s.Exchanges = cloneExchanges(s.Exchanges)
	return s
}

// Greeting returns the interviewer's opening line for topic.
func Greeting(topic string) string {
	return fmt.Sprintf("Hello! Welcome to today's interview. I'll be your technical interviewer, "+
		"and the topic is %q. To start, please briefly introduce yourself.", topic)
}

func cloneExchanges(in []Exchange) []Exchange {
	if in == nil {
		return nil
	}
	out := make([]Exchange, len(in))
	copy(out, in)
	return out
}

func toHistory(exchanges []Exchange) []api.HistoryItem {
	items := make([]api.HistoryItem, 0, len(exchanges))
	for _, e := range exchanges {
		items = append(items, api.HistoryItem{
			User:      e.UserText,
			AI:        e.AIText,
			Timestamp: api.WireTimestamp(e.CreatedAt),
			Greeting:  e.IsGreeting,
		})
	}
	return items
}

// fromHistory converts a server transcript. A server that drops the
// greeting flag gets the first item re-tagged when it is the local greeting.
func fromHistory(items []api.HistoryItem, greeting *Exchange) []Exchange {
	out := make([]Exchange, 0, len(items))
	for i, h := range items {
		e := Exchange{
			UserText:   h.User,
			AIText:     h.AI,
			CreatedAt:  h.Time(),
			IsGreeting: h.Greeting,
		}
		if i == 0 && !e.IsGreeting && greeting != nil && e.UserText == "" && e.AIText == greeting.AIText {
			e.IsGreeting = true
		}
		out = append(out, e)
	}
	return out
}
