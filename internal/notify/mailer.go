// Package notify delivers low-probability claim alerts to contributors
// and keeps an in-memory log of what was sent.
package notify

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/crumbwatch/crumbwatch/internal/log"
)

// Alert describes a claim whose completion probability dropped below the
// repository benchmark.
type Alert struct {
	ContributorEmail   string
	ContributorName    string
	IssueTitle         string
	IssueNumber        int
	RepositoryName     string
	CurrentProbability float64 // 0-100
	Benchmark          float64 // 0-100
	IssueURL           string
}

// Receipt reports the outcome of an alert delivery.
type Receipt struct {
	Success   bool
	MessageID string
	Error     string
}

// NotificationLog is one recorded alert delivery attempt.
type NotificationLog struct {
	ID                  string    `json:"id"`
	Timestamp           time.Time `json:"timestamp"`
	Repository          string    `json:"repository"`
	Issue               string    `json:"issue"`
	Contributor         string    `json:"contributor"`
	ContributorEmail    string    `json:"contributorEmail"`
	PreviousProbability float64   `json:"previousProbability"`
	CurrentProbability  float64   `json:"currentProbability"`
	Benchmark           float64   `json:"benchmark"`
	EmailSent           bool      `json:"emailSent"`
	MessageID           string    `json:"messageId"`
	Error               string    `json:"error,omitempty"`
}

// Mailer delivers low-probability alerts.
type Mailer interface {
	SendLowProbabilityAlert(ctx context.Context, alert Alert) (Receipt, error)
}

// LogMailer is a Mailer that records deliveries instead of sending real
// mail. It stands in until an SMTP transport is configured and doubles as
// the audit trail for sent alerts.
type LogMailer struct {
	mu   sync.Mutex
	logs []NotificationLog
}

var _ Mailer = (*LogMailer)(nil)

// NewLogMailer returns an empty log-backed mailer.
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// SendLowProbabilityAlert records the alert and logs its summary.
func (m *LogMailer) SendLowProbabilityAlert(_ context.Context, alert Alert) (Receipt, error) {
	messageID := fmt.Sprintf("email_%d_%09d", time.Now().UnixMilli(), rand.Intn(1_000_000_000))

	log.Info("low completion probability alert",
		"to", alert.ContributorEmail,
		"repository", alert.RepositoryName,
		"issue", alert.IssueNumber,
		"probability", alert.CurrentProbability,
		"benchmark", alert.Benchmark,
		"message_id", messageID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, NotificationLog{
		ID:                 messageID,
		Timestamp:          time.Now(),
		Repository:         alert.RepositoryName,
		Issue:              fmt.Sprintf("#%d - %s", alert.IssueNumber, alert.IssueTitle),
		Contributor:        alert.ContributorName,
		ContributorEmail:   alert.ContributorEmail,
		CurrentProbability: alert.CurrentProbability,
		Benchmark:          alert.Benchmark,
		EmailSent:          true,
		MessageID:          messageID,
	})

	return Receipt{Success: true, MessageID: messageID}, nil
}

// Logs returns a copy of all recorded notifications.
func (m *LogMailer) Logs() []NotificationLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]NotificationLog, len(m.logs))
	copy(out, m.logs)
	return out
}

// LogsByRepository returns recorded notifications for one repository.
func (m *LogMailer) LogsByRepository(repository string) []NotificationLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []NotificationLog
	for _, l := range m.logs {
		if l.Repository == repository {
			out = append(out, l)
		}
	}
	return out
}

// Clear discards all recorded notifications.
func (m *LogMailer) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = nil
}
