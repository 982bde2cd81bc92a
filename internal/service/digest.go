package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"math/rand/v2"
	"time"

	"github.com/k3a/html2text"

	"github.com/gmgoals/goals/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	recentCheckIns  = 2
	checkInNoteSize = 100
)

var quotes = []string{
	"The secret of getting ahead is getting started. – Mark Twain",
	"It does not matter how slowly you go as long as you do not stop. – Confucius",
	"Success is the sum of small efforts repeated day in and day out. – Robert Collier",
	"A year from now you may wish you had started today. – Karen Lamb",
	"The only impossible journey is the one you never begin. – Tony Robbins",
	"Progress, not perfection. – Unknown",
	"Small steps every day lead to big changes. – Unknown",
	"Together you can achieve anything. – Unknown",
	"Believe you can and you're halfway there. – Theodore Roosevelt",
	"Every accomplishment starts with the decision to try. – John F. Kennedy",
}

func randomQuote() string {
	return quotes[rand.IntN(len(quotes))]
}

type DigestStats struct {
	Total        int
	Completed    int
	MeanProgress float64
}

// ComputeDigestStats counts goals, completed goals (progress 100) and the
// mean progress. The mean of no goals is 0.
func ComputeDigestStats(goals []*model.Goal) DigestStats {
	stats := DigestStats{Total: len(goals)}
	if stats.Total == 0 {
		return stats
	}

	sum := 0
	for _, g := range goals {
		sum += g.Progress
		if g.Progress == 100 {
			stats.Completed++
		}
	}
	stats.MeanProgress = float64(sum) / float64(stats.Total)
	return stats
}

// Digest is a rendered monthly summary.
type Digest struct {
	Subject string
	HTML    string
	Text    string
	Stats   DigestStats
}

type digestView struct {
	Month  string
	Stats  DigestStats
	Mean   string
	People []personView
	Quote  string
	AppURL string
}

type personView struct {
	Name  string
	Icon  string
	Goals []goalView
}

type goalView struct {
	Title    string
	Category string
	Progress int
	Glyph    string
	CheckIns []checkInView
}

type checkInView struct {
	Date string
	Note string
}

// DigestComposer renders the monthly summary. It does no I/O.
type DigestComposer struct {
	tmpl    *template.Template
	persons []string
	appURL  string
	quote   func() string
}

func NewDigestComposer(persons []string, appURL string) (*DigestComposer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &DigestComposer{
		tmpl:    tmpl,
		persons: persons,
		appURL:  appURL,
		quote:   randomQuote,
	}, nil
}

// WithQuote swaps the quote source, for deterministic output.
func (c *DigestComposer) WithQuote(quote func() string) *DigestComposer {
	c.quote = quote
	return c
}

// Compose turns the year's goals into the subject, HTML and text parts.
// Goals must carry their check-ins newest first.
func (c *DigestComposer) Compose(goals []*model.Goal, now time.Time) (*Digest, error) {
	month := now.Format("January 2006")
	stats := ComputeDigestStats(goals)

	view := digestView{
		Month:  month,
		Stats:  stats,
		Mean:   fmt.Sprintf("%.0f", stats.MeanProgress),
		Quote:  c.quote(),
		AppURL: c.appURL,
	}

	icons := []string{"👤", "💕"}
	for i, name := range c.persons {
		person := personView{Name: name, Icon: icons[i%len(icons)]}
		for _, g := range goals {
			if g.Person != name {
				continue
			}
			person.Goals = append(person.Goals, c.goalView(g))
		}
		view.People = append(view.People, person)
	}

	var buf bytes.Buffer
	err := c.tmpl.ExecuteTemplate(&buf, "monthly_summary.html", view)
	if err != nil {
		return nil, fmt.Errorf("failed to render monthly summary: %w", err)
	}

	html := buf.String()
	return &Digest{
		Subject: "🎯 Your Goals Update – " + month,
		HTML:    html,
		Text:    html2text.HTML2Text(html),
		Stats:   stats,
	}, nil
}

func (c *DigestComposer) goalView(g *model.Goal) goalView {
	v := goalView{
		Title:    g.Title,
		Category: g.Category,
		Progress: g.Progress,
		Glyph:    StatusGlyph(g.Progress),
	}
	if v.Title == "" {
		v.Title = "Untitled"
	}

	for i, ci := range g.CheckIns {
		if i == recentCheckIns {
			break
		}
		v.CheckIns = append(v.CheckIns, checkInView{
			Date: ci.CreatedAt.Format("Jan 02"),
			Note: truncate(ci.Note, checkInNoteSize),
		})
	}

	return v
}

// StatusGlyph marks how far along a goal is.
func StatusGlyph(progress int) string {
	switch {
	case progress >= 100:
		return "🎉"
	case progress >= 75:
		return "🔥"
	case progress >= 50:
		return "💪"
	default:
		return "🌱"
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// DigestService gathers the current year's goals and mails the summary.
type DigestService struct {
	goals    *GoalService
	composer *DigestComposer
	email    *EmailService
	now      func() time.Time
}

func NewDigestService(goals *GoalService, composer *DigestComposer, email *EmailService) *DigestService {
	return &DigestService{
		goals:    goals,
		composer: composer,
		email:    email,
		now:      time.Now,
	}
}

// Build composes the summary without sending it.
func (s *DigestService) Build(ctx context.Context) (*Digest, error) {
	goals, err := s.goals.Goals(ctx, model.GoalFilter{Year: s.goals.CurrentYear()})
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	return s.composer.Compose(goals, s.now())
}

// SendMonthlySummary builds and sends the summary once. There is no retry.
func (s *DigestService) SendMonthlySummary(ctx context.Context) error {
	digest, err := s.Build(ctx)
	if err != nil {
		return err
	}

	err = s.email.Send(ctx, digest.Subject, digest.HTML, digest.Text)
	if err != nil {
		return fmt.Errorf("failed to send monthly summary: %w", err)
	}

	return nil
}
