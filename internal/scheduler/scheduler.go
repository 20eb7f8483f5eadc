package scheduler

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/robfig/cron/v3"

	"CarbonCompendium/internal/config"
	"CarbonCompendium/internal/model"
	"CarbonCompendium/internal/notifier"
	"CarbonCompendium/internal/recorder"
	"CarbonCompendium/internal/registry"
	"CarbonCompendium/internal/service"
)

// Sender delivers chat messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// GlossarySearcher looks up glossary terms.
type GlossarySearcher interface {
	Search(ctx context.Context, query, category string) ([]model.GlossaryTerm, error)
}

// Scheduler manages scenario cron tasks and chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Service   *service.Service
	Scenarios []config.Scenario
	Projects  registry.Store
	Glossary  GlossarySearcher
	Notifier  Sender
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. tn may be nil when chat is disabled.
func NewScheduler(ctx context.Context, svc *service.Service, scenarios []config.Scenario,
	projects registry.Store, gl GlossarySearcher, tn Sender) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Service:   svc,
		Scenarios: scenarios,
		Projects:  projects,
		Glossary:  gl,
		Notifier:  tn,
		Ctx:       ctx,
	}
}

// RegisterAll registers a task for every scenario that has a cron spec.
func (s *Scheduler) RegisterAll() error {
	for _, sc := range s.Scenarios {
		if sc.Cron == "" {
			continue
		}
		sc := sc
		if _, err := s.Cron.AddFunc(sc.Cron, func() { s.scenarioTask(sc) }); err != nil {
			return fmt.Errorf("register scenario %s: %w", sc.Name, err)
		}
		log.Printf("[INFO] scenario %s scheduled: %s", sc.Name, sc.Cron)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunScenarioNow runs the named scenario immediately and pushes the report.
func (s *Scheduler) RunScenarioNow(name string) error {
	for _, sc := range s.Scenarios {
		if sc.Name == name {
			s.scenarioTask(sc)
			return nil
		}
	}
	return fmt.Errorf("unknown scenario %q", name)
}

func (s *Scheduler) scenarioTask(sc config.Scenario) {
	log.Printf("[INFO] running scenario %s", sc.Name)
	res, err := s.Service.Run(s.Ctx, scenarioRequest(sc, recorder.SourceSchedule))
	if err != nil {
		log.Printf("[ERROR] scenario %s: %v", sc.Name, err)
		s.trySend(fmt.Sprintf("❌ Scenario %s failed: %s", html.EscapeString(sc.Name), html.EscapeString(err.Error())))
		return
	}
	s.trySend(notifier.FormatSimulationReport(sc.Name, res))
}

func scenarioRequest(sc config.Scenario, source string) service.Request {
	return service.Request{
		Config:            sc.Config,
		Preset:            sc.Preset,
		CustomRatePercent: sc.CustomRatePercent,
		Seed:              sc.Seed,
		Source:            source,
		Name:              sc.Name,
	}
}

const helpText = "Available commands:\n" +
	"• /simulate &lt;scenario&gt;\n" +
	"• /scenarios\n" +
	"• /history\n" +
	"• /projects\n" +
	"• /glossary &lt;term&gt;"

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	name, arg, _ := strings.Cut(strings.TrimSpace(command), " ")
	arg = strings.TrimSpace(arg)
	// group chats address the bot as /cmd@botname
	name, _, _ = strings.Cut(name, "@")

	switch name {
	case "/simulate":
		return s.simulateCommand(arg)
	case "/scenarios":
		return s.scenariosCommand()
	case "/history":
		runs, err := s.Service.Recent(s.Ctx, 10)
		if err != nil {
			log.Printf("[ERROR] list runs: %v", err)
			return "❌ Could not load run history."
		}
		return notifier.FormatRunHistory(runs)
	case "/projects":
		if s.Projects == nil {
			return "Project registry is not available."
		}
		projects, err := s.Projects.List(s.Ctx)
		if err != nil {
			log.Printf("[ERROR] list projects: %v", err)
			return "❌ Could not load projects."
		}
		return notifier.FormatProjects(projects)
	case "/glossary":
		if arg == "" {
			return "Usage: /glossary &lt;term&gt;"
		}
		if s.Glossary == nil {
			return "Glossary is not available."
		}
		terms, err := s.Glossary.Search(s.Ctx, arg, "")
		if err != nil {
			log.Printf("[ERROR] glossary search: %v", err)
			return "❌ Glossary search failed."
		}
		return notifier.FormatGlossary(arg, terms)
	default:
		return helpText
	}
}

func (s *Scheduler) simulateCommand(name string) string {
	if name == "" {
		return "Usage: /simulate &lt;scenario&gt;\n\n" + s.scenariosCommand()
	}
	for _, sc := range s.Scenarios {
		if sc.Name == name {
			res, err := s.Service.Run(s.Ctx, scenarioRequest(sc, recorder.SourceCommand))
			if err != nil {
				return fmt.Sprintf("❌ Scenario %s failed: %s", html.EscapeString(name), html.EscapeString(err.Error()))
			}
			return notifier.FormatSimulationReport(sc.Name, res)
		}
	}
	return fmt.Sprintf("Unknown scenario %q.\n\n%s", html.EscapeString(name), s.scenariosCommand())
}

func (s *Scheduler) scenariosCommand() string {
	if len(s.Scenarios) == 0 {
		return "No scenarios configured."
	}
	var b strings.Builder
	b.WriteString("📋 <b>Scenarios</b>\n")
	for _, sc := range s.Scenarios {
		schedule := "manual"
		if sc.Cron != "" {
			schedule = sc.Cron
		}
		b.WriteString(fmt.Sprintf("• %s (%s, %s)\n", html.EscapeString(sc.Name), sc.Preset, schedule))
	}
	return b.String()
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
