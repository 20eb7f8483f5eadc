package notifier

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strings"
	"time"

	"CarbonCompendium/internal/model"
)

// FormatSimulationReport formats a simulation result into a Telegram message.
func FormatSimulationReport(name string, res *model.SimulationResult) string {
	var b strings.Builder
	s := res.Summary
	cfg := res.Config

	title := "Monte Carlo simulation"
	if name != "" {
		title += ": " + html.EscapeString(name)
	}
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", title, time.Now().Format("2006-01-02")))

	b.WriteString(fmt.Sprintf("Trials: %d | Years: %d | Discount: %.1f%%\n", s.Trials, cfg.Years, cfg.DiscountRate*100))
	b.WriteString(fmt.Sprintf("Investment: %s | Seed: %d\n\n", money(cfg.InitialInvestment), res.Seed))

	b.WriteString("💰 <b>NPV</b>\n")
	b.WriteString(fmt.Sprintf("  Mean: %s (σ %s)\n", money(s.MeanNPV), money(s.StdDevNPV)))
	b.WriteString(fmt.Sprintf("  P10 / P50 / P90: %s / %s / %s\n", money(s.P10NPV), money(s.P50NPV), money(s.P90NPV)))
	b.WriteString(fmt.Sprintf("  P(NPV &gt; 0): %.1f%%\n\n", s.ProbNPVPositive*100))

	b.WriteString("📈 <b>Returns</b>\n")
	b.WriteString(fmt.Sprintf("  Mean ROI: %s\n", percentOrNA(s.MeanROI)))
	b.WriteString(fmt.Sprintf("  Mean IRR: %s", percentOrNA(s.MeanIRR)))
	if s.IRROmitted > 0 {
		b.WriteString(fmt.Sprintf(" (%d trials without IRR)", s.IRROmitted))
	}
	b.WriteString("\n")
	if s.MeanBreakeven != nil {
		b.WriteString(fmt.Sprintf("  Mean break-even: %.0f units/yr\n", *s.MeanBreakeven))
	} else {
		b.WriteString("  Mean break-even: n/a\n")
	}

	if len(res.Sensitivity) > 0 {
		b.WriteString("\n🔍 <b>Sensitivity (corr. with NPV)</b>\n")
		keys := make([]string, 0, len(res.Sensitivity))
		for k := range res.Sensitivity {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("  %s: %+.2f\n", k, res.Sensitivity[k]))
		}
	}
	return b.String()
}

// FormatRunHistory lists recorded runs, newest first.
func FormatRunHistory(runs []model.RunRecord) string {
	if len(runs) == 0 {
		return "No simulation runs recorded yet."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent simulations</b>\n\n")
	for _, r := range runs {
		label := r.Source
		if r.Name != "" {
			label += "/" + html.EscapeString(r.Name)
		}
		b.WriteString(fmt.Sprintf("%s [%s] mean NPV %s, P(NPV&gt;0) %.0f%%\n",
			r.CreatedAt.Format("01-02 15:04"), label, money(r.Summary.MeanNPV), r.Summary.ProbNPVPositive*100))
	}
	return b.String()
}

// FormatProjects lists registered carbon projects.
func FormatProjects(projects []model.Project) string {
	if len(projects) == 0 {
		return "No projects registered yet."
	}
	var b strings.Builder
	b.WriteString("📁 <b>Registered projects</b>\n\n")
	total := 0.0
	for _, p := range projects {
		b.WriteString(fmt.Sprintf("#%d %s (%s): %.2f tCO₂e\n",
			p.ID, html.EscapeString(p.Name), html.EscapeString(p.Industry), p.EstimatedCredits))
		total += p.EstimatedCredits
	}
	b.WriteString(fmt.Sprintf("\nTotal estimated credits: %.2f tCO₂e\n", total))
	return b.String()
}

// FormatGlossary formats glossary search hits.
func FormatGlossary(query string, terms []model.GlossaryTerm) string {
	if len(terms) == 0 {
		return fmt.Sprintf("🔎 '%s' not currently in glossary.", html.EscapeString(query))
	}
	var b strings.Builder
	for i, t := range terms {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("📘 <b>%s</b> (%s)\n", html.EscapeString(t.Term), html.EscapeString(t.Category)))
		b.WriteString(fmt.Sprintf("<b>Definition:</b> %s\n", html.EscapeString(t.Definition)))
		if t.Example != "" {
			b.WriteString(fmt.Sprintf("<b>Example:</b> %s\n", html.EscapeString(t.Example)))
		}
		if t.GreenwashWatch != "" {
			b.WriteString(fmt.Sprintf("⚠️ <b>Greenwash Watch:</b> %s\n", html.EscapeString(t.GreenwashWatch)))
		}
	}
	return b.String()
}

func money(v float64) string {
	v = math.Round(v)
	if v == 0 {
		return "0"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := fmt.Sprintf("%.0f", v)
	var out []byte
	for i, c := range []byte(whole) {
		if i > 0 && (len(whole)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return sign + string(out)
}

func percentOrNA(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}
