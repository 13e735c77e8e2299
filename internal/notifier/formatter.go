package notifier

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"

	"AgencyEngine/internal/events"
	"AgencyEngine/internal/ledger"
	"AgencyEngine/internal/model"
	"AgencyEngine/internal/recorder"
)

const dateLayout = "2006-01-02"

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

// Money renders whole currency units with thousands separators.
func Money(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "€" + b.String()
}

// FormatEvent renders evt as a single console line. Events too chatty for
// the console (daily ticks) return false.
func FormatEvent(evt events.Event) (string, bool) {
	day := evt.Date.Format(dateLayout)
	line := func(c *color.Color, format string, args ...any) (string, bool) {
		return fmt.Sprintf("%s %s", neutral.Sprint(day), c.Sprintf(format, args...)), true
	}

	switch d := evt.Data.(type) {
	case *events.ClockTickedData:
		if !d.WeekChanged {
			return "", false
		}
		return line(accent, "Week %d begins", d.Week)
	case *events.TransferWindowChangedData:
		if d.Open {
			return line(success, "Transfer window opened")
		}
		return line(warn, "Transfer window closed")
	case *events.TransactionRecordedData:
		tx := d.Transaction
		c, sign := danger, "-"
		if tx.Type == model.Income {
			c, sign = success, "+"
		}
		return line(c, "%s%s %s (%s) balance %s", sign, Money(tx.Amount), tx.Category, tx.Description, Money(d.Balance))
	case *events.LedgerWarningData:
		return line(danger, "Warning: %s", d.Warning.Message)
	case *events.SalariesPaidData:
		return line(accent, "Salaries paid: %s to %d scouts", Money(d.Payment.Total), len(d.Payment.Breakdown))
	case *events.OfferStatusChangedData:
		if d.From == "" {
			return line(accent, "Offer %s for %s: %s at %s", d.OfferID, d.PlayerID, d.To, Money(d.Amount))
		}
		return line(accent, "Offer %s for %s: %s -> %s", d.OfferID, d.PlayerID, d.From, d.To)
	case *events.CounterOfferSubmittedData:
		return line(neutral, "Counter-offer on %s from %s: %s", d.OfferID, d.Sender, Money(d.Amount))
	case *events.TransferCompletedData:
		t := d.Transfer
		return line(success, "Transfer done: %s to %s for %s (agent fee %s, reputation +%.2f)",
			t.PlayerID, t.ToTeamID, Money(t.Fee), Money(t.AgentFee), d.ReputationImpact)
	case *events.ScoutChangedData:
		if d.Type == events.ScoutDismissed {
			return line(warn, "Scout %s dismissed", d.Name)
		}
		return line(success, "Scout %s hired", d.Name)
	case *events.MissionData:
		m := d.Mission
		switch d.Type {
		case events.MissionStarted:
			return line(accent, "Mission to %s started: %d days, %s", m.CountryID, m.DurationDays, Money(m.Cost))
		case events.MissionCompleted:
			return line(success, "Mission to %s completed: %d players found", m.CountryID, len(d.PlayerIDs))
		default:
			return line(warn, "Mission to %s cancelled", m.CountryID)
		}
	case *events.ScoutingEventGeneratedData:
		e := d.Event
		return line(warn, "%s in %s: %s (%d options)", e.Type, e.CountryID, e.Description, len(e.Options))
	case *events.ScoutingEventResolvedData:
		switch {
		case d.Ignored:
			return line(neutral, "Event %s ignored", d.EventID)
		case d.Success:
			return line(success, "Event %s: %s paid off, found %s", d.EventID, d.OptionID, d.PlayerID)
		default:
			return line(danger, "Event %s: %s came to nothing", d.EventID, d.OptionID)
		}
	case *events.MarketTrendsUpdatedData:
		parts := make([]string, 0, len(d.Trends))
		for _, t := range d.Trends {
			parts = append(parts, fmt.Sprintf("%s %+.1f%%", t.Position, t.PriceChange))
		}
		return line(neutral, "Market trends: %s", strings.Join(parts, ", "))
	}
	return "", false
}

// FormatReport formats a ledger report for display.
func FormatReport(r ledger.Report) string {
	var b strings.Builder
	b.WriteString(accent.Sprintf("Ledger report %s | %s to %s\n\n", r.Period, r.Start.Format(dateLayout), r.End.Format(dateLayout)))
	b.WriteString(fmt.Sprintf("Income:       %s\n", success.Sprint(Money(r.Income))))
	b.WriteString(fmt.Sprintf("Expenses:     %s\n", danger.Sprint(Money(r.Expenses))))
	profit := success
	if r.Profit < 0 {
		profit = danger
	}
	b.WriteString(fmt.Sprintf("Profit:       %s\n", profit.Sprint(Money(r.Profit))))
	b.WriteString(fmt.Sprintf("Transactions: %d\n", r.Transactions))
	b.WriteString(fmt.Sprintf("Balance:      %s\n", neutral.Sprint(Money(r.Balance))))

	if len(r.ByCategory) > 0 {
		b.WriteString("\nBy category:\n")
		cats := make([]string, 0, len(r.ByCategory))
		for c := range r.ByCategory {
			cats = append(cats, c)
		}
		slices.Sort(cats)
		for _, c := range cats {
			t := r.ByCategory[c]
			b.WriteString(fmt.Sprintf("  %-20s +%s -%s (%d)\n", c, Money(t.Income), Money(t.Expenses), t.Count))
		}
	}
	return b.String()
}

// FormatStatus summarises the agency at a glance.
func FormatStatus(clock model.GameClock, treasury model.Treasury, scouts []model.Scout, offers []model.TransferOffer, reputation float64) string {
	var b strings.Builder
	window := warn.Sprint("closed")
	if clock.TransferWindowOpen {
		window = success.Sprint("open")
	}
	b.WriteString(accent.Sprintf("Agency status | %s (week %d)\n\n", clock.CurrentDate.Format(dateLayout), clock.CurrentWeek))
	b.WriteString(fmt.Sprintf("Balance:          %s\n", neutral.Sprint(Money(treasury.Balance))))
	b.WriteString(fmt.Sprintf("Monthly income:   %s\n", Money(treasury.MonthlyIncome)))
	b.WriteString(fmt.Sprintf("Monthly expenses: %s\n", Money(treasury.MonthlyExpenses)))
	b.WriteString(fmt.Sprintf("Transfer window:  %s\n", window))
	if clock.IsPaused {
		b.WriteString(fmt.Sprintf("Clock:            %s\n", warn.Sprint("paused")))
	}
	b.WriteString(fmt.Sprintf("Reputation:       %.2f\n", reputation))

	busy := 0
	for _, s := range scouts {
		if s.Busy() {
			busy++
		}
	}
	b.WriteString(fmt.Sprintf("Scouts:           %d (%d on missions)\n", len(scouts), busy))
	b.WriteString(fmt.Sprintf("Open offers:      %d\n", len(offers)))
	for _, o := range offers {
		b.WriteString(fmt.Sprintf("  %s %s -> %s %s [%s] expires %s\n",
			o.PlayerID, o.FromTeamID, o.ToTeamID, Money(o.CurrentOffer), o.Status, o.ExpiresAt.Format(dateLayout)))
	}
	return b.String()
}

// FormatPendingEvents lists the events awaiting a decision with their options.
func FormatPendingEvents(evs []model.ScoutingEvent) string {
	if len(evs) == 0 {
		return "No pending events\n"
	}
	var b strings.Builder
	b.WriteString(accent.Sprintf("Pending events (%d)\n\n", len(evs)))
	for _, e := range evs {
		b.WriteString(fmt.Sprintf("%s %s in %s by %s on %s\n", e.ID, warn.Sprint(e.Type), e.CountryID, e.ScoutID, e.CreatedAt.Format(dateLayout)))
		if e.Description != "" {
			b.WriteString(fmt.Sprintf("  %s\n", e.Description))
		}
		for _, o := range e.Options {
			b.WriteString(fmt.Sprintf("  - %-20s %-28s %s %.0f%%\n", o.ID, o.Label, Money(o.Cost), o.SuccessChance*100))
		}
	}
	return b.String()
}

// FormatHistory renders what the recorder stored: transaction totals by
// category for a period and event counts for the whole game.
func FormatHistory(totals []recorder.CategoryTotal, counts map[string]int) string {
	var b strings.Builder
	b.WriteString(accent.Sprint("Recorded history\n\n"))
	if len(totals) == 0 {
		b.WriteString("No recorded transactions in period\n")
	}
	for _, t := range totals {
		c := success
		if t.Type == string(model.Expense) {
			c = danger
		}
		b.WriteString(fmt.Sprintf("  %-8s %-20s %s (%d)\n", t.Type, t.Category, c.Sprint(Money(t.Total)), t.Count))
	}
	if len(counts) > 0 {
		b.WriteString("\nEvents:\n")
		types := make([]string, 0, len(counts))
		for k := range counts {
			types = append(types, k)
		}
		slices.Sort(types)
		for _, k := range types {
			b.WriteString(fmt.Sprintf("  %-28s %d\n", k, counts[k]))
		}
	}
	return b.String()
}
