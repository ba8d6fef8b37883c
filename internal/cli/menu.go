package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"skybank/internal/core"
	"skybank/internal/log"
	"skybank/internal/report"
	"skybank/internal/services"
	"skybank/internal/settings"
)

// Menu prompts.
const (
	PromptWelcome    = "Welcome to SkyBank!"
	PromptOnboarding = "Choose the currencies and S&P 500 stocks shown on the home page."
	PromptCurrencies = "Enter currencies separated by commas or spaces: "
	PromptStocks     = "Enter S&P 500 tickers separated by commas or spaces: "
	PromptMenu       = "\nChoose a menu item:\n1. Home page\n2. Investment round-ups\n3. Category spending report\n"
	PromptLimit      = "\nChoose the limit spending is rounded up to: 10, 50 or 100.\n"
	PromptMonth      = "Enter a month as YYYY-MM or press Enter for the current month: "
	PromptFormat     = "\nChoose a report format (json, csv, xlsx) or press Enter for json: "
	PromptCategory   = "\nEnter a category: "
	PromptReportDate = "\nEnter a date as DD.MM.YYYY HH:MM:SS or press Enter for now: "

	MsgUnknownCommand = "Unknown command."
	MsgInvalidFormat  = "\nInvalid format. Choose one of: json, csv, xlsx"
)

// ErrInputClosed is returned when the input ends before a prompt is answered.
var ErrInputClosed = errors.New("input closed")

type (
	HomeBuilder interface {
		Build(ctx context.Context, date string) (*core.HomeSummary, error)
	}

	InvestmentProjector interface {
		Project(ctx context.Context, month string, limit int) (*core.InvestmentRecord, error)
	}

	ReportGenerator interface {
		Generate(ctx context.Context, category, date string, format report.Format) (*services.ReportResult, error)
	}

	SettingsStore interface {
		Load() (core.Settings, error)
		Save(st core.Settings) error
		SaveLimit(limit int) error
	}

	SelectionParser interface {
		ParseSelection(currencies, stocks string) (core.Settings, error)
	}
)

// MenuDeps wires the services a Menu drives.
type MenuDeps struct {
	Home       HomeBuilder
	Investment InvestmentProjector
	Reports    ReportGenerator
	Settings   SettingsStore
	Catalog    SelectionParser
	Logger     *log.Logger
	Now        func() time.Time
}

// Menu is the interactive front end. It reads answers line by line from in
// and prints prompts and results to out.
type Menu struct {
	deps  MenuDeps
	in    *bufio.Scanner
	out   io.Writer
	title cases.Caser
}

func NewMenu(deps MenuDeps, in io.Reader, out io.Writer) *Menu {
	if deps.Logger == nil {
		deps.Logger = log.Discard()
	}
	deps.Logger = deps.Logger.WithComponent(log.ComponentCLI)
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Menu{
		deps:  deps,
		in:    bufio.NewScanner(in),
		out:   out,
		title: cases.Title(language.Russian),
	}
}

// Run greets the user, runs onboarding when no settings are stored and then
// serves one menu choice.
func (m *Menu) Run(ctx context.Context) error {
	m.println(PromptWelcome)

	st, err := m.deps.Settings.Load()
	if err != nil {
		if !errors.Is(err, settings.ErrNoSettings) {
			return fmt.Errorf("load settings: %w", err)
		}
		if st, err = m.onboard(); err != nil {
			return err
		}
	}

	choice, err := m.ask(PromptMenu)
	if err != nil {
		return err
	}

	switch strings.TrimSpace(choice) {
	case "1":
		return m.showHome(ctx)
	case "2":
		return m.showInvestment(ctx, st)
	case "3":
		return m.writeReport(ctx)
	default:
		m.println(MsgUnknownCommand)
		return nil
	}
}

func (m *Menu) onboard() (core.Settings, error) {
	m.println(PromptOnboarding)
	for {
		currencies, err := m.ask(PromptCurrencies)
		if err != nil {
			return core.Settings{}, err
		}
		stocks, err := m.ask(PromptStocks)
		if err != nil {
			return core.Settings{}, err
		}

		st, err := m.deps.Catalog.ParseSelection(currencies, stocks)
		if err != nil {
			m.println(err.Error())
			continue
		}
		if err := m.deps.Settings.Save(st); err != nil {
			return core.Settings{}, fmt.Errorf("save settings: %w", err)
		}
		return st, nil
	}
}

func (m *Menu) showHome(ctx context.Context) error {
	summary, err := m.deps.Home.Build(ctx, m.deps.Now().Format(core.HomeLayout))
	if err != nil {
		return err
	}
	return m.printJSON(summary)
}

func (m *Menu) showInvestment(ctx context.Context, st core.Settings) error {
	limit, err := m.limit(st)
	if err != nil {
		return err
	}

	month, err := m.ask(PromptMonth)
	if err != nil {
		return err
	}
	for {
		if month = strings.TrimSpace(month); month == "" {
			month = m.deps.Now().Format(core.MonthLayout)
		}
		if _, perr := core.ParseMonth(month); perr == nil {
			break
		}
		if month, err = m.ask(core.MsgInvalidMonthFormat + "\n"); err != nil {
			return err
		}
	}

	rec, err := m.deps.Investment.Project(ctx, month, limit)
	if err != nil {
		return err
	}
	if rec == nil {
		m.println("No transactions for " + month)
		return nil
	}
	return m.printJSON(rec)
}

// limit returns the stored round-up limit, asking for and saving one when
// none is stored.
func (m *Menu) limit(st core.Settings) (int, error) {
	if st.Limit != nil {
		return *st.Limit, nil
	}
	answer, err := m.ask(PromptLimit)
	if err != nil {
		return 0, err
	}
	for {
		if limit, perr := strconv.Atoi(strings.TrimSpace(answer)); perr == nil && core.ValidLimit(limit) {
			if err := m.deps.Settings.SaveLimit(limit); err != nil {
				m.deps.Logger.Warn("Failed to save limit", log.FieldLimit, limit, log.FieldError, err)
			}
			return limit, nil
		}
		if answer, err = m.ask("\n" + core.MsgInvalidLimit + "\n"); err != nil {
			return 0, err
		}
	}
}

func (m *Menu) writeReport(ctx context.Context) error {
	answer, err := m.ask(PromptFormat)
	if err != nil {
		return err
	}
	var format report.Format
	for {
		var perr error
		if format, perr = report.ParseFormat(answer); perr == nil {
			break
		}
		if answer, err = m.ask(MsgInvalidFormat + "\n"); err != nil {
			return err
		}
	}

	category, err := m.ask(PromptCategory)
	if err != nil {
		return err
	}
	category = m.title.String(strings.TrimSpace(category))

	date, err := m.ask(PromptReportDate)
	if err != nil {
		return err
	}
	for {
		if date = strings.TrimSpace(date); date == "" {
			date = m.deps.Now().Format(core.OperationLayout)
		}
		if _, perr := core.ParseOperationTime(date); perr == nil {
			break
		}
		if date, err = m.ask(core.MsgInvalidReportDate + "\n"); err != nil {
			return err
		}
	}

	res, err := m.deps.Reports.Generate(ctx, category, date, format)
	if err != nil {
		return err
	}
	m.println(fmt.Sprintf("Report ready: %s (%d records)", res.Path, res.Records))
	return nil
}

func (m *Menu) ask(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrInputClosed
	}
	return m.in.Text(), nil
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	m.println(string(data))
	return nil
}
