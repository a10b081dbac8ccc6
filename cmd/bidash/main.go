package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-bi-dashboard/components/dashboard"
	"github.com/goliatone/go-bi-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-bi-dashboard/components/pages"
	"github.com/goliatone/go-bi-dashboard/internal/config"
	"github.com/goliatone/go-bi-dashboard/pkg/backend"
	"github.com/goliatone/go-bi-dashboard/pkg/bidash"
)

type cli struct {
	Serve    serveCmd    `cmd:"" help:"Run the dashboard web application."`
	Login    loginCmd    `cmd:"" help:"Sign in and persist the session token."`
	Register registerCmd `cmd:"" help:"Create an account and sign in."`
	Logout   logoutCmd   `cmd:"" help:"Discard the persisted session."`
	Profile  profileCmd  `cmd:"" help:"Show or update the signed-in profile."`
	Predict  predictCmd  `cmd:"" help:"Request a prediction from the model backend."`
	Chat     chatCmd     `cmd:"" help:"Send a prompt to the BI assistant."`
	Export   exportCmd   `cmd:"" help:"Write the session's prediction results to an HTML report."`
}

type appContext struct {
	ctx context.Context
	app *bidash.App
}

func main() {
	kctx := kong.Parse(&cli{},
		kong.Description("BI dashboard client for the prediction and chat backend."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load()
	kctx.FatalIfErrorf(err)

	logger := newLogger(cfg.LogLevel)
	app, err := bidash.New(bidash.Options{Config: cfg, Logger: logger})
	kctx.FatalIfErrorf(err)

	err = kctx.Run(&appContext{ctx: context.Background(), app: app})
	kctx.FatalIfErrorf(err)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

type serveCmd struct{}

func (cmd *serveCmd) Run(rc *appContext) error {
	return rc.app.Serve(rc.ctx)
}

type loginCmd struct {
	Email    string `arg:"" help:"Account email."`
	Password string `arg:"" help:"Account password."`
}

func (cmd *loginCmd) Run(rc *appContext) error {
	login := rc.app.Pages().Login
	login.SetForm(pages.LoginForm{Username: cmd.Email, Password: cmd.Password})
	if err := login.Submit(rc.ctx, pages.NavigatorFunc(func(string) {})); err != nil {
		return err
	}
	state := login.State()
	if state.Phase != dashboard.PhaseSuccess {
		return fmt.Errorf("bidash: %s", state.ErrorMessage)
	}
	fmt.Fprintln(os.Stdout, "✓ Signed in")
	return nil
}

type registerCmd struct {
	Email    string `arg:"" help:"Account email."`
	Password string `arg:"" help:"Account password."`
	FullName string `name:"full-name" help:"Display name for the account."`
	Company  string `help:"Company name for the account."`
}

func (cmd *registerCmd) Run(rc *appContext) error {
	register := rc.app.Pages().Register
	register.SetForm(pages.RegisterForm{
		Email:    cmd.Email,
		Password: cmd.Password,
		FullName: cmd.FullName,
		Company:  cmd.Company,
	})
	if err := register.Submit(rc.ctx, pages.NavigatorFunc(func(string) {})); err != nil {
		return err
	}
	state := register.State()
	if state.ErrorMessage != "" {
		return fmt.Errorf("bidash: %s", state.ErrorMessage)
	}
	fmt.Fprintln(os.Stdout, "✓ Account created")
	return nil
}

type logoutCmd struct{}

func (cmd *logoutCmd) Run(rc *appContext) error {
	rc.app.Pages().Shell.Logout(rc.ctx, pages.NavigatorFunc(func(string) {}))
	fmt.Fprintln(os.Stdout, "✓ Signed out")
	return nil
}

type profileCmd struct {
	FullName string `name:"full-name" help:"New display name. Omit to leave unchanged."`
	Company  string `help:"New company name. Omit to leave unchanged."`
}

func (cmd *profileCmd) Run(rc *appContext) error {
	profile := rc.app.Pages().Profile
	nav := pages.NavigatorFunc(func(string) {})
	if err := profile.Load(rc.ctx, nav); err != nil {
		return err
	}
	current := profile.State().Profile
	if cmd.FullName != "" || cmd.Company != "" {
		update := current
		if cmd.FullName != "" {
			update.FullName = cmd.FullName
		}
		if cmd.Company != "" {
			update.Company = cmd.Company
		}
		if err := profile.Save(rc.ctx, backend.ProfileUpdate{
			FullName: update.FullName,
			Company:  update.Company,
		}, nav); err != nil {
			return err
		}
		state := profile.State()
		if state.ErrorMessage != "" {
			return fmt.Errorf("bidash: %s", state.ErrorMessage)
		}
		current = state.Profile
	}
	fmt.Fprintf(os.Stdout, "%s <%s>\n", current.FullName, current.Email)
	if current.Company != "" {
		fmt.Fprintf(os.Stdout, "Company: %s\n", current.Company)
	}
	return nil
}

type predictCmd struct {
	Sales       predictSalesCmd       `cmd:"" help:"Predict sales revenue from business drivers."`
	Maintenance predictMaintenanceCmd `cmd:"" help:"Classify equipment failure risk from sensor readings."`
}

type predictSalesCmd struct {
	Temperature    string `default:"10" help:"Ambient temperature."`
	Customers      string `default:"50" help:"Daily customer count."`
	MarketingSpend string `name:"marketing-spend" default:"20" help:"Marketing spend for the period."`
	Month          int    `default:"1" help:"Calendar month (1-12)."`
	DayOfWeek      int    `name:"day-of-week" default:"0" help:"Day of week (0-6)."`
	Region         string `default:"East" enum:"East,North,South,West" help:"Sales region."`
	Promotion      bool   `help:"Whether a promotion is running."`
	Holiday        bool   `help:"Whether the day is a holiday."`
}

func (cmd *predictSalesCmd) Run(rc *appContext) error {
	controller := rc.app.Sales()
	controller.SetForm(dashboard.SalesForm{
		Temperature:    cmd.Temperature,
		Customers:      cmd.Customers,
		MarketingSpend: cmd.MarketingSpend,
		Month:          cmd.Month,
		DayOfWeek:      cmd.DayOfWeek,
		Region:         cmd.Region,
		Promotion:      cmd.Promotion,
		Holiday:        cmd.Holiday,
	})
	if err := controller.Submit(rc.ctx); err != nil {
		return err
	}
	state := controller.State()
	if state.Phase != dashboard.PhaseSuccess {
		return fmt.Errorf("bidash: %s", state.ErrorMessage)
	}
	fmt.Fprintf(os.Stdout, "Predicted sales: %.2f\n", state.Result.Prediction)
	if state.Result.Accuracy != nil {
		fmt.Fprintf(os.Stdout, "Model accuracy: %.1f%%\n", *state.Result.Accuracy)
	}
	return nil
}

type predictMaintenanceCmd struct {
	Sensor1     string `default:"10.5" help:"Sensor 1 reading."`
	Sensor2     string `default:"25.2" help:"Sensor 2 reading."`
	Sensor3     string `default:"5.8" help:"Sensor 3 reading."`
	Temperature string `default:"80" help:"Equipment temperature."`
	Pressure    string `default:"3.5" help:"Line pressure."`
	Vibration   string `default:"1.2" help:"Vibration amplitude."`
}

func (cmd *predictMaintenanceCmd) Run(rc *appContext) error {
	controller := rc.app.Maintenance()
	controller.SetForm(dashboard.MaintenanceForm{
		Sensor1:     cmd.Sensor1,
		Sensor2:     cmd.Sensor2,
		Sensor3:     cmd.Sensor3,
		Temperature: cmd.Temperature,
		Pressure:    cmd.Pressure,
		Vibration:   cmd.Vibration,
	})
	if err := controller.Submit(rc.ctx); err != nil {
		return err
	}
	state := controller.State()
	if state.Phase != dashboard.PhaseSuccess {
		return fmt.Errorf("bidash: %s", state.ErrorMessage)
	}
	fmt.Fprintf(os.Stdout, "Failure class: %d (probability %.2f, severity %s)\n",
		state.Result.Prediction, state.Result.Probability, state.Severity)
	return nil
}

type chatCmd struct {
	Prompt []string `arg:"" help:"Prompt to send to the assistant."`
}

func (cmd *chatCmd) Run(rc *appContext) error {
	controller := rc.app.Chat()
	controller.SetDraft(strings.Join(cmd.Prompt, " "))
	if err := controller.Submit(rc.ctx); err != nil {
		return err
	}
	state := controller.State()
	if len(state.Transcript) == 0 {
		return fmt.Errorf("bidash: empty transcript")
	}
	last := state.Transcript[len(state.Transcript)-1]
	fmt.Fprintln(os.Stdout, last.Text)
	return nil
}

type exportCmd struct{}

func (cmd *exportCmd) Run(rc *appContext) error {
	nav := pages.NavigatorFunc(func(string) {})
	view, err := rc.app.Pages().Dashboard.Load(rc.ctx, nav)
	if err != nil {
		return err
	}
	path, err := rc.app.Executor().Export(rc.ctx, commands.ExportReportInput{Viewer: view.Viewer})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Report written to %s\n", path)
	return nil
}
