package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bryan-cox/launchledger/internal/clipboard"
	"github.com/bryan-cox/launchledger/internal/config"
	"github.com/bryan-cox/launchledger/internal/dashboard"
	"github.com/bryan-cox/launchledger/internal/model"
	"github.com/bryan-cox/launchledger/internal/plan"
	"github.com/bryan-cox/launchledger/internal/report"
)

// --- Cobra Command Definitions ---

var (
	// Used for flags.
	configPath   string
	verbose      bool
	planPath     string
	templateName string
	filterName   string
	copyOutput   bool
	assumeYes    bool
	userID       string
	undo         bool

	logLevel = new(slog.LevelVar)

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "launchledger",
		Short: "Track the launch tasks and business phase of a generated business plan.",
		Long: `LaunchLedger turns a business plan into a checklist of launch tasks, tracks their
completion per plan, and follows a user's milestones through the idea, launch,
growth and scale phases.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logLevel.Set(slog.LevelDebug)
			}
		},
	}

	viewCmd = &cobra.Command{
		Use:   "view",
		Short: "Show the launch dashboard for a plan.",
		Long:  `Renders the plan's task catalog with the stored template, or the one given with --template.`,
		Run:   runViewCommand,
	}

	toggleCmd = &cobra.Command{
		Use:   "toggle TASK_ID...",
		Short: "Flip the completion of one or more tasks.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runToggleCommand,
	}

	templateCmd = &cobra.Command{
		Use:   "template [NAME]",
		Short: "Show or select the dashboard template for a plan.",
		Long:  `Without NAME, prints the selected template. With NAME (checklist, milestones, timeline or metrics), stores it as the plan's template.`,
		Args:  cobra.MaximumNArgs(1),
		Run:   runTemplateCommand,
	}

	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Clear all task progress for a plan.",
		Long:  `Regenerates the plan's task catalog with nothing completed. The selected template is kept.`,
		Run:   runResetCommand,
	}

	phaseCmd = &cobra.Command{
		Use:   "phase",
		Short: "Show the current business phase and its milestones.",
		Run:   runPhaseCommand,
	}

	milestoneCmd = &cobra.Command{
		Use:   "milestone",
		Short: "Manage a user's business milestones.",
	}

	milestoneToggleCmd = &cobra.Command{
		Use:   "toggle MILESTONE_ID",
		Short: "Mark a milestone done, or not done with --undo.",
		Args:  cobra.ExactArgs(1),
		Run:   runMilestoneToggleCommand,
	}

	milestoneSeedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Create the default milestones for a user who has none.",
		Run:   runMilestoneSeedCommand,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Errors from commands are handled by slog, so we just exit.
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFile, "Path to the launchledger YAML config file.")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging.")

	for _, c := range []*cobra.Command{viewCmd, toggleCmd, templateCmd, resetCmd} {
		c.Flags().StringVar(&planPath, "plan", "", "Path to the business plan file (JSON or YAML).")
		_ = c.MarkFlagRequired("plan")
	}
	viewCmd.Flags().StringVar(&templateName, "template", "", "Render with this template instead of the stored one.")
	viewCmd.Flags().StringVar(&filterName, "filter", "all", "Checklist category filter.")
	viewCmd.Flags().BoolVar(&copyOutput, "copy", false, "Also copy the dashboard to the clipboard.")
	resetCmd.Flags().BoolVar(&assumeYes, "yes", false, "Skip the confirmation prompt.")

	for _, c := range []*cobra.Command{phaseCmd, milestoneToggleCmd, milestoneSeedCmd} {
		c.Flags().StringVar(&userID, "user", "", "User id (defaults to user_id from the config).")
	}
	milestoneToggleCmd.Flags().BoolVar(&undo, "undo", false, "Mark the milestone as not done.")

	milestoneCmd.AddCommand(milestoneToggleCmd)
	milestoneCmd.AddCommand(milestoneSeedCmd)

	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(phaseCmd)
	rootCmd.AddCommand(milestoneCmd)
}

// --- Main Application Entry Point ---

func main() {
	// Setup structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	Execute()
}

// --- Command Execution Logic ---

func runViewCommand(cmd *cobra.Command, args []string) {
	sess, bp, closeStore := openSession(cmd)
	defer closeStore()

	tmpl := sess.Template()
	if templateName != "" {
		t, err := model.ParseTemplate(templateName)
		if err != nil {
			slog.Error("invalid template", "error", err, "template", templateName)
			closeAndExit(closeStore)
		}
		tmpl = t
	}

	var filter model.Category
	if filterName != "" && filterName != "all" {
		c, err := model.ParseCategory(filterName)
		if err != nil {
			slog.Error("invalid filter", "error", err, "filter", filterName)
			closeAndExit(closeStore)
		}
		filter = c
	}

	var buf bytes.Buffer
	report.PrintDashboard(&buf, bp, sess.Tasks(), tmpl, filter)
	fmt.Fprint(cmd.OutOrStdout(), buf.String())

	if copyOutput {
		if err := clipboard.CopyText(buf.String()); err != nil {
			slog.Warn("failed to copy dashboard to clipboard", "error", err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Copied to clipboard.")
	}
}

func runToggleCommand(cmd *cobra.Command, args []string) {
	sess, bp, closeStore := openSession(cmd)
	defer closeStore()

	known := make(map[string]bool)
	for _, t := range sess.Tasks() {
		known[t.ID] = true
	}
	for _, id := range args {
		if !known[id] {
			slog.Warn("unknown task id, skipping", "task_id", id, "plan_id", sess.PlanID())
			continue
		}
		if err := sess.ToggleTask(cmd.Context(), id); err != nil {
			slog.Error("failed to toggle task", "error", err, "task_id", id, "plan_id", sess.PlanID())
			closeAndExit(closeStore)
		}
	}

	for _, t := range sess.Tasks() {
		for _, id := range args {
			if t.ID == id {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", id, t.Title, doneLabel(t.Completed))
			}
		}
	}
	report.PrintHeader(cmd.OutOrStdout(), bp, sess.Tasks())
}

func runTemplateCommand(cmd *cobra.Command, args []string) {
	sess, _, closeStore := openSession(cmd)
	defer closeStore()

	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), sess.Template())
		return
	}

	t, err := model.ParseTemplate(args[0])
	if err != nil {
		slog.Error("invalid template", "error", err, "template", args[0])
		closeAndExit(closeStore)
	}
	if err := sess.SelectTemplate(cmd.Context(), t); err != nil {
		slog.Error("failed to select template", "error", err, "plan_id", sess.PlanID())
		closeAndExit(closeStore)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Template set to %s\n", t)
}

func runResetCommand(cmd *cobra.Command, args []string) {
	sess, bp, closeStore := openSession(cmd)
	defer closeStore()

	err := sess.Reset(cmd.Context(), promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout()))
	if errors.Is(err, dashboard.ErrResetDeclined) {
		fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled.")
		return
	}
	if err != nil {
		slog.Error("failed to reset progress", "error", err, "plan_id", sess.PlanID())
		closeAndExit(closeStore)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
	report.PrintHeader(cmd.OutOrStdout(), bp, sess.Tasks())
}

func runPhaseCommand(cmd *cobra.Command, args []string) {
	tracker, closeStore := openTracker(cmd)
	defer closeStore()

	report.PrintPhases(cmd.OutOrStdout(), report.Phases(tracker.Milestones()))
}

func runMilestoneToggleCommand(cmd *cobra.Command, args []string) {
	tracker, closeStore := openTracker(cmd)
	defer closeStore()

	id := args[0]
	found := false
	for _, m := range tracker.Milestones() {
		if m.ID == id {
			found = true
			break
		}
	}
	if !found {
		slog.Error("unknown milestone", "milestone_id", id)
		closeAndExit(closeStore)
	}

	if err := tracker.ToggleMilestone(cmd.Context(), id, !undo); err != nil {
		slog.Error("failed to update milestone", "error", err, "milestone_id", id)
		closeAndExit(closeStore)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", id, doneLabel(!undo))
	fmt.Fprintf(cmd.OutOrStdout(), "Current phase: %s\n", tracker.Phase().Label())
}

func runMilestoneSeedCommand(cmd *cobra.Command, args []string) {
	tracker, closeStore := openTracker(cmd)
	defer closeStore()

	if err := tracker.Seed(cmd.Context(), uuid.NewString); err != nil {
		slog.Error("failed to seed milestones", "error", err)
		closeAndExit(closeStore)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %d milestones.\n", len(tracker.Milestones()))
	fmt.Fprintf(cmd.OutOrStdout(), "Current phase: %s\n", tracker.Phase().Label())
}

// --- Helper Functions ---

// exit is swapped in tests.
var exit = os.Exit

// closeAndExit releases the command's store, since deferred calls do not run on exit.
func closeAndExit(closeStore func()) {
	closeStore()
	exit(1)
}

func doneLabel(completed bool) string {
	if completed {
		return "done"
	}
	return "not done"
}

func loadConfig() config.Config {
	// A missing default file is fine; a missing file the user named is not.
	cfg, err := config.Load(configPath, configPath != config.DefaultFile)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", configPath)
		os.Exit(1)
	}
	return cfg
}

func openSession(cmd *cobra.Command) (*dashboard.Session, *model.BusinessPlan, func()) {
	cfg := loadConfig()

	bp, err := plan.Load(planPath)
	if err != nil {
		slog.Error("failed to load business plan", "error", err, "path", planPath)
		os.Exit(1)
	}

	ps, err := cfg.OpenPlanStore()
	if err != nil {
		slog.Error("failed to open plan store", "error", err, "driver", cfg.PlanStore.Driver)
		os.Exit(1)
	}
	closeStore := func() {
		if c, ok := ps.(io.Closer); ok {
			_ = c.Close()
		}
	}

	sess, err := dashboard.Open(cmd.Context(), ps, bp)
	if err != nil {
		closeStore()
		slog.Error("failed to open dashboard", "error", err, "path", planPath)
		os.Exit(1)
	}
	return sess, bp, closeStore
}

func openTracker(cmd *cobra.Command) (*dashboard.Tracker, func()) {
	cfg := loadConfig()
	user := userID
	if user == "" {
		user = cfg.UserID
	}

	ms, closeFn, err := cfg.OpenMilestoneStore(cmd.Context())
	if err != nil {
		slog.Error("failed to open milestone store", "error", err, "driver", cfg.MilestoneStore.Driver)
		os.Exit(1)
	}
	closeStore := func() { _ = closeFn() }

	tracker, err := dashboard.OpenTracker(cmd.Context(), ms, user, nil)
	if err != nil {
		closeStore()
		slog.Error("failed to load milestones", "error", err, "user_id", user)
		os.Exit(1)
	}
	return tracker, closeStore
}

// promptConfirm asks on out and reads a y/N answer from in. Anything but y or yes is a no.
func promptConfirm(in io.Reader, out io.Writer) dashboard.ConfirmFunc {
	return func(prompt string) (bool, error) {
		if assumeYes {
			return true, nil
		}
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("read answer: %w", err)
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}
}

