package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mkarlsen/adcon/internal/actions"
	"github.com/mkarlsen/adcon/internal/api"
	"github.com/mkarlsen/adcon/internal/config"
	"github.com/mkarlsen/adcon/internal/directory"
	"github.com/mkarlsen/adcon/internal/session"
	"github.com/mkarlsen/adcon/internal/tui"
	"github.com/mkarlsen/adcon/internal/urls"
)

// Command flags
var (
	serverURL    string
	insecureTLS  bool
	assumeYes    bool
	outputFormat string

	searchDomain string
	searchName   string
	searchStatus string
	searchAdmin  string

	userFirst   string
	userLast    string
	userSam     string
	userExpires string
	userGroups  []string
	adminAcct   bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Administration service URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&insecureTLS, "insecure", false, "Skip TLS certificate verification")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Assume yes on confirmation prompts")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format (table, json)")

	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(usersCmd)

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersShowCmd)
	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersUpdateCmd)
	usersCmd.AddCommand(usersResetCmd)
	usersCmd.AddCommand(usersUnlockCmd)
	usersCmd.AddCommand(usersEnableCmd)
	usersCmd.AddCommand(usersDisableCmd)
}

// buildController loads the configuration, applies flag overrides, and
// wires the gateway.
func buildController() (*session.Controller, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	url := cfg.Server.URL
	if serverURL != "" {
		url = serverURL
	}
	if url == "" {
		return nil, nil, fmt.Errorf("no server configured: set server.url in the config file or pass --server\nSee %s", urls.Configuration)
	}

	client := api.NewClient(url)
	if cfg.Server.TimeoutSeconds > 0 {
		client.Timeout = time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	}
	if insecureTLS || cfg.Server.InsecureTLS {
		client.SetInsecureTLS(true)
	}

	return session.NewController(client), cfg, nil
}

// establish runs the sign-in sequence and fails the command on any error.
func establish(ctrl *session.Controller) (session.State, error) {
	state, apiErr := ctrl.Establish(context.Background())
	if apiErr != nil {
		return session.State{}, fmt.Errorf("%s", apiErr.DisplayText())
	}
	return state, nil
}

// newPromptDispatcher builds a dispatcher whose confirmation hook prompts
// on stdin. With --yes every prompt is accepted; without a terminal on
// stdin every prompt is refused, so scripts must pass --yes explicitly.
func newPromptDispatcher(client *api.Client) *actions.Dispatcher {
	d := actions.NewDispatcher(client)
	d.Confirm = func(prompt string) bool {
		if assumeYes {
			return true
		}
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Refusing without confirmation; pass --yes to proceed non-interactively.")
			return false
		}
		fmt.Printf("%s [y/N]: ", prompt)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
	return d
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// resolveDomain picks the search domain: the flag, then the configured
// console default, then the first server-configured domain.
func resolveDomain(state session.State, cfg *config.Config) string {
	if searchDomain != "" {
		return searchDomain
	}
	if cfg.Console != nil && cfg.Console.DefaultDomain != "" {
		return cfg.Console.DefaultDomain
	}
	return state.DefaultDomain()
}

// consoleCmd launches the interactive TUI console
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Launch the interactive console",
	Long: `Launch the interactive full-screen console.

The console provides account search with filters, per-row actions
(edit, reset password, unlock, enable/disable), and guided dialogs for
creating and editing users.

This is the recommended way to administer accounts for most users.`,
	Example: `  # Launch the console
  adcon console
  # Or simply (console is default):
  adcon

  # Launch against a specific server
  adcon console --server https://accounts-admin.corp.example`,
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	ctrl, cfg, err := buildController()
	if err != nil {
		return err
	}
	autoLogin := cfg.Console == nil || cfg.Console.AutoLogin
	return tui.Run(ctrl, autoLogin)
}

// healthCmd probes the administration service
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check connectivity to the administration service",
	Long: `Probe the administration service liveness endpoint and report
whether the service is reachable. No session is established.`,
	Example: `  adcon health
  adcon health --server https://accounts-admin.corp.example`,
	RunE: runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	ctrl, _, err := buildController()
	if err != nil {
		return err
	}
	if apiErr := ctrl.Client().Healthcheck(context.Background()); apiErr != nil {
		return fmt.Errorf("service unreachable: %s\nSee %s", apiErr.DisplayText(), urls.Troubleshooting)
	}
	fmt.Printf("OK: %s is reachable\n", ctrl.Client().BaseURL)
	return nil
}

// usersCmd groups the account subcommands
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Search and administer directory accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Search accounts",
	Long: `Search directory accounts in one domain.

A domain is always required; it is taken from --domain, the configured
default, or the first server-configured domain. The name, status, and
admin-account filters are optional and matched by the service.`,
	Example: `  # All accounts in the default domain
  adcon users list

  # Disabled accounts matching a name, as JSON
  adcon users list --domain corp.example --name smith --status disabled --format json`,
	RunE: runUsersList,
}

func init() {
	usersListCmd.Flags().StringVar(&searchDomain, "domain", "", "Domain to search (default: first configured)")
	usersListCmd.Flags().StringVar(&searchName, "name", "", "Name or account filter")
	usersListCmd.Flags().StringVar(&searchStatus, "status", "", "Status filter (enabled, disabled)")
	usersListCmd.Flags().StringVar(&searchAdmin, "admin-account", "", "Admin account filter (yes, no)")
}

func runUsersList(cmd *cobra.Command, args []string) error {
	ctrl, cfg, err := buildController()
	if err != nil {
		return err
	}
	state, err := establish(ctrl)
	if err != nil {
		return err
	}

	filter := directory.Filter{
		Domain: resolveDomain(state, cfg),
		Name:   searchName,
		Status: directory.Status(searchStatus),
	}
	switch searchAdmin {
	case "":
	case "yes":
		yes := true
		filter.HasAdminAccount = &yes
	case "no":
		no := false
		filter.HasAdminAccount = &no
	default:
		return fmt.Errorf("invalid --admin-account %q (expected yes or no)", searchAdmin)
	}

	set, err := directory.NewService(ctrl.Client()).Search(context.Background(), filter)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("%s", directory.FailedMessage(apiErr))
		}
		return err
	}

	if outputFormat == "json" {
		accounts := make([]api.AccountSummary, 0, len(set.Rows))
		for _, row := range set.Rows {
			accounts = append(accounts, row.Account)
		}
		return printJSON(accounts)
	}

	if set.Empty() {
		fmt.Println(directory.NoUsersMessage)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tACCOUNT\tDOMAIN\tSTATUS\tADMIN\tEXPIRES")
	for _, row := range set.Rows {
		a := row.Account
		status := "disabled"
		if a.Enabled {
			status = "enabled"
		}
		admin := "no"
		if a.HasAdminAccount {
			admin = "yes"
		}
		expires := "-"
		if a.AccountExpirationDate != nil {
			expires = a.AccountExpirationDate.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.DisplayName, a.SamAccountName, a.Domain, status, admin, expires)
	}
	return w.Flush()
}

var usersShowCmd = &cobra.Command{
	Use:   "show <account>",
	Short: "Show one account's full record",
	Example: `  adcon users show jdoe --domain corp.example
  adcon users show jdoe --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runUsersShow,
}

func init() {
	usersShowCmd.Flags().StringVar(&searchDomain, "domain", "", "Account domain (default: first configured)")
}

func runUsersShow(cmd *cobra.Command, args []string) error {
	ctrl, cfg, err := buildController()
	if err != nil {
		return err
	}
	state, err := establish(ctrl)
	if err != nil {
		return err
	}

	sam := args[0]
	domain := resolveDomain(state, cfg)
	detail, apiErr := ctrl.Client().UserDetails(context.Background(), domain, sam)
	if apiErr != nil {
		return fmt.Errorf("%s", actions.FailureNotice("load user details", apiErr))
	}
	if detail == nil {
		fmt.Println(actions.VanishedNotice(sam))
		return nil
	}

	if outputFormat == "json" {
		return printJSON(detail)
	}

	status := "disabled"
	if detail.Enabled {
		status = "enabled"
	}
	fmt.Printf("Name:        %s\n", detail.DisplayName)
	fmt.Printf("Account:     %s\n", detail.SamAccountName)
	fmt.Printf("Domain:      %s\n", detail.Domain)
	fmt.Printf("First name:  %s\n", detail.GivenName)
	fmt.Printf("Last name:   %s\n", detail.Surname)
	fmt.Printf("Status:      %s\n", status)
	fmt.Printf("Admin acct:  %t\n", detail.HasAdminAccount)
	if detail.AccountExpirationDate != nil {
		fmt.Printf("Expires:     %s\n", detail.AccountExpirationDate)
	}
	if len(detail.MemberOf) > 0 {
		fmt.Printf("Groups:      %s\n", strings.Join(detail.MemberOf, ", "))
	}
	return nil
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new account",
	Long: `Create a new directory account.

The admin-account and group options require a high-privilege session;
for low-privilege sessions they are rejected before any request is made.
Generated passwords are printed once and never stored.`,
	Example: `  adcon users create --domain corp.example --first Jane --last Doe --sam jdoe

  # With a paired admin account and group associations (high privilege)
  adcon users create --domain corp.example --first Jane --last Doe --sam jdoe \
    --admin-account --group "VPN Users" --group "Helpdesk"`,
	RunE: runUsersCreate,
}

func init() {
	usersCreateCmd.Flags().StringVar(&searchDomain, "domain", "", "Account domain (default: first configured)")
	usersCreateCmd.Flags().StringVar(&userFirst, "first", "", "First name")
	usersCreateCmd.Flags().StringVar(&userLast, "last", "", "Last name")
	usersCreateCmd.Flags().StringVar(&userSam, "sam", "", "Account name (sAMAccountName)")
	usersCreateCmd.Flags().StringVar(&userExpires, "expires", "", "Expiration date (YYYY-MM-DD, default one year out)")
	usersCreateCmd.Flags().StringArrayVar(&userGroups, "group", nil, "Optional group to associate (repeatable)")
	usersCreateCmd.Flags().BoolVar(&adminAcct, "admin-account", false, "Also create a paired admin account")
}

func runUsersCreate(cmd *cobra.Command, args []string) error {
	ctrl, cfg, err := buildController()
	if err != nil {
		return err
	}
	state, err := establish(ctrl)
	if err != nil {
		return err
	}

	if !state.Session.IsHighPrivilege {
		return fmt.Errorf("creating users requires a high-privilege session")
	}

	form := actions.CreateForm{
		Domain:             resolveDomain(state, cfg),
		FirstName:          userFirst,
		LastName:           userLast,
		SamAccountName:     userSam,
		OptionalGroups:     userGroups,
		CreateAdminAccount: adminAcct,
	}
	if userExpires != "" {
		d, err := api.ParseDate(userExpires)
		if err != nil {
			return err
		}
		form.Expiration = &d
	} else {
		_, max := actions.ExpirationWindow()
		form.Expiration = &max
	}

	outcome, err := newPromptDispatcher(ctrl.Client()).
		SubmitCreate(context.Background(), form, state.Session.IsHighPrivilege)
	if err != nil {
		return fmt.Errorf("%s", actions.FailureNotice("create user", err))
	}

	result := outcome.Create
	if outputFormat == "json" {
		return printJSON(result)
	}

	if result.Message != "" {
		fmt.Println(result.Message)
	}
	if result.UserAccount != nil {
		fmt.Printf("User account:  %s\n", result.UserAccount.SamAccountName)
		fmt.Printf("Password:      %s\n", result.UserAccount.InitialPassword)
	}
	if result.AdminAccount != nil {
		fmt.Printf("Admin account: %s\n", result.AdminAccount.SamAccountName)
		fmt.Printf("Password:      %s\n", result.AdminAccount.InitialPassword)
	}
	if len(result.GroupsAssociated) > 0 {
		fmt.Printf("Groups:        %s\n", strings.Join(result.GroupsAssociated, ", "))
	}
	fmt.Println("\nRecord the passwords now. They are not shown again.")
	return nil
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <account>",
	Short: "Update an existing account",
	Long: `Update an existing directory account.

The current record is fetched first; only the fields given as flags are
changed. Group and admin-account options require a high-privilege
session.`,
	Example: `  adcon users update jdoe --domain corp.example --last Smith
  adcon users update jdoe --expires 2027-01-31`,
	Args: cobra.ExactArgs(1),
	RunE: runUsersUpdate,
}

func init() {
	usersUpdateCmd.Flags().StringVar(&searchDomain, "domain", "", "Account domain (default: first configured)")
	usersUpdateCmd.Flags().StringVar(&userFirst, "first", "", "New first name")
	usersUpdateCmd.Flags().StringVar(&userLast, "last", "", "New last name")
	usersUpdateCmd.Flags().StringVar(&userExpires, "expires", "", "New expiration date (YYYY-MM-DD)")
	usersUpdateCmd.Flags().StringArrayVar(&userGroups, "group", nil, "Replace optional group associations (repeatable)")
	usersUpdateCmd.Flags().BoolVar(&adminAcct, "admin-account", false, "Manage the paired admin account")
}

func runUsersUpdate(cmd *cobra.Command, args []string) error {
	ctrl, cfg, err := buildController()
	if err != nil {
		return err
	}
	state, err := establish(ctrl)
	if err != nil {
		return err
	}

	privileged := cmd.Flags().Changed("admin-account") || cmd.Flags().Changed("group")
	if !state.Session.IsHighPrivilege && privileged {
		return fmt.Errorf("--admin-account and --group require a high-privilege session")
	}

	sam := args[0]
	domain := resolveDomain(state, cfg)
	dispatcher := newPromptDispatcher(ctrl.Client())

	detail, apiErr := dispatcher.BeginEdit(context.Background(), domain, sam)
	if apiErr != nil {
		return fmt.Errorf("%s", actions.FailureNotice("load user details", apiErr))
	}
	if detail == nil {
		return fmt.Errorf("%s", actions.VanishedNotice(sam))
	}

	form := actions.FormFromDetail(detail, state.Settings.OptionalGroupsForHighPrivilege)
	if cmd.Flags().Changed("first") {
		form.FirstName = userFirst
	}
	if cmd.Flags().Changed("last") {
		form.LastName = userLast
	}
	if cmd.Flags().Changed("group") {
		form.OptionalGroups = userGroups
	}
	if cmd.Flags().Changed("admin-account") {
		form.ManageAdminAccount = adminAcct
	}
	if cmd.Flags().Changed("expires") {
		d, err := api.ParseDate(userExpires)
		if err != nil {
			return err
		}
		form.Expiration = &d
	}

	outcome, err := dispatcher.SubmitEdit(context.Background(), form, state.Session.IsHighPrivilege)
	if err != nil {
		return fmt.Errorf("%s", actions.FailureNotice("update user", err))
	}
	fmt.Println(outcome.Notice)
	return nil
}

var usersResetCmd = &cobra.Command{
	Use:   "reset-password <account>",
	Short: "Reset an account's password",
	Long: `Generate a new random password for an account.

The new password is printed once and never stored. The action asks for
confirmation unless --yes is given.`,
	Example: `  adcon users reset-password jdoe --domain corp.example
  adcon users reset-password jdoe --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runUsersReset,
}

func init() {
	usersResetCmd.Flags().StringVar(&searchDomain, "domain", "", "Account domain (default: first configured)")
}

func runUsersReset(cmd *cobra.Command, args []string) error {
	return runSimpleAction(args[0], "reset password", func(d *actions.Dispatcher, domain, sam string) (*actions.Outcome, error) {
		return d.ResetPassword(context.Background(), domain, sam)
	})
}

var usersUnlockCmd = &cobra.Command{
	Use:     "unlock <account>",
	Short:   "Unlock a locked-out account",
	Example: `  adcon users unlock jdoe --domain corp.example --yes`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimpleAction(args[0], "unlock account", func(d *actions.Dispatcher, domain, sam string) (*actions.Outcome, error) {
			return d.Unlock(context.Background(), domain, sam)
		})
	},
}

var usersEnableCmd = &cobra.Command{
	Use:     "enable <account>",
	Short:   "Enable a disabled account",
	Example: `  adcon users enable jdoe --domain corp.example --yes`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimpleAction(args[0], "enable account", func(d *actions.Dispatcher, domain, sam string) (*actions.Outcome, error) {
			return d.Enable(context.Background(), domain, sam)
		})
	},
}

var usersDisableCmd = &cobra.Command{
	Use:     "disable <account>",
	Short:   "Disable an account",
	Example: `  adcon users disable jdoe --domain corp.example --yes`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimpleAction(args[0], "disable account", func(d *actions.Dispatcher, domain, sam string) (*actions.Outcome, error) {
			return d.Disable(context.Background(), domain, sam)
		})
	},
}

func init() {
	usersUnlockCmd.Flags().StringVar(&searchDomain, "domain", "", "Account domain (default: first configured)")
	usersEnableCmd.Flags().StringVar(&searchDomain, "domain", "", "Account domain (default: first configured)")
	usersDisableCmd.Flags().StringVar(&searchDomain, "domain", "", "Account domain (default: first configured)")
}

// runSimpleAction handles the shared shape of the single-account
// workflows: establish, confirm, invoke, report.
func runSimpleAction(sam, verb string, run func(*actions.Dispatcher, string, string) (*actions.Outcome, error)) error {
	ctrl, cfg, err := buildController()
	if err != nil {
		return err
	}
	state, err := establish(ctrl)
	if err != nil {
		return err
	}

	domain := resolveDomain(state, cfg)
	outcome, err := run(newPromptDispatcher(ctrl.Client()), domain, sam)
	if err != nil {
		if errors.Is(err, actions.ErrCancelled) {
			fmt.Println("Cancelled.")
			return nil
		}
		return fmt.Errorf("%s", actions.FailureNotice(verb, err))
	}

	if outcome.Reset != nil {
		if outputFormat == "json" {
			return printJSON(outcome.Reset)
		}
		fmt.Printf("Account:      %s\n", outcome.Reset.SamAccountName)
		fmt.Printf("New password: %s\n", outcome.Reset.NewPassword)
		fmt.Println("\nRecord the password now. It is not shown again.")
		return nil
	}

	fmt.Println(outcome.Notice)
	return nil
}
