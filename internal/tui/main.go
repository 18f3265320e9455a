package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkarlsen/adcon/internal/actions"
	"github.com/mkarlsen/adcon/internal/api"
	"github.com/mkarlsen/adcon/internal/directory"
	"github.com/mkarlsen/adcon/internal/session"
)

// focusArea tracks which part of the main screen receives navigation keys.
type focusArea int

const (
	focusResults focusArea = iota
	focusFilter
)

// filterField indexes the filter bar fields.
type filterField int

const (
	fieldDomain filterField = iota
	fieldName
	fieldStatus
	fieldAdmin
)

// modalKind identifies the active dialog. Dialogs are exclusive: at most
// one is open, and every path out releases it.
type modalKind int

const (
	modalNone modalKind = iota
	modalConfirm
	modalForm
	modalResetResult
	modalCreateResult
)

// noticeKind selects the banner style for the dismissible notice.
type noticeKind int

const (
	noticeSuccess noticeKind = iota
	noticeWarning
	noticeError
)

// adminFilterChoice cycles any / with admin / without admin.
type adminFilterChoice int

const (
	adminAny adminFilterChoice = iota
	adminWith
	adminWithout
)

// confirmState is the pending destructive action behind the confirm
// dialog. The workflow command is only built from the accepted branch.
type confirmState struct {
	Prompt string
	Action directory.Action
	Domain string
	Sam    string
}

// mainKeyMap defines key bindings for the main screen
type mainKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Edit     key.Binding
	Reset    key.Binding
	Unlock   key.Binding
	Toggle   key.Binding
	New      key.Binding
	Filter   key.Binding
	Searched key.Binding
	Logout   key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k mainKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Reset, k.Unlock, k.Toggle, k.New, k.Filter, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k mainKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Edit, k.Reset, k.Unlock, k.Toggle},
		{k.New, k.Filter, k.Searched, k.Logout, k.Quit},
	}
}

func newMainKeyMap() mainKeyMap {
	return mainKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Edit:     key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter/e", "edit")),
		Reset:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "reset password")),
		Unlock:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unlock")),
		Toggle:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "enable/disable")),
		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new user")),
		Filter:   key.NewBinding(key.WithKeys("f", "/"), key.WithHelp("f", "filter")),
		Searched: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "search")),
		Logout:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// MainModel is the authenticated working screen: the filter bar, the
// search result list with per-row actions, the dismissible notice banner,
// and the dialog overlays.
type MainModel struct {
	Session  session.State
	Search   *directory.Service
	Dispatch *actions.Dispatcher

	// Filter bar state
	DomainIdx   int
	NameInput   textinput.Model
	Status      directory.Status
	AdminFilter adminFilterChoice
	FilterFocus filterField
	Focus       focusArea

	// Result list state. ResultNote is the placeholder shown instead of
	// rows: empty-result and failed-search text both land here because a
	// failed search is locally recoverable by re-searching.
	Results    *directory.ResultSet
	ResultNote string
	Cursor     int
	Searching  bool

	// Dismissible notice banner
	Notice     string
	NoticeKind noticeKind

	// Dialog state
	Modal        modalKind
	Confirm      confirmState
	Form         FormModel
	ResetResult  *api.ResetPasswordResult
	CreateResult *api.CreateUserResult

	LogoutRequested bool

	Keys mainKeyMap

	Width  int
	Height int
}

// NewMainModel creates the main screen for an established session.
func NewMainModel(state session.State, search *directory.Service, dispatch *actions.Dispatcher) MainModel {
	name := textinput.New()
	name.Placeholder = "name or account"
	name.CharLimit = 64
	name.Width = 24

	return MainModel{
		Session:   state,
		Search:    search,
		Dispatch:  dispatch,
		NameInput: name,
		Keys:      newMainKeyMap(),
	}
}

func (m MainModel) domains() []string {
	if m.Session.Settings == nil {
		return nil
	}
	return m.Session.Settings.Domains
}

func (m MainModel) selectedDomain() string {
	domains := m.domains()
	if len(domains) == 0 {
		return ""
	}
	if m.DomainIdx < 0 || m.DomainIdx >= len(domains) {
		return domains[0]
	}
	return domains[m.DomainIdx]
}

func (m MainModel) filter() directory.Filter {
	f := directory.Filter{
		Domain: m.selectedDomain(),
		Name:   strings.TrimSpace(m.NameInput.Value()),
		Status: m.Status,
	}
	switch m.AdminFilter {
	case adminWith:
		yes := true
		f.HasAdminAccount = &yes
	case adminWithout:
		no := false
		f.HasAdminAccount = &no
	}
	return f
}

func (m MainModel) selectedRow() *directory.Row {
	if m.Results == nil || m.Cursor < 0 || m.Cursor >= len(m.Results.Rows) {
		return nil
	}
	return &m.Results.Rows[m.Cursor]
}

// Init runs the initial search with the default filter (first configured
// domain, no constraints).
func (m MainModel) Init() tea.Cmd {
	return m.startSearch()
}

func (m MainModel) startSearch() tea.Cmd {
	f := m.filter()
	if err := f.Validate(); err != nil {
		// Rejected client-side: no network, previous results untouched
		return func() tea.Msg { return searchResultMsg{err: err} }
	}
	return searchCmd(m.Search, f)
}

// Update handles main-screen messages.
func (m MainModel) Update(msg tea.Msg) (MainModel, tea.Cmd) {
	switch msg := msg.(type) {
	case searchResultMsg:
		return m.handleSearchResult(msg)

	case actionResultMsg:
		return m.handleActionResult(msg)

	case detailResultMsg:
		return m.handleDetailResult(msg)

	case tea.KeyMsg:
		if m.Modal != modalNone {
			return m.updateModal(msg)
		}
		if m.Focus == focusFilter {
			return m.updateFilter(msg)
		}
		return m.updateResults(msg)
	}

	// Let the focused text input consume non-key messages (blink ticks)
	if m.Modal == modalForm {
		var cmd tea.Cmd
		m.Form, cmd = m.Form.Update(msg)
		return m, cmd
	}
	if m.Focus == focusFilter && m.FilterFocus == fieldName {
		var cmd tea.Cmd
		m.NameInput, cmd = m.NameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m MainModel) handleSearchResult(msg searchResultMsg) (MainModel, tea.Cmd) {
	m.Searching = false

	if msg.err != nil {
		var apiErr *api.APIError
		if errors.As(msg.err, &apiErr) {
			// Replace the result area wholesale with the failure text
			m.Results = nil
			m.Cursor = 0
			m.ResultNote = directory.FailedMessage(apiErr)
			return m, nil
		}
		// Client-side rejection: keep whatever was rendered before
		m.Notice = msg.err.Error()
		m.NoticeKind = noticeWarning
		return m, nil
	}

	m.Results = msg.set
	m.Cursor = 0
	m.ResultNote = ""
	if msg.set.Empty() {
		m.ResultNote = directory.NoUsersMessage
	}
	return m, nil
}

func (m MainModel) handleActionResult(msg actionResultMsg) (MainModel, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, actions.ErrCancelled) {
			return m, nil
		}

		if m.Modal == modalForm {
			// Form failures stay inside the dialog
			var vErr *actions.ValidationError
			if errors.As(msg.err, &vErr) {
				m.Form.FieldErrs = vErr.Fields
				m.Form.ErrorText = ""
				return m, nil
			}
			var apiErr *api.APIError
			if errors.As(msg.err, &apiErr) {
				m.Form.ErrorText = actions.FailureNotice(msg.verb, apiErr)
				m.Form.MarkServerFields(apiErr.FieldErrors)
				return m, nil
			}
			m.Form.ErrorText = actions.FailureNotice(msg.verb, msg.err)
			return m, nil
		}

		m.Notice = actions.FailureNotice(msg.verb, msg.err)
		m.NoticeKind = noticeError
		return m, nil
	}

	outcome := msg.outcome
	m.Modal = modalNone
	m.Form = FormModel{}

	var cmd tea.Cmd
	if outcome.Refresh {
		m.Searching = true
		cmd = m.refreshCmd()
	}

	switch {
	case outcome.Reset != nil:
		m.Modal = modalResetResult
		m.ResetResult = outcome.Reset
	case outcome.Create != nil:
		m.Modal = modalCreateResult
		m.CreateResult = outcome.Create
	case outcome.Notice != "":
		m.Notice = outcome.Notice
		m.NoticeKind = noticeSuccess
	}
	return m, cmd
}

// refreshCmd re-runs the search whose results are on screen, falling back
// to the current filter bar when nothing has been searched yet.
func (m MainModel) refreshCmd() tea.Cmd {
	if m.Results != nil {
		return searchCmd(m.Search, m.Results.Filter)
	}
	return m.startSearch()
}

func (m MainModel) handleDetailResult(msg detailResultMsg) (MainModel, tea.Cmd) {
	if msg.err != nil {
		m.Notice = actions.FailureNotice("load user details", msg.err)
		m.NoticeKind = noticeError
		return m, nil
	}
	if msg.detail == nil {
		// The account vanished between search and edit
		m.Notice = actions.VanishedNotice(msg.sam)
		m.NoticeKind = noticeWarning
		m.Searching = true
		return m, m.refreshCmd()
	}

	m.Modal = modalForm
	m.Form = NewEditFormModel(msg.detail, m.Session)
	return m, m.Form.Focus()
}

func (m MainModel) updateResults(msg tea.KeyMsg) (MainModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Logout):
		m.LogoutRequested = true
		return m, nil

	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil

	case key.Matches(msg, m.Keys.Down):
		if m.Results != nil && m.Cursor < len(m.Results.Rows)-1 {
			m.Cursor++
		}
		return m, nil

	case key.Matches(msg, m.Keys.Filter):
		m.Focus = focusFilter
		m.FilterFocus = fieldDomain
		return m, nil

	case key.Matches(msg, m.Keys.Searched):
		m.Searching = true
		return m, m.startSearch()

	case key.Matches(msg, m.Keys.New):
		// Creation is a high-privilege affordance; the server enforces it,
		// the console just never offers it
		if !m.Session.Session.IsHighPrivilege {
			m.Notice = "Creating users requires a high-privilege session."
			m.NoticeKind = noticeWarning
			return m, nil
		}
		m.Modal = modalForm
		m.Form = NewCreateFormModel(m.Session, m.selectedDomain())
		return m, m.Form.Focus()

	case key.Matches(msg, m.Keys.Edit):
		if row := m.selectedRow(); row != nil {
			return m, detailCmd(m.Dispatch, row.Account.Domain, row.Account.SamAccountName)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Reset):
		return m.openConfirm(directory.ActionResetPassword), nil

	case key.Matches(msg, m.Keys.Unlock):
		return m.openConfirm(directory.ActionUnlock), nil

	case key.Matches(msg, m.Keys.Toggle):
		row := m.selectedRow()
		if row == nil {
			return m, nil
		}
		if row.Account.Enabled {
			return m.openConfirm(directory.ActionDisable), nil
		}
		return m.openConfirm(directory.ActionEnable), nil

	case msg.String() == "esc":
		m.Notice = ""
		return m, nil
	}

	return m, nil
}

// openConfirm stages the confirm dialog for a row action. The prompts
// mirror the dispatcher's so what the operator accepts is exactly what
// runs.
func (m MainModel) openConfirm(act directory.Action) MainModel {
	row := m.selectedRow()
	if row == nil {
		return m
	}
	sam := row.Account.SamAccountName

	var prompt string
	switch act {
	case directory.ActionUnlock:
		prompt = fmt.Sprintf("Are you sure you want to unlock the account for %s?", sam)
	case directory.ActionDisable:
		prompt = fmt.Sprintf("Are you sure you want to DISABLE the account for %s?", sam)
	case directory.ActionEnable:
		prompt = fmt.Sprintf("Are you sure you want to ENABLE the account for %s?", sam)
	case directory.ActionResetPassword:
		prompt = fmt.Sprintf("Are you sure you want to reset the password for %s? A new random password will be generated.", sam)
	}

	m.Modal = modalConfirm
	m.Confirm = confirmState{
		Prompt: prompt,
		Action: act,
		Domain: row.Account.Domain,
		Sam:    sam,
	}
	return m
}

func (m MainModel) updateFilter(msg tea.KeyMsg) (MainModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Focus = focusResults
		m.NameInput.Blur()
		return m, nil

	case "enter":
		m.Focus = focusResults
		m.NameInput.Blur()
		m.Searching = true
		return m, m.startSearch()

	case "tab", "down":
		m.NameInput.Blur()
		m.FilterFocus = (m.FilterFocus + 1) % 4
		if m.FilterFocus == fieldName {
			return m, m.NameInput.Focus()
		}
		return m, nil

	case "shift+tab", "up":
		m.NameInput.Blur()
		m.FilterFocus = (m.FilterFocus + 3) % 4
		if m.FilterFocus == fieldName {
			return m, m.NameInput.Focus()
		}
		return m, nil
	}

	switch m.FilterFocus {
	case fieldDomain:
		domains := m.domains()
		if len(domains) == 0 {
			return m, nil
		}
		switch msg.String() {
		case "left", "h":
			m.DomainIdx = (m.DomainIdx + len(domains) - 1) % len(domains)
		case "right", "l", " ":
			m.DomainIdx = (m.DomainIdx + 1) % len(domains)
		}
		return m, nil

	case fieldName:
		var cmd tea.Cmd
		m.NameInput, cmd = m.NameInput.Update(msg)
		return m, cmd

	case fieldStatus:
		switch msg.String() {
		case "left", "h", "right", "l", " ":
			m.Status = nextStatus(m.Status, msg.String() == "left" || msg.String() == "h")
		}
		return m, nil

	case fieldAdmin:
		switch msg.String() {
		case "left", "h":
			m.AdminFilter = (m.AdminFilter + 2) % 3
		case "right", "l", " ":
			m.AdminFilter = (m.AdminFilter + 1) % 3
		}
		return m, nil
	}

	return m, nil
}

func nextStatus(s directory.Status, backwards bool) directory.Status {
	order := []directory.Status{directory.StatusAny, directory.StatusEnabled, directory.StatusDisabled}
	idx := 0
	for i, v := range order {
		if v == s {
			idx = i
			break
		}
	}
	if backwards {
		idx = (idx + 2) % 3
	} else {
		idx = (idx + 1) % 3
	}
	return order[idx]
}

func (m MainModel) updateModal(msg tea.KeyMsg) (MainModel, tea.Cmd) {
	switch m.Modal {
	case modalConfirm:
		switch msg.String() {
		case "y", "enter":
			c := m.Confirm
			m.Modal = modalNone
			return m, rowActionCmd(m.Dispatch, c.Action, c.Domain, c.Sam)
		case "n", "esc":
			m.Modal = modalNone
			return m, nil
		}
		return m, nil

	case modalForm:
		if msg.String() == "esc" {
			m.Modal = modalNone
			m.Form = FormModel{}
			return m, nil
		}
		var cmd tea.Cmd
		m.Form, cmd = m.Form.Update(msg)
		if m.Form.Submitted {
			m.Form.Submitted = false
			if m.Form.Mode == formCreate {
				return m, submitCreateCmd(m.Dispatch, m.Form.CreateForm(), m.Session.Session.IsHighPrivilege)
			}
			return m, submitEditCmd(m.Dispatch, m.Form.EditForm(), m.Session.Session.IsHighPrivilege)
		}
		return m, cmd

	case modalResetResult:
		switch msg.String() {
		case "enter", "esc", "q":
			m.Modal = modalNone
			m.ResetResult = nil
		}
		return m, nil

	case modalCreateResult:
		switch msg.String() {
		case "enter", "esc", "q":
			m.Modal = modalNone
			m.CreateResult = nil
		}
		return m, nil
	}

	return m, nil
}

// render draws the main screen or, when a dialog is open, the dialog.
func (m MainModel) render(operator, busyIndicator string) string {
	if m.Modal != modalNone {
		return m.renderModal()
	}

	var b strings.Builder
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")

	if m.Notice != "" {
		b.WriteString(m.renderNotice())
		b.WriteString("\n")
	}

	b.WriteString(m.renderResults())

	footer := m.footerHelp()
	if busyIndicator != "" {
		footer = busyIndicator + " • " + footer
	}
	return RenderApplicationContainer(b.String(), footer, operator, m.Width, m.Height)
}

func (m MainModel) footerHelp() string {
	if m.Focus == focusFilter {
		return "tab next field • ←/→ change • enter search • esc back"
	}
	help := "enter/e edit • p reset pw • u unlock • t enable/disable • n new • f filter • s search"
	if m.Notice != "" {
		help += " • esc dismiss"
	}
	return help + " • L logout • q quit"
}

func filterLabel(label, value string, focused bool) string {
	text := label + ": " + value
	if focused {
		return FocusedInputStyle.Render("[" + text + "]")
	}
	return NormalItemStyle.Render(" " + text + " ")
}

func (m MainModel) renderFilterBar() string {
	focusedBar := m.Focus == focusFilter

	domain := m.selectedDomain()
	if domain == "" {
		domain = "(none)"
	}

	status := "any"
	switch m.Status {
	case directory.StatusEnabled:
		status = "enabled"
	case directory.StatusDisabled:
		status = "disabled"
	}

	admin := "any"
	switch m.AdminFilter {
	case adminWith:
		admin = "yes"
	case adminWithout:
		admin = "no"
	}

	nameView := m.NameInput.View()
	if !focusedBar || m.FilterFocus != fieldName {
		nameView = m.NameInput.Value()
		if nameView == "" {
			nameView = "(any)"
		}
	}

	parts := []string{
		filterLabel("Domain", domain, focusedBar && m.FilterFocus == fieldDomain),
		filterLabel("Name", nameView, focusedBar && m.FilterFocus == fieldName),
		filterLabel("Status", status, focusedBar && m.FilterFocus == fieldStatus),
		filterLabel("Admin acct", admin, focusedBar && m.FilterFocus == fieldAdmin),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m MainModel) renderNotice() string {
	switch m.NoticeKind {
	case noticeSuccess:
		return RenderSuccess(m.Notice)
	case noticeWarning:
		return RenderWarning(m.Notice)
	default:
		return RenderError(m.Notice)
	}
}

func (m MainModel) renderResults() string {
	var b strings.Builder

	if m.Searching {
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("Searching..."))
		return b.String()
	}

	if m.Results == nil || m.Results.Empty() {
		note := m.ResultNote
		if note == "" {
			note = "Press s to search."
		}
		b.WriteString("\n")
		if strings.HasPrefix(note, "Failed") {
			b.WriteString(ErrorStyle.Render(note))
		} else {
			b.WriteString(LabelStyle.Render(note))
		}
		return b.String()
	}

	header := fmt.Sprintf("  %-28s %-16s %-12s %-9s %-6s %s",
		"Name", "Account", "Domain", "Status", "Admin", "Expires")
	b.WriteString(SubtitleStyle.Render(header))
	b.WriteString("\n")

	for i, row := range m.Results.Rows {
		acct := row.Account

		status := "disabled"
		if acct.Enabled {
			status = "enabled"
		}
		admin := "no"
		if acct.HasAdminAccount {
			admin = "yes"
		}
		expires := "-"
		if acct.AccountExpirationDate != nil {
			expires = acct.AccountExpirationDate.String()
		}

		line := fmt.Sprintf("%-28s %-16s %-12s %-9s %-6s %s",
			truncate(acct.DisplayName, 28), acct.SamAccountName, acct.Domain, status, admin, expires)

		if i == m.Cursor && m.Focus == focusResults {
			b.WriteString(SelectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(NormalItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if row := m.selectedRow(); row != nil {
		labels := make([]string, 0, len(row.Actions))
		for _, a := range row.Actions {
			labels = append(labels, a.String())
		}
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("Actions: " + strings.Join(labels, " • ")))
	}

	return b.String()
}

// truncate shortens display text to max runes. Display names are
// routinely non-ASCII, so slicing happens on runes, not bytes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func (m MainModel) renderModal() string {
	switch m.Modal {
	case modalConfirm:
		content := RenderWarning("Confirm") + "\n\n" +
			m.Confirm.Prompt + "\n\n" +
			HelpStyle.Render("y confirm • n cancel")
		return RenderModal(content, m.Width, m.Height)

	case modalForm:
		return RenderModal(m.Form.View(), m.Width, m.Height)

	case modalResetResult:
		r := m.ResetResult
		content := RenderSuccess("Password Reset") + "\n\n" +
			LabelStyle.Render("Account: ") + r.SamAccountName + "\n" +
			LabelStyle.Render("New password: ") + r.NewPassword + "\n\n" +
			WarningStyle.Render("Record this now. It is not shown again.") + "\n\n" +
			HelpStyle.Render("enter close")
		return RenderModal(content, m.Width, m.Height)

	case modalCreateResult:
		return RenderModal(m.renderCreateResult(), m.Width, m.Height)
	}
	return ""
}

func (m MainModel) renderCreateResult() string {
	r := m.CreateResult

	var b strings.Builder
	b.WriteString(RenderSuccess("User Created"))
	b.WriteString("\n\n")
	if r.Message != "" {
		b.WriteString(r.Message)
		b.WriteString("\n\n")
	}
	if r.UserAccount != nil {
		b.WriteString(SubtitleStyle.Render("User account"))
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("Account: ") + r.UserAccount.SamAccountName + "\n")
		b.WriteString(LabelStyle.Render("Password: ") + r.UserAccount.InitialPassword + "\n")
	}
	if r.AdminAccount != nil {
		b.WriteString(SubtitleStyle.Render("Admin account"))
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("Account: ") + r.AdminAccount.SamAccountName + "\n")
		b.WriteString(LabelStyle.Render("Password: ") + r.AdminAccount.InitialPassword + "\n")
	}
	if len(r.GroupsAssociated) > 0 {
		b.WriteString(LabelStyle.Render("Groups: ") + strings.Join(r.GroupsAssociated, ", ") + "\n")
	}
	b.WriteString("\n")
	b.WriteString(WarningStyle.Render("Record the passwords now. They are not shown again."))
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("enter close"))
	return b.String()
}
