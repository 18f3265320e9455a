package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkarlsen/adcon/internal/actions"
	"github.com/mkarlsen/adcon/internal/api"
	"github.com/mkarlsen/adcon/internal/session"
)

// formMode selects between the create and edit dialogs, which share the
// same model and differ only in their fixed fields.
type formMode int

const (
	formCreate formMode = iota
	formEdit
)

// FormModel is the create/edit dialog state. The privilege-gated controls
// (admin account, optional groups) exist only for high-privilege sessions;
// low-privilege operators never see them and their submissions omit the
// corresponding payload fields entirely.
type FormModel struct {
	Mode          formMode
	HighPrivilege bool

	// Domain selection: cycled in create mode, fixed in edit mode
	Domains     []string
	DomainIdx   int
	FixedDomain string

	// Account name: entered in create mode, fixed in edit mode
	Sam      string
	SamInput textinput.Model

	FirstName textinput.Model
	LastName  textinput.Model
	ExpInput  textinput.Model

	// Optional group checklist (high privilege only)
	Groups        []string
	GroupSelected []bool
	AdminChecked  bool

	FocusIdx  int
	FieldErrs map[string]string
	ErrorText string

	// Set for one Update cycle when the operator submits a parseable form
	Submitted bool
}

func newFormInput(placeholder string, width int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 64
	in.Width = width
	return in
}

// NewCreateFormModel builds an empty new-account dialog. The expiration
// defaults to the window maximum, one year out.
func NewCreateFormModel(state session.State, domain string) FormModel {
	m := FormModel{
		Mode:          formCreate,
		HighPrivilege: state.Session.IsHighPrivilege,
		Domains:       state.Settings.Domains,
		SamInput:      newFormInput("jdoe", 24),
		FirstName:     newFormInput("first name", 24),
		LastName:      newFormInput("last name", 24),
		ExpInput:      newFormInput("YYYY-MM-DD", 12),
		FieldErrs:     map[string]string{},
	}
	for i, d := range m.Domains {
		if d == domain {
			m.DomainIdx = i
		}
	}
	if m.HighPrivilege {
		m.Groups = state.Settings.OptionalGroupsForHighPrivilege
		m.GroupSelected = make([]bool, len(m.Groups))
	}
	_, max := actions.ExpirationWindow()
	m.ExpInput.SetValue(max.String())
	return m
}

// NewEditFormModel seeds the edit dialog from the lazily fetched record.
func NewEditFormModel(detail *api.AccountDetail, state session.State) FormModel {
	seed := actions.FormFromDetail(detail, state.Settings.OptionalGroupsForHighPrivilege)

	m := FormModel{
		Mode:          formEdit,
		HighPrivilege: state.Session.IsHighPrivilege,
		FixedDomain:   seed.Domain,
		Sam:           seed.SamAccountName,
		FirstName:     newFormInput("first name", 24),
		LastName:      newFormInput("last name", 24),
		ExpInput:      newFormInput("YYYY-MM-DD", 12),
		AdminChecked:  seed.ManageAdminAccount,
		FieldErrs:     map[string]string{},
	}
	m.FirstName.SetValue(seed.FirstName)
	m.LastName.SetValue(seed.LastName)
	if seed.Expiration != nil {
		m.ExpInput.SetValue(seed.Expiration.String())
	}
	if m.HighPrivilege {
		m.Groups = state.Settings.OptionalGroupsForHighPrivilege
		m.GroupSelected = make([]bool, len(m.Groups))
		selected := map[string]bool{}
		for _, g := range seed.OptionalGroups {
			selected[g] = true
		}
		for i, g := range m.Groups {
			m.GroupSelected[i] = selected[g]
		}
	}
	return m
}

// Slot layout: the editable fields in traversal order, then the group
// checklist, then the admin checkbox, then the submit button.
func (m FormModel) textSlots() int {
	if m.Mode == formCreate {
		return 5 // domain, first, last, sam, expiration
	}
	return 3 // first, last, expiration
}

func (m FormModel) slotCount() int {
	n := m.textSlots()
	if m.HighPrivilege {
		n += len(m.Groups) + 1 // checklist + admin checkbox
	}
	return n + 1 // submit button
}

func (m FormModel) submitSlot() int {
	return m.slotCount() - 1
}

// input returns the text input behind a slot, or nil for non-input slots.
func (m *FormModel) input(slot int) *textinput.Model {
	if m.Mode == formCreate {
		switch slot {
		case 1:
			return &m.FirstName
		case 2:
			return &m.LastName
		case 3:
			return &m.SamInput
		case 4:
			return &m.ExpInput
		}
		return nil
	}
	switch slot {
	case 0:
		return &m.FirstName
	case 1:
		return &m.LastName
	case 2:
		return &m.ExpInput
	}
	return nil
}

// Focus focuses the first slot and returns its blink command.
func (m *FormModel) Focus() tea.Cmd {
	m.FocusIdx = 0
	return m.syncFocus()
}

func (m *FormModel) syncFocus() tea.Cmd {
	var cmd tea.Cmd
	for slot := 0; slot < m.slotCount(); slot++ {
		in := m.input(slot)
		if in == nil {
			continue
		}
		if slot == m.FocusIdx {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return cmd
}

// MarkServerFields maps server-reported per-field validation failures onto
// the dialog so the offending fields are highlighted.
func (m *FormModel) MarkServerFields(fieldErrs map[string][]string) {
	if m.FieldErrs == nil {
		m.FieldErrs = map[string]string{}
	}
	for field, msgs := range fieldErrs {
		m.FieldErrs[field] = strings.Join(msgs, " ")
	}
}

// Update handles dialog key messages. The caller handles esc (close).
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		// Blink ticks and the like go to the focused input
		if in := m.input(m.FocusIdx); in != nil {
			var cmd tea.Cmd
			*in, cmd = in.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "tab", "down":
		m.FocusIdx = (m.FocusIdx + 1) % m.slotCount()
		return m, m.syncFocus()

	case "shift+tab", "up":
		m.FocusIdx = (m.FocusIdx + m.slotCount() - 1) % m.slotCount()
		return m, m.syncFocus()

	case "enter":
		if m.FocusIdx == m.submitSlot() {
			return m.submit(), nil
		}
		m.FocusIdx = (m.FocusIdx + 1) % m.slotCount()
		return m, m.syncFocus()
	}

	// Domain cycling (create mode, slot 0)
	if m.Mode == formCreate && m.FocusIdx == 0 {
		switch keyMsg.String() {
		case "left", "h":
			if len(m.Domains) > 0 {
				m.DomainIdx = (m.DomainIdx + len(m.Domains) - 1) % len(m.Domains)
			}
		case "right", "l", " ":
			if len(m.Domains) > 0 {
				m.DomainIdx = (m.DomainIdx + 1) % len(m.Domains)
			}
		}
		return m, nil
	}

	// Checklist and checkbox toggles
	if m.HighPrivilege && m.FocusIdx >= m.textSlots() && m.FocusIdx < m.submitSlot() {
		if keyMsg.String() == " " || keyMsg.String() == "x" {
			idx := m.FocusIdx - m.textSlots()
			if idx < len(m.Groups) {
				m.GroupSelected[idx] = !m.GroupSelected[idx]
			} else {
				m.AdminChecked = !m.AdminChecked
			}
		}
		return m, nil
	}

	// Everything else goes to the focused text input
	if in := m.input(m.FocusIdx); in != nil {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit parses the expiration and flags the form for submission. A
// malformed date is caught here, before the dispatcher's own validation.
func (m FormModel) submit() FormModel {
	m.FieldErrs = map[string]string{}
	m.ErrorText = ""

	if v := strings.TrimSpace(m.ExpInput.Value()); v != "" {
		if _, err := api.ParseDate(v); err != nil {
			m.FieldErrs["accountExpirationDate"] = "expected YYYY-MM-DD"
			return m
		}
	}
	m.Submitted = true
	return m
}

func (m FormModel) expiration() *api.Date {
	v := strings.TrimSpace(m.ExpInput.Value())
	if v == "" {
		return nil
	}
	d, err := api.ParseDate(v)
	if err != nil {
		return nil
	}
	return &d
}

func (m FormModel) selectedGroups() []string {
	var groups []string
	for i, g := range m.Groups {
		if m.GroupSelected[i] {
			groups = append(groups, g)
		}
	}
	return groups
}

func (m FormModel) domain() string {
	if m.Mode == formEdit {
		return m.FixedDomain
	}
	if len(m.Domains) == 0 {
		return ""
	}
	return m.Domains[m.DomainIdx]
}

// CreateForm materializes the dialog into the workflow form.
func (m FormModel) CreateForm() actions.CreateForm {
	return actions.CreateForm{
		Domain:             m.domain(),
		FirstName:          strings.TrimSpace(m.FirstName.Value()),
		LastName:           strings.TrimSpace(m.LastName.Value()),
		SamAccountName:     strings.TrimSpace(m.SamInput.Value()),
		OptionalGroups:     m.selectedGroups(),
		CreateAdminAccount: m.AdminChecked,
		Expiration:         m.expiration(),
	}
}

// EditForm materializes the dialog into the workflow form.
func (m FormModel) EditForm() actions.EditForm {
	return actions.EditForm{
		Domain:             m.FixedDomain,
		SamAccountName:     m.Sam,
		FirstName:          strings.TrimSpace(m.FirstName.Value()),
		LastName:           strings.TrimSpace(m.LastName.Value()),
		OptionalGroups:     m.selectedGroups(),
		ManageAdminAccount: m.AdminChecked,
		Expiration:         m.expiration(),
	}
}

func (m FormModel) fieldLabel(label, apiField string) string {
	if _, bad := m.FieldErrs[apiField]; bad {
		return InvalidFieldStyle.Render(label + ":")
	}
	return LabelStyle.Render(label + ":")
}

// View renders the dialog content.
func (m FormModel) View() string {
	var b strings.Builder

	if m.Mode == formCreate {
		b.WriteString(RenderTitle("New User"))
	} else {
		b.WriteString(RenderTitle("Edit " + m.Sam))
	}
	b.WriteString("\n")

	focusMark := func(slot int) string {
		if slot == m.FocusIdx {
			return FocusedInputStyle.Render("> ")
		}
		return "  "
	}

	if m.Mode == formCreate {
		b.WriteString(focusMark(0))
		b.WriteString(m.fieldLabel("Domain", "domain"))
		b.WriteString(" ◂ " + m.domain() + " ▸\n")
		b.WriteString(focusMark(1) + m.fieldLabel("First name", "firstName") + " " + m.FirstName.View() + "\n")
		b.WriteString(focusMark(2) + m.fieldLabel("Last name", "lastName") + " " + m.LastName.View() + "\n")
		b.WriteString(focusMark(3) + m.fieldLabel("Account name", "samAccountName") + " " + m.SamInput.View() + "\n")
		b.WriteString(focusMark(4) + m.fieldLabel("Expires", "accountExpirationDate") + " " + m.ExpInput.View() + "\n")
	} else {
		b.WriteString("  " + LabelStyle.Render("Domain:") + " " + m.FixedDomain + "\n")
		b.WriteString("  " + LabelStyle.Render("Account name:") + " " + m.Sam + "\n")
		b.WriteString(focusMark(0) + m.fieldLabel("First name", "firstName") + " " + m.FirstName.View() + "\n")
		b.WriteString(focusMark(1) + m.fieldLabel("Last name", "lastName") + " " + m.LastName.View() + "\n")
		b.WriteString(focusMark(2) + m.fieldLabel("Expires", "accountExpirationDate") + " " + m.ExpInput.View() + "\n")
	}

	if m.HighPrivilege {
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render("Privileged options"))
		b.WriteString("\n")
		for i, g := range m.Groups {
			slot := m.textSlots() + i
			check := "[ ]"
			if m.GroupSelected[i] {
				check = "[x]"
			}
			b.WriteString(focusMark(slot) + check + " " + g + "\n")
		}
		adminSlot := m.textSlots() + len(m.Groups)
		check := "[ ]"
		if m.AdminChecked {
			check = "[x]"
		}
		adminLabel := "Create paired admin account"
		if m.Mode == formEdit {
			adminLabel = "Manage paired admin account"
		}
		b.WriteString(focusMark(adminSlot) + check + " " + adminLabel + "\n")
	}

	b.WriteString("\n")
	submit := "[ Submit ]"
	if m.FocusIdx == m.submitSlot() {
		submit = FocusedInputStyle.Render("[ Submit ]")
	}
	b.WriteString("  " + submit + "\n")

	for _, field := range []string{"domain", "firstName", "lastName", "samAccountName", "accountExpirationDate"} {
		if msg, ok := m.FieldErrs[field]; ok {
			b.WriteString(InvalidFieldStyle.Render("✗ "+field+": "+msg) + "\n")
		}
	}
	if m.ErrorText != "" {
		b.WriteString(ErrorStyle.Render(m.ErrorText) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("tab next • space toggle • enter submit • esc cancel"))
	return b.String()
}
