package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"medreview/pkg/audit"
	"medreview/pkg/chat"
	"medreview/pkg/inbox"
	"medreview/pkg/model"
	"medreview/pkg/session"
)

// filterAll is the "no filter" sentinel for status and priority filters.
const filterAll = "all"

// refreshMsg delivers one polling result from the session.
type refreshMsg session.RefreshResult

// patchResultMsg reports the outcome of a remote patch for one report.
type patchResultMsg struct {
	id  string
	err error
}

// Dashboard is the main model for the review console.
type Dashboard struct {
	repo     *inbox.Repository
	sess     *session.Session
	client   *inbox.Client
	auditor  *audit.Manager
	asker    chat.Asker
	reviewer string

	// UI state
	width        int
	height       int
	cursor       int
	scroll       int
	detailFocus  bool
	detailScroll int
	loaded       bool

	// Selection and edit buffer. Selecting a report reseeds the buffer
	// unconditionally; unsaved edits on the previous selection are gone.
	selectedID string
	editArea   textarea.Model
	editFocus  bool

	// Filtering
	filterStatus   string // filterAll or a model.Status value
	filterPriority string // filterAll or a model.Priority value
	searchQuery    string
	showSearch     bool

	// Modals
	confirm     ConfirmModel
	showConfirm bool
	rejectInput RejectInputModel
	showReject  bool
	jumpList    JumpListModel
	showJump    bool
	chatOverlay ChatOverlayModel
	showChat    bool

	toast ToastModel

	showHelp    bool
	showSummary bool
	quitting    bool
}

// NewDashboard creates the console model. auditor and asker may be nil; the
// corresponding features are then unavailable but review still works.
func NewDashboard(repo *inbox.Repository, sess *session.Session, client *inbox.Client, auditor *audit.Manager, asker chat.Asker, reviewer string) *Dashboard {
	ta := textarea.New()
	ta.Placeholder = "Edit the AI-generated explanation…"
	ta.CharLimit = 4000
	ta.SetWidth(60)
	ta.SetHeight(5)

	return &Dashboard{
		repo:           repo,
		sess:           sess,
		client:         client,
		auditor:        auditor,
		asker:          asker,
		reviewer:       reviewer,
		editArea:       ta,
		filterStatus:   filterAll,
		filterPriority: filterAll,
	}
}

// Init implements tea.Model.
func (m *Dashboard) Init() tea.Cmd {
	return m.waitForRefresh()
}

// waitForRefresh blocks on the session's updates channel and resumes the
// event loop with the next polling result.
func (m *Dashboard) waitForRefresh() tea.Cmd {
	if m.sess == nil {
		return nil
	}
	updates := m.sess.Updates()
	return func() tea.Msg {
		return refreshMsg(<-updates)
	}
}

// patchCmd issues the remote patch for an already locally-merged change.
func (m *Dashboard) patchCmd(id string, p inbox.Patch) tea.Cmd {
	if m.client == nil || m.sess == nil {
		return nil
	}
	client, userID := m.client, m.sess.UserID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), inbox.DefaultTimeout)
		defer cancel()
		return patchResultMsg{id: id, err: client.PatchReport(ctx, userID, id, p)}
	}
}

// FilterReports applies the triage filters: status AND priority AND search,
// where the query matches case-insensitively as a substring of patient ID,
// patient name or condition. Input order is preserved; the function is pure.
func FilterReports(reports []model.Report, status, priority, query string) []model.Report {
	q := strings.ToLower(query)
	var out []model.Report
	for _, r := range reports {
		if status != filterAll && string(r.Status) != status {
			continue
		}
		if priority != filterAll && string(r.Priority) != priority {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(r.PatientID), q) &&
			!strings.Contains(strings.ToLower(r.PatientName), q) &&
			!strings.Contains(strings.ToLower(r.MedicalCondition), q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilteredReports returns the collection as currently filtered.
func (m *Dashboard) FilteredReports() []model.Report {
	return FilterReports(m.repo.Reports(), m.filterStatus, m.filterPriority, m.searchQuery)
}

// Stats returns the aggregate counts over the whole collection.
func (m *Dashboard) Stats() model.Stats {
	return model.ComputeStats(m.repo.Reports())
}

// SelectedReport returns the selected report, nil when none.
func (m *Dashboard) SelectedReport() *model.Report {
	if m.selectedID == "" {
		return nil
	}
	r, ok := m.repo.Get(m.selectedID)
	if !ok {
		return nil
	}
	return &r
}

// IsDirty reports whether the explanation buffer differs from the selected
// report's stored explanation.
func (m *Dashboard) IsDirty() bool {
	r := m.SelectedReport()
	return r != nil && m.editArea.Value() != r.AIExplanation
}

// selectReport replaces the selection and reseeds the edit buffer from it.
// Unsaved edits on the previous selection are discarded without warning.
func (m *Dashboard) selectReport(id string) {
	r, ok := m.repo.Get(id)
	if !ok {
		return
	}
	m.selectedID = r.ID
	m.editArea.SetValue(r.AIExplanation)
	m.editArea.Blur()
	m.editFocus = false
	m.detailScroll = 0
}

// closePanel clears the selection and the edit buffer unconditionally.
func (m *Dashboard) closePanel() {
	m.selectedID = ""
	m.editArea.SetValue("")
	m.editArea.Blur()
	m.editFocus = false
	m.detailFocus = false
	m.detailScroll = 0
}

// Update implements tea.Model.
func (m *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rejectInput.SetSize(msg.Width, msg.Height)
		m.resizeEditArea()
		return m, nil

	case refreshMsg:
		cmd := m.applyRefresh(session.RefreshResult(msg))
		return m, tea.Batch(cmd, m.waitForRefresh())

	case patchResultMsg:
		if msg.err != nil {
			m.repo.ResolvePending(msg.id, false)
			return m, m.toast.Show("Failed to sync change with the report store", ToastError)
		}
		m.repo.ResolvePending(msg.id, true)
		return m, nil

	case toastExpiredMsg:
		m.toast.Update(msg)
		return m, nil

	case chatReplyMsg:
		if m.showChat {
			var cmd tea.Cmd
			m.chatOverlay, cmd = m.chatOverlay.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// applyRefresh reconciles one polling result into the repository. A failed
// fetch keeps the last-good collection and raises one error toast.
func (m *Dashboard) applyRefresh(res session.RefreshResult) tea.Cmd {
	if res.Err != nil {
		return m.toast.Show("Failed to load reports", ToastError)
	}
	m.repo.Reconcile(res.Reports)
	m.loaded = true

	if m.selectedID != "" {
		if _, ok := m.repo.Get(m.selectedID); !ok {
			m.closePanel()
		}
	}
	m.clampCursor()
	return nil
}

func (m *Dashboard) clampCursor() {
	n := len(m.FilteredReports())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

// handleKey routes keys. While a modal is open, every key goes to it; the
// routing releases when the modal closes by any exit path.
func (m *Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.showConfirm {
		return m.updateConfirm(msg)
	}
	if m.showReject {
		return m.updateReject(msg)
	}
	if m.showJump {
		return m.updateJump(msg)
	}
	if m.showChat {
		var cmd tea.Cmd
		m.chatOverlay, cmd = m.chatOverlay.Update(msg)
		if m.chatOverlay.IsCancelled() {
			m.showChat = false
			return m, nil
		}
		return m, cmd
	}
	if m.showSearch {
		return m.updateSearch(msg)
	}
	if m.editFocus {
		return m.updateEdit(msg)
	}

	switch msg.String() {
	case "j", "down":
		if m.detailFocus {
			m.detailScroll++
		} else if m.cursor < len(m.FilteredReports())-1 {
			m.cursor++
			m.ensureVisible()
		}
	case "k", "up":
		if m.detailFocus {
			if m.detailScroll > 0 {
				m.detailScroll--
			}
		} else if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}
	case "g", "home":
		m.cursor = 0
		m.scroll = 0
	case "G", "end":
		m.cursor = len(m.FilteredReports()) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureVisible()
	case "enter":
		filtered := m.FilteredReports()
		if m.cursor < len(filtered) {
			m.selectReport(filtered[m.cursor].ID)
		}
	case "x":
		m.closePanel()
	case "tab":
		if m.selectedID != "" {
			m.detailFocus = !m.detailFocus
		}
	case "f":
		m.cycleStatusFilter()
	case "p":
		m.cyclePriorityFilter()
	case "/":
		m.showSearch = true
		m.searchQuery = ""
	case "o":
		if m.repo.Len() > 0 {
			m.jumpList = NewJumpListModel(m.repo.Reports())
			m.showJump = true
			return m, m.jumpList.Init()
		}
	case "c":
		if m.asker != nil {
			m.chatOverlay = NewChatOverlayModel(m.asker, m.chatContext())
			m.showChat = true
			return m, m.chatOverlay.Init()
		}
	case "y":
		return m, m.copySummary()
	case "R":
		if m.sess != nil {
			m.sess.Refresh()
		}
	case "a":
		return m, m.openApproveGate()
	case "r":
		return m, m.openRejectGate()
	case "e":
		if m.selectedID != "" {
			m.editFocus = true
			m.editArea.Focus()
			return m, textarea.Blink
		}
	case "s":
		return m, m.openSaveGate()
	case "?":
		m.showHelp = true
	case "q", "ctrl+c":
		if m.showSummary || msg.String() == "ctrl+c" {
			return m, m.shutdown()
		}
		m.showSummary = true
	case "esc":
		if m.toast.Visible() {
			m.toast.Dismiss()
		} else if m.showSummary {
			m.showSummary = false
		} else if m.selectedID != "" {
			m.closePanel()
		}
	}
	return m, nil
}

func (m *Dashboard) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.confirm, cmd = m.confirm.Update(msg)

	if m.confirm.IsConfirmed() {
		action := m.confirm.Action()
		m.showConfirm = false
		return m, m.executeConfirmed(action)
	}
	if m.confirm.IsCancelled() {
		m.showConfirm = false
		return m, nil
	}
	return m, cmd
}

func (m *Dashboard) updateReject(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.rejectInput, cmd = m.rejectInput.Update(msg)

	if m.rejectInput.IsSubmitted() {
		m.showReject = false
		return m, m.executeReject(m.rejectInput.ReportID(), m.rejectInput.Reason())
	}
	if m.rejectInput.IsCancelled() {
		m.showReject = false
		return m, nil
	}
	return m, cmd
}

func (m *Dashboard) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.jumpList, cmd = m.jumpList.Update(msg)

	if id := m.jumpList.Chosen(); id != "" {
		m.showJump = false
		m.selectReport(id)
		m.moveCursorTo(id)
		return m, nil
	}
	if m.jumpList.IsCancelled() {
		m.showJump = false
		return m, nil
	}
	return m, cmd
}

func (m *Dashboard) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showSearch = false
		m.searchQuery = ""
		m.clampCursor()
	case "enter":
		m.showSearch = false
	case "backspace":
		if m.searchQuery != "" {
			runes := []rune(m.searchQuery)
			m.searchQuery = string(runes[:len(runes)-1])
			m.cursor = 0
			m.scroll = 0
		}
	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.searchQuery += string(msg.Runes)
			m.cursor = 0
			m.scroll = 0
		case tea.KeySpace:
			m.searchQuery += " "
			m.cursor = 0
			m.scroll = 0
		}
	}
	return m, nil
}

func (m *Dashboard) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editFocus = false
		m.editArea.Blur()
		return m, nil
	case "ctrl+s":
		m.editFocus = false
		m.editArea.Blur()
		return m, m.openSaveGate()
	}

	var cmd tea.Cmd
	m.editArea, cmd = m.editArea.Update(msg)
	return m, cmd
}

// cycleStatusFilter cycles all → PENDING → VERIFIED → REJECTED → all.
func (m *Dashboard) cycleStatusFilter() {
	switch m.filterStatus {
	case filterAll:
		m.filterStatus = string(model.StatusPending)
	case string(model.StatusPending):
		m.filterStatus = string(model.StatusVerified)
	case string(model.StatusVerified):
		m.filterStatus = string(model.StatusRejected)
	default:
		m.filterStatus = filterAll
	}
	m.cursor = 0
	m.scroll = 0
}

// cyclePriorityFilter cycles all → HIGH → MEDIUM → LOW → all.
func (m *Dashboard) cyclePriorityFilter() {
	switch m.filterPriority {
	case filterAll:
		m.filterPriority = string(model.PriorityHigh)
	case string(model.PriorityHigh):
		m.filterPriority = string(model.PriorityMedium)
	case string(model.PriorityMedium):
		m.filterPriority = string(model.PriorityLow)
	default:
		m.filterPriority = filterAll
	}
	m.cursor = 0
	m.scroll = 0
}

// openApproveGate opens the confirmation gate for an approval. Approving is
// unavailable when nothing is selected or the report is already VERIFIED;
// any other status may move to VERIFIED.
func (m *Dashboard) openApproveGate() tea.Cmd {
	r := m.SelectedReport()
	if r == nil || r.Status == model.StatusVerified {
		return nil
	}
	m.confirm = NewConfirmModel(actionApprove, "✓ Approve Report",
		fmt.Sprintf("Approve the report for %s? This will mark it as verified.", r.PatientName),
		ColorSuccess)
	m.showConfirm = true
	return nil
}

// openRejectGate opens the rejection gate, which carries the mandatory
// reason draft. Unavailable when the report is already REJECTED.
func (m *Dashboard) openRejectGate() tea.Cmd {
	r := m.SelectedReport()
	if r == nil || r.Status == model.StatusRejected {
		return nil
	}
	m.rejectInput = NewRejectInputModel(r.PatientName, r.ID)
	m.rejectInput.SetSize(m.width, m.height)
	m.showReject = true
	return m.rejectInput.Init()
}

// openSaveGate validates the edit buffer and opens the save confirmation.
// Save is reachable only when the buffer is dirty; a blank buffer raises an
// error toast instead of opening the gate.
func (m *Dashboard) openSaveGate() tea.Cmd {
	r := m.SelectedReport()
	if r == nil || !m.IsDirty() {
		return nil
	}
	if strings.TrimSpace(m.editArea.Value()) == "" {
		return m.toast.Show("Explanation cannot be empty", ToastError)
	}
	m.confirm = NewConfirmModel(actionSave, "💾 Save Changes",
		fmt.Sprintf("Save your edits to the AI explanation for %s?", r.PatientName),
		ColorPrimary)
	m.showConfirm = true
	return nil
}

// executeConfirmed runs the action a closed gate was guarding: optimistic
// local merge first, then the remote patch in the background.
func (m *Dashboard) executeConfirmed(action pendingAction) tea.Cmd {
	switch action {
	case actionApprove:
		return m.executeApprove()
	case actionSave:
		return m.executeSave()
	}
	return nil
}

func (m *Dashboard) executeApprove() tea.Cmd {
	if m.selectedID == "" {
		return nil
	}
	p := inbox.StatusPatch(model.StatusVerified, "")
	if _, ok := m.repo.ApplyLocal(m.selectedID, p); !ok {
		return nil
	}
	m.recordAction(m.selectedID, audit.OutcomeApproved, "")
	return tea.Batch(
		m.toast.Show("Report approved successfully", ToastSuccess),
		m.patchCmd(m.selectedID, p),
	)
}

func (m *Dashboard) executeReject(id, reason string) tea.Cmd {
	p := inbox.StatusPatch(model.StatusRejected, reason)
	if _, ok := m.repo.ApplyLocal(id, p); !ok {
		return nil
	}
	m.recordAction(id, audit.OutcomeRejected, reason)
	return tea.Batch(
		m.toast.Show("Report rejected", ToastError),
		m.patchCmd(id, p),
	)
}

func (m *Dashboard) executeSave() tea.Cmd {
	if m.selectedID == "" {
		return nil
	}
	text := m.editArea.Value()
	p := inbox.ExplanationPatch(text)
	if _, ok := m.repo.ApplyLocal(m.selectedID, p); !ok {
		return nil
	}
	m.recordAction(m.selectedID, audit.OutcomeEdited, "")
	return tea.Batch(
		m.toast.Show("Changes saved successfully", ToastSuccess),
		m.patchCmd(m.selectedID, p),
	)
}

func (m *Dashboard) recordAction(reportID, outcome, notes string) {
	if m.auditor == nil {
		return
	}
	if err := m.auditor.Record(reportID, outcome, m.reviewer, notes); err != nil {
		// The store already has the change; a broken audit trail must not
		// block review work.
		log.Printf("Warning: failed to record review action: %v", err)
	}
}

// copySummary puts a plain-text summary of the selected report on the
// system clipboard.
func (m *Dashboard) copySummary() tea.Cmd {
	r := m.SelectedReport()
	if r == nil {
		return nil
	}
	summary := fmt.Sprintf("%s (%s) · Age %s · %s · %s · %d%% AI confidence · %s",
		r.PatientName, r.PatientID, r.Age, r.MedicalCondition,
		r.Status.Label(), r.AIConfidence, FormatTimestamp(r.Timestamp))
	if err := clipboard.WriteAll(summary); err != nil {
		return m.toast.Show("Failed to copy to clipboard", ToastError)
	}
	return m.toast.Show("Report summary copied", ToastInfo)
}

// chatContext names the report under review for the assistant.
func (m *Dashboard) chatContext() string {
	r := m.SelectedReport()
	if r == nil {
		return "doctor review console"
	}
	return fmt.Sprintf("report %s for %s (%s)", r.ID, r.PatientName, r.MedicalCondition)
}

// moveCursorTo places the list cursor on the given report if it is visible
// under the current filters.
func (m *Dashboard) moveCursorTo(id string) {
	for i, r := range m.FilteredReports() {
		if r.ID == id {
			m.cursor = i
			m.ensureVisible()
			return
		}
	}
}

// shutdown stops polling, completes the audit sitting and quits.
func (m *Dashboard) shutdown() tea.Cmd {
	m.quitting = true
	if m.sess != nil {
		m.sess.Stop()
	}
	if m.auditor != nil {
		m.auditor.Complete()
	}
	return tea.Quit
}

// ensureVisible adjusts scroll to keep the cursor visible.
func (m *Dashboard) ensureVisible() {
	visibleHeight := m.listHeight()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	} else if m.cursor >= m.scroll+visibleHeight {
		m.scroll = m.cursor - visibleHeight + 1
	}

	if m.scroll < 0 {
		m.scroll = 0
	}
	maxScroll := len(m.FilteredReports()) - visibleHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
}

func (m *Dashboard) listHeight() int {
	// Header, stats row, separator, optional search bar, footer.
	h := m.height - 7
	if m.showSearch {
		h--
	}
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Dashboard) resizeEditArea() {
	w := m.width/2 - 6
	if w < 30 {
		w = 30
	}
	if w > 80 {
		w = 80
	}
	m.editArea.SetWidth(w)
}

// sessionDuration is used by the summary screen.
func (m *Dashboard) sessionDuration() time.Duration {
	if m.auditor == nil || m.auditor.CurrentSitting() == nil {
		return 0
	}
	return time.Since(m.auditor.CurrentSitting().StartedAt).Round(time.Second)
}
