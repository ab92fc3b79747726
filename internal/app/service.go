package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"hscrcportal/api/internal/approval"
	"hscrcportal/api/internal/auth"
	"hscrcportal/api/internal/catalog"
	"hscrcportal/api/internal/config"
	"hscrcportal/api/internal/dashboard"
	"hscrcportal/api/internal/email"
	"hscrcportal/api/internal/export"
	"hscrcportal/api/internal/form"
	"hscrcportal/api/internal/rbac"
	"hscrcportal/api/internal/search"
	"hscrcportal/api/internal/session"
	"hscrcportal/api/internal/sheet"
	"hscrcportal/api/internal/survey"
)

type Session struct {
	Token     string
	Actor     string
	Role      string
	JTI       string
	ExpiresAt time.Time
}

type rowStore interface {
	LoadAll(ctx context.Context) ([]sheet.Record, error)
	Upsert(ctx context.Context, key string, rec sheet.Record) error
}

type sessionStore interface {
	Save(ctx context.Context, tokenHash string, data session.Data) error
	Lookup(ctx context.Context, tokenHash string) (session.Data, error)
	Revoke(ctx context.Context, tokenHash string) error
}

type reporter interface {
	SubmissionReport(sub survey.Submission) (*export.Result, error)
}

// Archiver stores approved report PDFs in long-term object storage.
type Archiver interface {
	StoreApprovedReport(ctx context.Context, hospital string, approvedAt time.Time, pdf []byte) (string, error)
}

type Service struct {
	cfg      config.Config
	creds    Credentials
	store    rowStore
	sessions sessionStore
	email    *email.Service
	export   reporter
	search   *search.Service
	archive  Archiver
}

func New(cfg config.Config, creds Credentials, store rowStore, sessions sessionStore, emailService *email.Service, exportService reporter, searchService *search.Service, archiveService Archiver) *Service {
	return &Service{
		cfg:      cfg,
		creds:    creds,
		store:    store,
		sessions: sessions,
		email:    emailService,
		export:   exportService,
		search:   searchService,
		archive:  archiveService,
	}
}

// Ping reports row-store health for the readiness probe. Backends without a
// health check (CSV, memory) are always ready.
func (s *Service) Ping(ctx context.Context) error {
	if pinger, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

func (s *Service) Can(role string, action rbac.Action) bool {
	return rbac.Can(rbac.Normalize(role), action)
}

// Hospitals returns the tenant roster for the login drop-down.
func (s *Service) Hospitals() []string {
	return s.creds.HospitalNames()
}

var errBadCredentials = domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials", nil)

// LoginTenant authenticates a hospital against the allow-list with the
// shared per-tenant secret.
func (s *Service) LoginTenant(ctx context.Context, hospital, secret string) (Session, error) {
	canonical, onFile, ok := s.creds.findHospital(hospital)
	if !ok || !verifySecret(onFile, secret) {
		return Session{}, errBadCredentials
	}
	return s.issueSession(ctx, canonical, string(rbac.RoleTenant))
}

// LoginStaff authenticates an HSCRC reviewer by username and password.
func (s *Service) LoginStaff(ctx context.Context, username, password string) (Session, error) {
	user := strings.TrimSpace(username)
	onFile, ok := s.creds.Staff[user]
	if !ok || !verifySecret(onFile, password) {
		return Session{}, errBadCredentials
	}
	return s.issueSession(ctx, user, string(rbac.RoleStaff))
}

func (s *Service) issueSession(ctx context.Context, actor, role string) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.SessionTTL)
	jti := auth.NewID("jti")

	token, err := auth.IssueToken([]byte(s.cfg.SessionSecret), auth.Claims{
		Sub:  actor,
		Role: role,
		JTI:  jti,
		Exp:  expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}

	if err := s.sessions.Save(ctx, auth.HashToken(token), session.Data{Actor: actor, Role: role}); err != nil {
		return Session{}, err
	}

	return Session{
		Token:     token,
		Actor:     actor,
		Role:      role,
		JTI:       jti,
		ExpiresAt: expiresAt,
	}, nil
}

// SessionFromToken verifies the token signature and then requires the
// session to still be live in the store, so logout revokes immediately.
func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.SessionSecret), token)
	if err != nil {
		return Session{}, err
	}
	data, err := s.sessions.Lookup(ctx, auth.HashToken(token))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return Session{}, auth.ErrInvalidToken
		}
		return Session{}, err
	}
	return Session{
		Token:     token,
		Actor:     data.Actor,
		Role:      data.Role,
		JTI:       claims.JTI,
		ExpiresAt: time.Unix(claims.Exp, 0),
	}, nil
}

func (s *Service) Logout(ctx context.Context, sess Session) error {
	return s.sessions.Revoke(ctx, auth.HashToken(sess.Token))
}

// GetSubmission returns the named hospital's submission, or exists:false
// when it has not filed one yet.
func (s *Service) GetSubmission(ctx context.Context, hospital string) (map[string]any, error) {
	sub, found, err := s.findSubmission(ctx, hospital)
	if err != nil {
		return nil, err
	}
	if !found {
		return map[string]any{"exists": false}, nil
	}
	return map[string]any{"exists": true, "submission": submissionView(sub)}, nil
}

// FormRequest asks for the rendered question set of one practice/tier slot.
// Values carries the in-progress form state so dependent sub-fields follow
// the user's selections; the stored row fills anything Values omits.
type FormRequest struct {
	Practice string            `json:"practice"`
	Tier     int               `json:"tier"`
	Slot     string            `json:"slot"`
	Values   map[string]string `json:"values"`
}

func (s *Service) RenderForm(ctx context.Context, hospital string, req FormRequest) (map[string]any, error) {
	slot, err := parseSlot(req.Slot)
	if err != nil {
		return nil, err
	}
	f, err := form.New(catalog.Code(req.Practice), req.Tier, slot)
	if err != nil {
		return nil, validationError(err)
	}

	existing := map[string]string{}
	sub, found, err := s.findSubmission(ctx, hospital)
	if err != nil {
		// A blank form during an outage would look like a missing record to
		// an editing tenant; fail loudly instead.
		return nil, err
	}
	if found {
		if sel := sub.Slot(slot); sel != nil && sel.Code == catalog.Code(req.Practice) {
			for column, value := range sel.Answers {
				existing[column] = value
			}
		}
	}
	for column, value := range req.Values {
		existing[column] = value
	}

	practice, _ := catalog.Lookup(catalog.Code(req.Practice))
	tierInfo := practice.Tiers[req.Tier]

	return map[string]any{
		"practice": req.Practice,
		"name":     catalog.DisplayName(catalog.Code(req.Practice)),
		"tier":     req.Tier,
		"tierInfo": map[string]any{
			"title":       tierInfo.Title,
			"description": tierInfo.Description,
		},
		"fields": fieldViews(f.Render(existing)),
	}, nil
}

// SlotInput is one chosen practice with the raw form values for its slot.
type SlotInput struct {
	Practice string            `json:"practice"`
	Tier     int               `json:"tier"`
	Values   map[string]string `json:"values"`
}

type SubmitRequest struct {
	Contact survey.Contact `json:"contact"`
	First   SlotInput      `json:"first"`
	Second  SlotInput      `json:"second"`
}

// Submit validates both slots, upserts the hospital's row and sends the
// confirmation email. Validation reports every problem at once; email
// failures only flip emailSent, they never fail the submission.
func (s *Service) Submit(ctx context.Context, hospital string, req SubmitRequest) (map[string]any, error) {
	var details []map[string]any
	if strings.TrimSpace(req.Contact.Name) == "" {
		details = append(details, map[string]any{"field": "contact_name", "reason": "required"})
	}
	if strings.TrimSpace(req.Contact.Email) == "" {
		details = append(details, map[string]any{"field": "email", "reason": "required"})
	}

	first, err := collectSlot(form.SlotFirst, req.First)
	if err != nil {
		details = append(details, validationDetails(err)...)
	}
	second, err := collectSlot(form.SlotSecond, req.Second)
	if err != nil {
		details = append(details, validationDetails(err)...)
	}
	if len(details) > 0 {
		return nil, domainError(http.StatusBadRequest, "VALIDATION_FAILED", "Submission has missing or invalid fields", details)
	}

	sub := survey.Assemble(hospital, req.Contact, first, second, time.Now())
	if err := s.store.Upsert(ctx, sub.Hospital, survey.ToRow(sub)); err != nil {
		return nil, err
	}
	if s.search != nil {
		s.search.IndexSubmission(sub)
	}

	emailSent := false
	if s.email.IsConfigured() {
		if err := s.email.SendSubmissionEmail(sub.Contact.Email, sub); err != nil {
			log.Printf(`{"level":"warn","msg":"submission email failed","hospital":%q,"error":%q}`, sub.Hospital, err.Error())
		} else {
			emailSent = true
		}
	}

	return map[string]any{
		"submission": submissionView(sub),
		"emailSent":  emailSent,
	}, nil
}

// Report renders the hospital's submission as a PDF.
func (s *Service) Report(ctx context.Context, hospital string) (*export.Result, error) {
	sub, found, err := s.findSubmission(ctx, hospital)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "No submission on file", nil)
	}
	return s.export.SubmissionReport(sub)
}

// ListSubmissions returns every filed submission for the staff review list.
func (s *Service) ListSubmissions(ctx context.Context) ([]map[string]any, error) {
	subs, err := s.loadSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]map[string]any, 0, len(subs))
	for _, sub := range subs {
		views = append(views, submissionView(sub))
	}
	return views, nil
}

func (s *Service) Dashboard(ctx context.Context, filter dashboard.Filter) (dashboard.Summary, error) {
	subs, err := s.loadSubmissions(ctx)
	if err != nil {
		return dashboard.Summary{}, err
	}
	return dashboard.Summarize(subs, len(s.creds.Hospitals), filter), nil
}

func (s *Service) Search(query search.Query) (search.Response, error) {
	if s.search == nil {
		return search.Response{}, domainError(http.StatusServiceUnavailable, "SEARCH_UNAVAILABLE", "Search is not configured", nil)
	}
	return s.search.Search(query), nil
}

// Approve transitions the hospital's submission from draft to approved,
// stamped with the reviewing staff member. The archive upload and the
// notification email are best-effort.
func (s *Service) Approve(ctx context.Context, sess Session, hospital string) (map[string]any, error) {
	sub, found, err := s.findSubmission(ctx, hospital)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "No submission on file", nil)
	}

	if err := approval.Approve(&sub, sess.Actor, time.Now()); err != nil {
		return nil, err
	}
	if err := s.store.Upsert(ctx, sub.Hospital, survey.ToRow(sub)); err != nil {
		return nil, err
	}
	if s.search != nil {
		s.search.IndexSubmission(sub)
	}

	s.archiveApproved(ctx, sub)

	emailSent := false
	if s.email.IsConfigured() && sub.Contact.Email != "" {
		if err := s.email.SendApprovalEmail(sub.Contact.Email, sub); err != nil {
			log.Printf(`{"level":"warn","msg":"approval email failed","hospital":%q,"error":%q}`, sub.Hospital, err.Error())
		} else {
			emailSent = true
		}
	}

	return map[string]any{
		"submission": submissionView(sub),
		"emailSent":  emailSent,
	}, nil
}

// Unapprove reverts an approved submission to draft. The caller must present
// the contact email on file; the check is the only gate, matching the
// portal's email-verified unapprove flow.
func (s *Service) Unapprove(ctx context.Context, hospital, verifierEmail string) (map[string]any, error) {
	sub, found, err := s.findSubmission(ctx, hospital)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "No submission on file", nil)
	}

	if err := approval.Unapprove(&sub, verifierEmail); err != nil {
		return nil, err
	}
	if err := s.store.Upsert(ctx, sub.Hospital, survey.ToRow(sub)); err != nil {
		return nil, err
	}
	if s.search != nil {
		s.search.IndexSubmission(sub)
	}

	return map[string]any{"submission": submissionView(sub)}, nil
}

func (s *Service) archiveApproved(ctx context.Context, sub survey.Submission) {
	if s.archive == nil {
		return
	}
	result, err := s.export.SubmissionReport(sub)
	if err != nil {
		log.Printf(`{"level":"warn","msg":"approved report render failed","hospital":%q,"error":%q}`, sub.Hospital, err.Error())
		return
	}
	object, err := s.archive.StoreApprovedReport(ctx, sub.Hospital, sub.ApprovedAt, result.Data)
	if err != nil {
		log.Printf(`{"level":"warn","msg":"approved report archive failed","hospital":%q,"error":%q}`, sub.Hospital, err.Error())
		return
	}
	log.Printf(`{"level":"info","msg":"approved report archived","hospital":%q,"object":%q}`, sub.Hospital, object)
}

func (s *Service) loadSubmissions(ctx context.Context) ([]survey.Submission, error) {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	subs := make([]survey.Submission, 0, len(records))
	for _, rec := range records {
		subs = append(subs, survey.FromRow(rec))
	}
	return subs, nil
}

func (s *Service) findSubmission(ctx context.Context, hospital string) (survey.Submission, bool, error) {
	subs, err := s.loadSubmissions(ctx)
	if err != nil {
		return survey.Submission{}, false, err
	}
	for _, sub := range subs {
		if strings.EqualFold(sub.Hospital, hospital) {
			return sub, true, nil
		}
	}
	return survey.Submission{}, false, nil
}

// ReindexAll pushes every stored submission into the search index. Called at
// startup so a fresh Meilisearch instance catches up with the row store.
func (s *Service) ReindexAll(ctx context.Context) {
	if s.search == nil {
		return
	}
	subs, err := s.loadSubmissions(ctx)
	if err != nil {
		log.Printf(`{"level":"warn","msg":"search reindex skipped","error":%q}`, err.Error())
		return
	}
	s.search.ReindexAll(subs)
}

func collectSlot(slot form.Slot, in SlotInput) (*survey.Selection, error) {
	if strings.TrimSpace(in.Practice) == "" {
		return nil, nil
	}
	f, err := form.New(catalog.Code(in.Practice), in.Tier, slot)
	if err != nil {
		return nil, err
	}
	answers, err := f.Collect(in.Values)
	if err != nil {
		return nil, err
	}
	return &survey.Selection{Code: catalog.Code(in.Practice), Tier: in.Tier, Answers: answers}, nil
}

func parseSlot(value string) (form.Slot, error) {
	switch form.Slot(value) {
	case form.SlotFirst, form.SlotSecond:
		return form.Slot(value), nil
	case "":
		return form.SlotFirst, nil
	default:
		return "", domainError(http.StatusBadRequest, "INVALID_SLOT", fmt.Sprintf("unknown slot %q", value), nil)
	}
}

func validationError(err error) error {
	details := validationDetails(err)
	if len(details) == 0 {
		return err
	}
	return domainError(http.StatusBadRequest, "VALIDATION_FAILED", "Submission has missing or invalid fields", details)
}

// validationDetails flattens the form engine's error types into wire detail
// entries so the client can surface every correction at once.
func validationDetails(err error) []map[string]any {
	var details []map[string]any

	var unknown *form.UnknownPracticeError
	if errors.As(err, &unknown) {
		details = append(details, map[string]any{
			"reason": "unknown_practice",
			"code":   string(unknown.Code),
		})
	}

	var incomplete *form.IncompleteSelectionError
	if errors.As(err, &incomplete) {
		details = append(details, map[string]any{
			"reason": "selection_count",
			"field":  incomplete.Key.Column(),
			"want":   incomplete.Want,
			"got":    incomplete.Got,
		})
	}

	var missing *form.MissingRequiredError
	if errors.As(err, &missing) {
		for _, field := range missing.Fields {
			details = append(details, map[string]any{
				"reason": "required",
				"field":  field.Key.Column(),
				"label":  field.Label,
			})
		}
	}

	if details == nil {
		details = append(details, map[string]any{"reason": "invalid", "error": err.Error()})
	}
	return details
}

func fieldViews(specs []form.FieldSpec) []map[string]any {
	views := make([]map[string]any, 0, len(specs))
	for _, spec := range specs {
		view := map[string]any{
			"key":      spec.Key.Column(),
			"label":    spec.Label,
			"kind":     fieldKindName(spec.Kind),
			"required": spec.Required,
		}
		if len(spec.Options) > 0 {
			view["options"] = spec.Options
		}
		if spec.Initial != "" {
			view["initial"] = spec.Initial
		}
		if spec.Transient {
			view["transient"] = true
		}
		views = append(views, view)
	}
	return views
}

func fieldKindName(kind catalog.FieldKind) string {
	switch kind {
	case catalog.TextArea:
		return "textarea"
	case catalog.Checkbox:
		return "checkbox"
	case catalog.CheckboxGroup:
		return "checkbox_group"
	default:
		return "text"
	}
}

func submissionView(sub survey.Submission) map[string]any {
	view := map[string]any{
		"hospital":  sub.Hospital,
		"timestamp": sub.Timestamp.Format(survey.TimeLayout),
		"contact": map[string]any{
			"name":  sub.Contact.Name,
			"email": sub.Contact.Email,
			"phone": sub.Contact.Phone,
		},
		"first":    selectionView(sub.First),
		"second":   selectionView(sub.Second),
		"approved": sub.Approved,
	}
	if sub.Approved {
		view["approvedBy"] = sub.ApprovedBy
		view["approvedAt"] = sub.ApprovedAt.Format(survey.TimeLayout)
	}
	return view
}

func selectionView(sel *survey.Selection) map[string]any {
	if sel == nil {
		return nil
	}
	return map[string]any{
		"practice": string(sel.Code),
		"name":     catalog.DisplayName(sel.Code),
		"tier":     sel.Tier,
		"answers":  sel.Answers,
	}
}
