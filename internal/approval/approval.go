// Package approval implements the Draft/Approved lifecycle for submissions.
// Transitions are pure: they mutate the passed submission and leave storage
// to the caller.
package approval

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hscrcportal/api/internal/survey"
)

var (
	// ErrAlreadyApproved rejects a second approval of an approved record.
	ErrAlreadyApproved = errors.New("submission is already approved")
	// ErrNotApproved rejects unapproving a draft.
	ErrNotApproved = errors.New("submission is not approved")
)

// EmailMismatchError denies an unapprove whose verification email does not
// match the submission's contact email.
type EmailMismatchError struct {
	Hospital string
}

func (e *EmailMismatchError) Error() string {
	return fmt.Sprintf("verification email does not match the contact on file for %s", e.Hospital)
}

// Approve moves a draft submission to Approved, stamping who approved it and
// when. Approving an already approved record is a conflict, not a no-op, so
// the second reviewer learns someone beat them to it.
func Approve(sub *survey.Submission, actor string, now time.Time) error {
	if sub.Approved {
		return ErrAlreadyApproved
	}
	sub.Approved = true
	sub.ApprovedBy = strings.TrimSpace(actor)
	sub.ApprovedAt = now
	return nil
}

// Unapprove returns an approved submission to draft. The caller must present
// the contact email on file; comparison ignores case and surrounding
// whitespace.
func Unapprove(sub *survey.Submission, verifierEmail string) error {
	if !sub.Approved {
		return ErrNotApproved
	}
	if !emailsMatch(sub.Contact.Email, verifierEmail) {
		return &EmailMismatchError{Hospital: sub.Hospital}
	}
	sub.Approved = false
	sub.ApprovedBy = ""
	sub.ApprovedAt = time.Time{}
	return nil
}

func emailsMatch(onFile, presented string) bool {
	onFile = strings.ToLower(strings.TrimSpace(onFile))
	presented = strings.ToLower(strings.TrimSpace(presented))
	return onFile != "" && onFile == presented
}
