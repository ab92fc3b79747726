package approval

import (
	"errors"
	"testing"
	"time"

	"hscrcportal/api/internal/survey"
)

var approveTime = time.Date(2025, 6, 11, 9, 0, 0, 0, time.Local)

func draft() survey.Submission {
	return survey.Submission{
		Hospital: "General Hospital",
		Contact:  survey.Contact{Name: "Ann Lee", Email: "Ann.Lee@Example.org"},
	}
}

func TestApproveStampsActorAndTime(t *testing.T) {
	sub := draft()
	if err := Approve(&sub, "Jane Reviewer", approveTime); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if !sub.Approved || sub.ApprovedBy != "Jane Reviewer" || !sub.ApprovedAt.Equal(approveTime) {
		t.Errorf("approval state wrong: %+v", sub)
	}
}

func TestSecondApproveConflicts(t *testing.T) {
	sub := draft()
	if err := Approve(&sub, "Jane Reviewer", approveTime); err != nil {
		t.Fatal(err)
	}
	err := Approve(&sub, "Second Reviewer", approveTime.Add(time.Minute))
	if !errors.Is(err, ErrAlreadyApproved) {
		t.Fatalf("expected ErrAlreadyApproved, got %v", err)
	}
	if sub.ApprovedBy != "Jane Reviewer" {
		t.Errorf("first approval must stand: %+v", sub)
	}
}

func TestUnapproveRequiresMatchingEmail(t *testing.T) {
	sub := draft()
	if err := Approve(&sub, "Jane Reviewer", approveTime); err != nil {
		t.Fatal(err)
	}

	var mismatch *EmailMismatchError
	err := Unapprove(&sub, "intruder@example.org")
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected EmailMismatchError, got %v", err)
	}
	if !sub.Approved {
		t.Error("denied unapprove must not change state")
	}

	// Case and whitespace differences are tolerated.
	if err := Unapprove(&sub, "  ann.lee@EXAMPLE.ORG "); err != nil {
		t.Fatalf("Unapprove failed: %v", err)
	}
	if sub.Approved || sub.ApprovedBy != "" || !sub.ApprovedAt.IsZero() {
		t.Errorf("unapprove must clear the approval: %+v", sub)
	}
}

func TestUnapproveDraftRejected(t *testing.T) {
	sub := draft()
	if err := Unapprove(&sub, "ann.lee@example.org"); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("expected ErrNotApproved, got %v", err)
	}
}

func TestUnapproveEmptyEmailOnFileNeverMatches(t *testing.T) {
	sub := draft()
	sub.Contact.Email = ""
	if err := Approve(&sub, "Jane Reviewer", approveTime); err != nil {
		t.Fatal(err)
	}
	var mismatch *EmailMismatchError
	if err := Unapprove(&sub, ""); !errors.As(err, &mismatch) {
		t.Fatalf("expected EmailMismatchError for empty emails, got %v", err)
	}
}
