package forms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glyengineering/glyweb/internal/clock"
	"github.com/glyengineering/glyweb/internal/notifications"
)

func filledContact() ContactForm {
	return ContactForm{
		Name:       "Jane Roe",
		Email:      "jane@example.com",
		Department: "projects",
		Subject:    "Refinery upgrade",
		Message:    "We would like a proposal.",
	}
}

func newTestSimulator[F Form[F]](t *testing.T, initial F) (*Simulator[F], *clock.Fake, *notifications.Recorder, *[]Event) {
	t.Helper()
	fc := clock.NewFake(time.Unix(0, 0))
	rec := &notifications.Recorder{}
	var events []Event
	s := NewSimulator(initial, Options{
		Clock:    fc,
		Notifier: rec,
		OnChange: func(ev Event) { events = append(events, ev) },
	})
	t.Cleanup(s.Close)
	return s, fc, rec, &events
}

func TestSubmitCompletesAfterDelay(t *testing.T) {
	s, fc, rec, events := newTestSimulator(t, filledContact())

	p, err := s.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !s.Submitting() {
		t.Fatal("expected submitting flag")
	}

	fc.Advance(DefaultSubmitDelay - time.Millisecond)
	if !s.Submitting() || rec.Count(notifications.KindSuccess) != 0 {
		t.Fatal("completed before the delay elapsed")
	}

	fc.Advance(time.Millisecond)
	if s.Submitting() {
		t.Error("submitting flag not cleared")
	}
	if s.State() != (ContactForm{}) {
		t.Errorf("state = %+v, want empty", s.State())
	}
	if err := p.Wait(context.Background()); err != nil {
		t.Errorf("Wait: %v", err)
	}

	all := rec.All()
	if len(all) != 1 {
		t.Fatalf("notifications = %d, want exactly 1", len(all))
	}
	if all[0].Message != "Message sent!" || all[0].Description != "We will respond as soon as possible." {
		t.Errorf("toast = %+v", all[0])
	}

	last := (*events)[len(*events)-1]
	if !last.Completed || last.Submitting {
		t.Errorf("last event = %+v", last)
	}
}

func TestDoubleSubmitNotifiesOnce(t *testing.T) {
	s, fc, rec, _ := newTestSimulator(t, filledContact())

	if _, err := s.Submit(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Submit(); !errors.Is(err, ErrSubmitting) {
		t.Fatalf("second Submit = %v, want ErrSubmitting", err)
	}

	fc.Advance(time.Minute)
	if n := rec.Count(notifications.KindSuccess); n != 1 {
		t.Errorf("success toasts = %d, want 1", n)
	}
}

func TestValidationBlocksSubmit(t *testing.T) {
	tests := []struct {
		name   string
		form   ContactForm
		fields []string
	}{
		{"empty", ContactForm{}, []string{"name", "email", "subject", "message"}},
		{"bad email", func() ContactForm { f := filledContact(); f.Email = "not-an-email"; return f }(), []string{"email"}},
		{"display name email", func() ContactForm { f := filledContact(); f.Email = "Jane <jane@example.com>"; return f }(), []string{"email"}},
		{"whitespace only", func() ContactForm { f := filledContact(); f.Subject = "   "; return f }(), []string{"subject"}},
		{"unknown department", func() ContactForm { f := filledContact(); f.Department = "sales"; return f }(), []string{"department"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, fc, rec, _ := newTestSimulator(t, tt.form)

			_, err := s.Submit()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Submit = %v, want *ValidationError", err)
			}
			for _, f := range tt.fields {
				if _, ok := verr.Fields[f]; !ok {
					t.Errorf("missing error for %q in %v", f, verr.Fields)
				}
			}
			if len(verr.Fields) != len(tt.fields) {
				t.Errorf("fields = %v, want %v", verr.Fields, tt.fields)
			}
			if s.Submitting() || fc.Pending() != 0 {
				t.Error("invalid form must not start a submission")
			}
			if s.State() != tt.form {
				t.Error("invalid submit changed the state")
			}
			fc.Advance(time.Minute)
			if len(rec.All()) != 0 {
				t.Error("invalid submit produced a toast")
			}
		})
	}
}

func TestCloseAbandonsPending(t *testing.T) {
	s, fc, rec, _ := newTestSimulator(t, filledContact())

	p, err := s.Submit()
	if err != nil {
		t.Fatal(err)
	}
	fc.Advance(500 * time.Millisecond)
	s.Close()

	if fc.Pending() != 0 {
		t.Errorf("timers after Close = %d", fc.Pending())
	}
	fc.Advance(time.Minute)
	if len(rec.All()) != 0 {
		t.Error("closed form still notified")
	}
	if err := p.Wait(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Wait = %v, want ErrClosed", err)
	}
	if _, err := s.Submit(); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit after Close = %v", err)
	}
	if err := s.SetField("name", "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("SetField after Close = %v", err)
	}
}

func TestSetFieldAndReset(t *testing.T) {
	s, _, _, events := newTestSimulator(t, ContactForm{})

	if err := s.SetField("name", "Jane"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetField("nickname", "J"); err == nil {
		t.Error("expected error for unknown field")
	}
	if s.State().Name != "Jane" {
		t.Errorf("Name = %q", s.State().Name)
	}
	if (*events)[0].Values["name"] != "Jane" {
		t.Errorf("event values = %v", (*events)[0].Values)
	}

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if s.State() != (ContactForm{}) {
		t.Errorf("state after Reset = %+v", s.State())
	}
}

func TestResetRefusedWhileSubmitting(t *testing.T) {
	s, fc, rec, _ := newTestSimulator(t, filledContact())
	s.Submit()

	if err := s.Reset(); !errors.Is(err, ErrSubmitting) {
		t.Errorf("Reset = %v, want ErrSubmitting", err)
	}
	fc.Advance(DefaultSubmitDelay)
	if rec.Count(notifications.KindSuccess) != 1 {
		t.Error("submission should still complete")
	}
}

func TestApplicationForm(t *testing.T) {
	f := NewApplicationForm("Welder")
	f.FullName = "Sam Doe"
	f.Email = "sam@example.com"

	s, fc, rec, _ := newTestSimulator(t, f)
	if _, err := s.Submit(); err != nil {
		t.Fatal(err)
	}
	fc.Advance(DefaultSubmitDelay)

	all := rec.All()
	if len(all) != 1 || all[0].Message != "Application submitted!" ||
		all[0].Description != "We will respond within 48 working hours." {
		t.Errorf("toast = %+v", all)
	}
	if s.State() != (ApplicationForm{}) {
		t.Errorf("state = %+v", s.State())
	}
}

func TestApplicationRequiresRole(t *testing.T) {
	f := ApplicationForm{FullName: "Sam", Email: "sam@example.com"}
	var verr *ValidationError
	if err := f.Validate(); !errors.As(err, &verr) || verr.Fields["roleOfInterest"] == "" {
		t.Errorf("Validate = %v", err)
	}
}

func TestRecruitmentForm(t *testing.T) {
	f := NewRecruitmentForm("Surveyor")
	if f.Department != RecruitmentDepartment {
		t.Fatalf("Department = %q", f.Department)
	}

	f = Apply(f, map[string]string{
		"name":       "Alex",
		"email":      "alex@example.com",
		"subject":    "Application status",
		"message":    "Checking in.",
		"department": "media",
	})
	if f.Department != RecruitmentDepartment {
		t.Errorf("department overridden to %q", f.Department)
	}

	s, fc, rec, _ := newTestSimulator(t, f)
	if _, err := s.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	fc.Advance(DefaultSubmitDelay)

	all := rec.All()
	if len(all) != 1 || all[0].Message != "Message sent to Recruitment Team!" {
		t.Errorf("toast = %+v", all)
	}
	if got := s.State(); got != NewRecruitmentForm("") {
		t.Errorf("state after submit = %+v", got)
	}
}

func TestApplyIgnoresUnknownKeys(t *testing.T) {
	f := Apply(ContactForm{}, map[string]string{"name": "A", "csrf": "zzz"})
	if f.Name != "A" {
		t.Errorf("Name = %q", f.Name)
	}
}

func TestSuccessFor(t *testing.T) {
	for _, k := range []Kind{KindContact, KindApplication, KindRecruitment} {
		if SuccessFor(k).Message == "" {
			t.Errorf("no success message for %s", k)
		}
	}
}
