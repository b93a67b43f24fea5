package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/glyengineering/glyweb/internal/components"
	"github.com/glyengineering/glyweb/internal/forms"
)

// formRoute ties a form to the page it lives on.
type formRoute struct {
	kind   forms.Kind
	action string
	page   string
	submit string
	// query reopens the dialog holding the form.
	query url.Values
}

var (
	formContact     = formRoute{forms.KindContact, "/contact", "/contact", "Send Message", nil}
	formApplication = formRoute{forms.KindApplication, "/careers/apply", "/careers", "Submit Application", url.Values{"apply": {"1"}}}
	formRecruitment = formRoute{forms.KindRecruitment, "/careers/recruitment", "/careers", "Send Message", url.Values{"recruit": {"1"}}}
)

// view renders the form with values and field errors applied.
func (fr formRoute) view(values, errs map[string]string) components.FormView {
	var v components.FormView
	switch fr.kind {
	case forms.KindApplication:
		v = components.NewFormView(forms.Apply(forms.NewApplicationForm(""), values), fr.action, fr.submit)
	case forms.KindRecruitment:
		v = components.NewFormView(forms.Apply(forms.NewRecruitmentForm(""), values), fr.action, fr.submit)
	default:
		v = components.NewFormView(forms.Apply(forms.ContactForm{}, values), fr.action, fr.submit)
	}
	if fr.page != fr.action {
		v.Cancel = fr.page
	}
	v.Errors = errs
	return v
}

// handleSubmit runs a posted form through a simulator and redirects back
// once the success toast has been flashed.
func (h *Handler) handleSubmit(fr formRoute) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.limiter.allow(clientIP(r)) {
			http.Error(w, "too many submissions, please wait a moment", http.StatusTooManyRequests)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form body", http.StatusBadRequest)
			return
		}
		values := make(map[string]string, len(r.PostForm))
		for name := range r.PostForm {
			values[name] = r.PostForm.Get(name)
		}

		// A post without script gets a session of its own for the length of
		// the simulated delay; its toast is flashed to the next page render.
		s, err := h.sessions.Create(fr.page)
		if err != nil {
			h.logger.Warn("submit refused", zap.String("form", string(fr.kind)), zap.Error(err))
			http.Error(w, "server busy, please try again", http.StatusServiceUnavailable)
			return
		}
		defer h.sessions.Remove(s.ID())

		pending, err := s.SubmitForm(fr.kind, values)
		var verr *forms.ValidationError
		switch {
		case errors.As(err, &verr):
			fv := fr.view(values, verr.Fields)
			h.render(w, r, fr.page, h.views[fr.page], pageData{query: fr.query, form: &fv}, http.StatusUnprocessableEntity)
			return
		case err != nil:
			h.logger.Error("submit failed", zap.String("form", string(fr.kind)), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := pending.Wait(r.Context()); err != nil {
			h.logger.Debug("submission abandoned", zap.String("form", string(fr.kind)), zap.Error(err))
			if r.Context().Err() != nil {
				return
			}
		}
		h.sessions.Flash(w, r, s.Notifications().Drain())
		http.Redirect(w, r, fr.page, http.StatusSeeOther)
	}
}
