package handlers

import (
	"errors"
	"net/http"
	"strconv"

	g "maragu.dev/gomponents"

	"github.com/glyengineering/glyweb/internal/components"
	"github.com/glyengineering/glyweb/internal/content"
	"github.com/glyengineering/glyweb/internal/forms"
	"github.com/glyengineering/glyweb/internal/listing"
	"github.com/glyengineering/glyweb/internal/typing"
)

func (h *Handler) homeView(d pageData) (string, g.Node, int) {
	var frame typing.Frame
	if d.session != nil {
		frame, _ = d.session.Typing()
	}
	if frame.Text == "" {
		// Without a running cycler show the first phrase in full.
		if phrases := h.content.Phrases(); len(phrases) > 0 {
			frame = typing.Frame{Text: phrases[0], Phase: typing.Pausing, Target: phrases[0]}
		}
	}
	return "", components.HomePage(h.content, frame), 0
}

func (h *Handler) aboutView(pageData) (string, g.Node, int) {
	return "About Us", components.AboutPage(h.content), 0
}

func (h *Handler) servicesView(pageData) (string, g.Node, int) {
	return "Services", components.ServicesPage(h.content), 0
}

func (h *Handler) projectsView(d pageData) (string, g.Node, int) {
	f := listing.ProjectFilter{
		Industry: d.query.Get("industry"),
		Service:  d.query.Get("service"),
	}.Normalized()

	v := components.ProjectsView{Filter: f}
	if d.session != nil {
		v.Projects = d.session.FilterProjects(f)
	} else {
		v.Projects = listing.FilterProjects(h.content.Projects(), f)
	}
	if id, err := strconv.Atoi(d.query.Get("project")); err == nil {
		if p, err := h.content.Project(id); err == nil {
			v.Selected = &p
		}
	}
	return "Projects", components.ProjectsPage(h.content, v), 0
}

func (h *Handler) careersView(d pageData) (string, g.Node, int) {
	query := d.query.Get("q")
	v := components.CareersView{Query: query}
	if d.session != nil {
		v.Jobs = d.session.SearchJobs(query)
	} else {
		v.Jobs = listing.FilterJobs(h.content.Jobs(), query)
	}
	if id, err := strconv.Atoi(d.query.Get("job")); err == nil {
		if j, err := h.content.Job(id); err == nil {
			v.Selected = &j
		}
	}

	switch {
	case d.form != nil && d.form.Kind == forms.KindApplication:
		v.Apply = d.form
	case d.query.Get("apply") != "":
		apply := formApplication.view(map[string]string{"roleOfInterest": d.query.Get("role")}, nil)
		v.Apply = &apply
	}
	switch {
	case d.form != nil && d.form.Kind == forms.KindRecruitment:
		v.Recruit = d.form
	case d.query.Get("recruit") != "":
		recruit := formRecruitment.view(nil, nil)
		v.Recruit = &recruit
	}
	return "Careers", components.CareersPage(h.content, v), 0
}

func (h *Handler) contactView(d pageData) (string, g.Node, int) {
	form := formContact.view(nil, nil)
	if d.form != nil && d.form.Kind == forms.KindContact {
		form = *d.form
	}
	return "Contact Us", components.ContactPage(h.content, form), 0
}

func (h *Handler) legalView(slug string) view {
	return func(d pageData) (string, g.Node, int) {
		p, err := h.content.Legal(slug)
		if errors.Is(err, content.ErrNotFound) {
			return h.notFoundView("/" + slug)(d)
		}
		return p.Title, components.LegalDoc(p), 0
	}
}

func (h *Handler) notFoundView(path string) view {
	return func(pageData) (string, g.Node, int) {
		return "Page not found", components.NotFoundPage(path), http.StatusNotFound
	}
}
