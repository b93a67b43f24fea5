package components

import (
	"strconv"
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/glyengineering/glyweb/internal/content"
	"github.com/glyengineering/glyweb/internal/navigation"
)

// SiteHeader renders the top bar. The entry matching current is marked
// active.
func SiteHeader(c *content.Store, current string) g.Node {
	company := c.Company()
	items := c.Navigation()

	navLink := func(l content.Link, class string) g.Node {
		active := navigation.IsActive(current, l.Path)
		cls := class
		if active {
			cls += " is-active"
		}
		return A(
			Href(l.Path),
			Class(cls),
			Data("nav", l.Path),
			g.If(active, Aria("current", "page")),
			g.Text(l.Label),
		)
	}

	return Header(
		ID("site-header"),
		Class("site-header"),
		Div(
			Class("site-header__bar section-padding"),
			A(
				Href("/"),
				Class("site-header__brand"),
				Data("nav", "/"),
				Img(Src(company.Logo), Alt(company.ShortName)),
				Span(g.Text(company.ShortName)),
			),
			Nav(
				Class("site-header__nav"),
				Aria("label", "Primary"),
				g.Map(items, func(l content.Link) g.Node { return navLink(l, "site-header__link") }),
			),
			A(Href("/contact"), Class("btn-primary site-header__cta"), Data("nav", "/contact"), g.Text("Get in Touch")),
			Details(
				Class("site-header__mobile"),
				Summary(Aria("label", "Menu"), g.Text("Menu")),
				Nav(
					Class("site-header__mobile-nav"),
					g.Map(items, func(l content.Link) g.Node { return navLink(l, "site-header__mobile-link") }),
					A(Href("/contact"), Class("btn-primary"), Data("nav", "/contact"), g.Text("Get in Touch")),
				),
			),
		),
	)
}

// SiteFooter renders quick links, service lines, contact details and the
// legal links.
func SiteFooter(c *content.Store) g.Node {
	company := c.Company()
	year := strconv.Itoa(time.Now().Year())

	return Footer(
		ID("site-footer"),
		Class("site-footer"),
		Div(
			Class("site-footer__grid section-padding"),
			Div(
				Class("site-footer__brand"),
				Img(Src(company.Logo), Alt(company.Name)),
				P(g.Text(company.Summary)),
				Div(
					Class("site-footer__socials"),
					g.Map(company.Socials, func(s content.Social) g.Node {
						return A(Href(s.URL), Target("_blank"), Rel("noopener"), Aria("label", s.Label), g.Text(s.Label))
					}),
				),
			),
			Div(
				H4(g.Text("Quick Links")),
				Ul(g.Map(c.FooterLinks(), func(l content.Link) g.Node {
					return Li(A(Href(l.Path), Data("nav", l.Path), g.Text(l.Label)))
				})),
			),
			Div(
				H4(g.Text("Services")),
				Ul(g.Map(c.ServiceLines(), func(s content.ServiceLine) g.Node {
					return Li(A(Href("/services#"+s.ID), g.Text(s.Title)))
				})),
			),
			Div(
				H4(g.Text("Contact")),
				Ul(
					Class("site-footer__contact"),
					g.Map(company.Address, func(line string) g.Node { return Li(g.Text(line)) }),
					Li(A(Href(company.PhoneHref), g.Text(company.Phone))),
					Li(A(Href("mailto:"+company.Email), g.Text(company.Email))),
				),
			),
		),
		Div(
			Class("site-footer__legal section-padding"),
			P(g.Textf("© %s %s. All rights reserved.", year, company.Name)),
			Div(
				g.Map(content.LegalSlugs, func(slug string) g.Node {
					return A(Href("/"+slug), Data("nav", "/"+slug), g.Text(legalLabel(slug)))
				}),
			),
		),
	)
}

func legalLabel(slug string) string {
	switch slug {
	case "privacy":
		return "Privacy Policy"
	case "terms":
		return "Terms of Service"
	}
	return slug
}
