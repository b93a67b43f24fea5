// Package components renders the site's pages with gomponents.
package components

import (
	"sort"
	"strconv"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/glyengineering/glyweb/internal/forms"
	"github.com/glyengineering/glyweb/internal/reveal"
)

// RevealSection is a section animated in when it scrolls into view. id must
// be unique within the page.
func RevealSection(id, class string, children ...g.Node) g.Node {
	return Section(
		ID(id),
		Class(reveal.Class+" "+class),
		Data("reveal", id),
		g.Group(children),
	)
}

// Modal is a dialog that the server can render already open. closeHref is
// where the close link leads when scripting is off.
func Modal(id, title, closeHref string, open bool, children ...g.Node) g.Node {
	return Dialog(
		ID(id),
		Class("modal"),
		g.If(open, g.Attr("open")),
		Aria("labelledby", id+"-title"),
		Div(
			Class("modal__panel"),
			Div(
				Class("modal__head"),
				H3(ID(id+"-title"), g.Text(title)),
				A(Href(closeHref), Class("modal__close"), Data("close", id), Aria("label", "Close"), g.Text("×")),
			),
			g.Group(children),
		),
	)
}

// FormView is everything needed to render one of the enquiry forms.
type FormView struct {
	Kind   forms.Kind
	Action string
	Fields []forms.Field
	Values map[string]string
	Errors map[string]string
	Submit string
	// Cancel, when set, renders a cancel link to it.
	Cancel string
}

// NewFormView builds a FormView from a form's current state.
func NewFormView[F forms.Form[F]](f F, action, submit string) FormView {
	return FormView{
		Kind:   f.Kind(),
		Action: action,
		Fields: f.Schema(),
		Values: f.Values(),
		Submit: submit,
	}
}

func EnquiryForm(v FormView) g.Node {
	return Form(
		Class("enquiry-form"),
		Method("post"),
		Action(v.Action),
		Data("form", string(v.Kind)),
		g.If(len(v.Errors) > 0, Div(
			Class("enquiry-form__errors"),
			Role("alert"),
			P(g.Text("Please correct the highlighted fields.")),
			Ul(g.Map(sortedKeys(v.Errors), func(name string) g.Node {
				return Li(g.Text(name + ": " + v.Errors[name]))
			})),
		)),
		g.Map(v.Fields, func(f forms.Field) g.Node { return formField(f, v.Values[f.Name], v.Errors[f.Name]) }),
		Div(
			Class("enquiry-form__actions"),
			g.If(v.Cancel != "", A(Href(v.Cancel), Class("btn-secondary"), Data("cancel", string(v.Kind)), g.Text("Cancel"))),
			Button(Type("submit"), Class("btn-primary"), Data("submit-label", v.Submit), g.Text(v.Submit)),
		),
	)
}

func formField(f forms.Field, value, errMsg string) g.Node {
	id := "field-" + f.Name
	if f.Type == forms.InputHidden {
		return Input(Type("hidden"), Name(f.Name), Value(value))
	}

	var control g.Node
	common := []g.Node{
		ID(id),
		Name(f.Name),
		g.If(f.Required, Required()),
		g.If(f.Placeholder != "", Placeholder(f.Placeholder)),
		g.If(errMsg != "", Aria("invalid", "true")),
	}
	switch f.Type {
	case forms.InputTextarea:
		rows := f.Rows
		if rows == 0 {
			rows = 4
		}
		control = Textarea(g.Group(common), Rows(strconv.Itoa(rows)), g.Text(value))
	case forms.InputSelect:
		control = Select(
			g.Group(common),
			g.Map(f.Options, func(o forms.Option) g.Node {
				return Option(Value(o.Value), g.If(o.Value == value, Selected()), g.Text(o.Label))
			}),
		)
	default:
		control = Input(g.Group(common), Type(f.Type), Value(value))
	}

	label := f.Label
	if f.Required {
		label += " *"
	}
	return Div(
		Class("enquiry-form__field"),
		Label(For(id), g.Text(label)),
		control,
		g.If(errMsg != "", Small(Class("enquiry-form__error"), g.Text(errMsg))),
	)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
