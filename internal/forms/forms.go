// Package forms holds the site's three enquiry forms and the simulator that
// "submits" them: nothing leaves the process, the visitor just sees a fixed
// delay followed by a success toast.
package forms

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
)

// Kind identifies one of the site's forms.
type Kind string

const (
	KindContact     Kind = "contact"
	KindApplication Kind = "application"
	KindRecruitment Kind = "recruitment"
)

// Success is the toast shown after a form completes.
type Success struct {
	Message     string
	Description string
}

var successes = map[Kind]Success{
	KindContact:     {"Message sent!", "We will respond as soon as possible."},
	KindApplication: {"Application submitted!", "We will respond within 48 working hours."},
	KindRecruitment: {"Message sent to Recruitment Team!", "A recruitment specialist will respond within 24 hours."},
}

// SuccessFor returns the fixed toast for kind.
func SuccessFor(k Kind) Success { return successes[k] }

// Input types understood by the rendering layer.
const (
	InputText     = "text"
	InputEmail    = "email"
	InputTel      = "tel"
	InputTextarea = "textarea"
	InputSelect   = "select"
	InputHidden   = "hidden"
)

// Option is one choice of a select field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one controlled input.
type Field struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []Option `json:"options,omitempty"`
	Rows        int      `json:"rows,omitempty"`
}

// Departments are the contact form's routing choices.
var Departments = []Option{
	{Value: "general", Label: "General Inquiry"},
	{Value: "projects", Label: "Projects & Proposals"},
	{Value: "procurement", Label: "Procurement & Suppliers"},
	{Value: "careers", Label: "Careers & Recruitment"},
	{Value: "media", Label: "Media & Press"},
}

// RecruitmentDepartment is fixed on the recruitment form.
const RecruitmentDepartment = "careers"

// Form is the state object behind one of the site's forms. Implementations
// are plain values; With returns a modified copy.
type Form[F any] interface {
	Kind() Kind
	Schema() []Field
	Values() map[string]string
	With(name, value string) (F, error)
	Empty() F
	Validate() error
}

// ValidationError lists the fields that block submission, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// validate applies the native constraints declared in schema: required
// presence and email syntax.
func validate(schema []Field, values map[string]string) error {
	errs := make(map[string]string)
	for _, f := range schema {
		v := strings.TrimSpace(values[f.Name])
		if v == "" {
			if f.Required {
				errs[f.Name] = "required"
			}
			continue
		}
		switch f.Type {
		case InputEmail:
			if !validEmail(v) {
				errs[f.Name] = "must be an email address"
			}
		case InputSelect:
			if !hasOption(f.Options, v) {
				errs[f.Name] = "unknown option"
			}
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func validEmail(v string) bool {
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return false
	}
	at := strings.LastIndex(v, "@")
	return at > 0 && at < len(v)-1
}

func hasOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

func unknownField(k Kind, name string) error {
	return fmt.Errorf("%s form has no field %q", k, name)
}

// ContactForm backs the Contact page.
type ContactForm struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Company    string `json:"company"`
	Department string `json:"department"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
}

func (ContactForm) Kind() Kind { return KindContact }

func (ContactForm) Schema() []Field {
	return []Field{
		{Name: "name", Label: "Full Name", Type: InputText, Required: true, Placeholder: "John Doe"},
		{Name: "email", Label: "Email", Type: InputEmail, Required: true, Placeholder: "john@example.com"},
		{Name: "phone", Label: "Phone", Type: InputTel, Placeholder: "+1 (555) 000-0000"},
		{Name: "company", Label: "Company", Type: InputText, Placeholder: "Your Company"},
		{Name: "department", Label: "Department", Type: InputSelect, Placeholder: "Select department", Options: Departments},
		{Name: "subject", Label: "Subject", Type: InputText, Required: true, Placeholder: "How can we help?"},
		{Name: "message", Label: "Message", Type: InputTextarea, Required: true, Placeholder: "Tell us about your project...", Rows: 5},
	}
}

func (f ContactForm) Values() map[string]string {
	return map[string]string{
		"name":       f.Name,
		"email":      f.Email,
		"phone":      f.Phone,
		"company":    f.Company,
		"department": f.Department,
		"subject":    f.Subject,
		"message":    f.Message,
	}
}

func (f ContactForm) With(name, value string) (ContactForm, error) {
	switch name {
	case "name":
		f.Name = value
	case "email":
		f.Email = value
	case "phone":
		f.Phone = value
	case "company":
		f.Company = value
	case "department":
		f.Department = value
	case "subject":
		f.Subject = value
	case "message":
		f.Message = value
	default:
		return f, unknownField(KindContact, name)
	}
	return f, nil
}

func (ContactForm) Empty() ContactForm { return ContactForm{} }

func (f ContactForm) Validate() error { return validate(f.Schema(), f.Values()) }

// ApplicationForm backs the general application dialog on Careers.
type ApplicationForm struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	RoleOfInterest string `json:"roleOfInterest"`
	Message        string `json:"message"`
}

// NewApplicationForm returns an empty application, optionally prefilled with
// the role the visitor clicked through from.
func NewApplicationForm(role string) ApplicationForm {
	return ApplicationForm{RoleOfInterest: role}
}

func (ApplicationForm) Kind() Kind { return KindApplication }

func (ApplicationForm) Schema() []Field {
	return []Field{
		{Name: "fullName", Label: "Full Name", Type: InputText, Required: true, Placeholder: "John Doe"},
		{Name: "email", Label: "Email", Type: InputEmail, Required: true, Placeholder: "john@example.com"},
		{Name: "phone", Label: "Phone", Type: InputTel, Placeholder: "+1 (555) 000-0000"},
		{Name: "roleOfInterest", Label: "Role of Interest", Type: InputText, Required: true, Placeholder: "e.g., Senior Process Engineer"},
		{Name: "message", Label: "Message", Type: InputTextarea, Placeholder: "Tell us about your experience...", Rows: 4},
	}
}

func (f ApplicationForm) Values() map[string]string {
	return map[string]string{
		"fullName":       f.FullName,
		"email":          f.Email,
		"phone":          f.Phone,
		"roleOfInterest": f.RoleOfInterest,
		"message":        f.Message,
	}
}

func (f ApplicationForm) With(name, value string) (ApplicationForm, error) {
	switch name {
	case "fullName":
		f.FullName = value
	case "email":
		f.Email = value
	case "phone":
		f.Phone = value
	case "roleOfInterest":
		f.RoleOfInterest = value
	case "message":
		f.Message = value
	default:
		return f, unknownField(KindApplication, name)
	}
	return f, nil
}

func (ApplicationForm) Empty() ApplicationForm { return ApplicationForm{} }

func (f ApplicationForm) Validate() error { return validate(f.Schema(), f.Values()) }

// RecruitmentForm backs the "contact our Recruitment Team" modal. Its
// department is always careers.
type RecruitmentForm struct {
	ContactForm
	RoleOfInterest string `json:"roleOfInterest"`
}

// NewRecruitmentForm returns an empty recruitment enquiry.
func NewRecruitmentForm(role string) RecruitmentForm {
	return RecruitmentForm{
		ContactForm:    ContactForm{Department: RecruitmentDepartment},
		RoleOfInterest: role,
	}
}

func (RecruitmentForm) Kind() Kind { return KindRecruitment }

func (RecruitmentForm) Schema() []Field {
	return []Field{
		{Name: "name", Label: "Full Name", Type: InputText, Required: true, Placeholder: "John Doe"},
		{Name: "email", Label: "Email", Type: InputEmail, Required: true, Placeholder: "john@example.com"},
		{Name: "phone", Label: "Phone", Type: InputTel, Placeholder: "+1 (555) 000-0000"},
		{Name: "company", Label: "Current Company", Type: InputText, Placeholder: "Your Company"},
		{Name: "roleOfInterest", Label: "Role of Interest", Type: InputText, Placeholder: "e.g., Senior Process Engineer"},
		{Name: "subject", Label: "Subject", Type: InputText, Required: true, Placeholder: "How can we help?"},
		{Name: "message", Label: "Message", Type: InputTextarea, Required: true, Placeholder: "Tell us about your inquiry...", Rows: 4},
		{Name: "department", Type: InputHidden},
	}
}

func (f RecruitmentForm) Values() map[string]string {
	v := f.ContactForm.Values()
	v["roleOfInterest"] = f.RoleOfInterest
	return v
}

func (f RecruitmentForm) With(name, value string) (RecruitmentForm, error) {
	switch name {
	case "roleOfInterest":
		f.RoleOfInterest = value
		return f, nil
	case "department":
		// Fixed; submitted values are ignored.
		return f, nil
	}
	c, err := f.ContactForm.With(name, value)
	if err != nil {
		return f, unknownField(KindRecruitment, name)
	}
	f.ContactForm = c
	return f, nil
}

func (RecruitmentForm) Empty() RecruitmentForm { return NewRecruitmentForm("") }

func (f RecruitmentForm) Validate() error { return validate(f.Schema(), f.Values()) }

// Apply copies every known field of values onto f, ignoring unknown keys.
func Apply[F Form[F]](f F, values map[string]string) F {
	for _, field := range f.Schema() {
		v, ok := values[field.Name]
		if !ok {
			continue
		}
		if next, err := f.With(field.Name, v); err == nil {
			f = next
		}
	}
	return f
}
