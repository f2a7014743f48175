package emails

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"

	"CODIGOCERTO_BACK-END/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	SubjectMentor    = "Confirmação de Cadastro como Mentor"
	SubjectVolunteer = "Confirmação de Cadastro como Voluntário"

	// AssetsURL hosts the banner and icon images referenced by the templates
	AssetsURL = "https://servidor-estatico-eight-murex.vercel.app"
)

// View is the data interpolated into a confirmation email
type View struct {
	Name  string
	Email string
}

// TokenFunc signs the newsletter unsubscribe token for an email address
type TokenFunc func(email string) (string, error)

type page struct {
	Title          string
	Name           string
	AssetsURL      string
	UnsubscribeURL string
	Tracks         []Track
	Social         []Social
}

type variant struct {
	subject string
	title   string
	tmpl    *template.Template
}

// Renderer turns a View into the subject and HTML body for an applicant kind
type Renderer struct {
	baseURL  string
	token    TokenFunc
	variants map[models.Kind]variant
}

// NewRenderer parses the embedded templates. baseURL is the public address of
// this service and is used to build the volunteer unsubscribe link.
func NewRenderer(baseURL string, token TokenFunc) (*Renderer, error) {
	mentor, err := template.ParseFS(templateFS, "templates/layout.html", "templates/mentor.html")
	if err != nil {
		return nil, fmt.Errorf("parse mentor template: %w", err)
	}
	volunteer, err := template.ParseFS(templateFS, "templates/layout.html", "templates/volunteer.html")
	if err != nil {
		return nil, fmt.Errorf("parse volunteer template: %w", err)
	}

	return &Renderer{
		baseURL: baseURL,
		token:   token,
		variants: map[models.Kind]variant{
			models.KindMentor:    {subject: SubjectMentor, title: "Email Mentores", tmpl: mentor},
			models.KindVolunteer: {subject: SubjectVolunteer, title: "Email Voluntário", tmpl: volunteer},
		},
	}, nil
}

// Render returns the subject and HTML body of the confirmation email for kind
func (r *Renderer) Render(kind models.Kind, v View) (string, string, error) {
	variant, ok := r.variants[kind]
	if !ok {
		return "", "", fmt.Errorf("no email template for kind %q", kind)
	}

	data := page{
		Title:          variant.title,
		Name:           v.Name,
		AssetsURL:      AssetsURL,
		UnsubscribeURL: "#",
		Social:         socials,
	}
	if kind == models.KindVolunteer {
		link, err := r.unsubscribeURL(v.Email)
		if err != nil {
			return "", "", err
		}
		data.UnsubscribeURL = link
		data.Tracks = tracks
	}

	var buf bytes.Buffer
	if err := variant.tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", "", fmt.Errorf("render %s email: %w", kind, err)
	}
	return variant.subject, buf.String(), nil
}

func (r *Renderer) unsubscribeURL(email string) (string, error) {
	q := url.Values{}
	q.Set("email", email)
	if r.token != nil {
		token, err := r.token(email)
		if err != nil {
			return "", fmt.Errorf("sign unsubscribe token: %w", err)
		}
		q.Set("token", token)
	}
	return r.baseURL + "/update-newsletter?" + q.Encode(), nil
}
