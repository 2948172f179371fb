// Package views holds the default page components. Pages are html/template
// files embedded in the binary and exposed as templ components, so a site
// can swap any of them for its own templ code.
package views

import (
	"embed"
	"html/template"
	"time"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"formatDate": FormatDate,
	"joinTags":   JoinTags,
	"tagClass":   TagClass,
	"pathEscape": PathEscape,
	"year":       func() int { return time.Now().Year() },
}

var pageNames = []string{
	"home", "blog", "post", "not_found", "server_error",
	"admin_login", "admin_dashboard", "admin_form", "admin_images",
}

var pages = parsePages()

// parsePages gives every page its own template set: each page file defines
// "content", so they cannot share one namespace.
func parsePages() map[string]*template.Template {
	base := template.Must(template.New("base").Funcs(funcs).ParseFS(templateFS,
		"templates/layout.html", "templates/partials.html"))
	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t := template.Must(base.Clone())
		out[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
	return out
}

func page(name string, data any) templ.Component {
	return templ.FromGoHTML(pages[name].Lookup("layout"), data)
}

func fragment(name string, data any) templ.Component {
	return templ.FromGoHTML(pages[name].Lookup("content"), data)
}

func Home(d HomeData) templ.Component { return page("home", d) }

func Blog(d BlogData) templ.Component { return page("blog", d) }

// BlogPartial renders only the post list, for htmx swaps.
func BlogPartial(d BlogData) templ.Component { return fragment("blog", d) }

func Post(d PostData) templ.Component { return page("post", d) }

// PostPartial renders the article without the surrounding layout.
func PostPartial(d PostData) templ.Component { return fragment("post", d) }

func NotFound(p Page) templ.Component { return page("not_found", p) }

func ServerError(p Page) templ.Component { return page("server_error", p) }

func AdminLogin(d AdminLoginData) templ.Component { return page("admin_login", d) }

func AdminDashboard(d AdminData) templ.Component { return page("admin_dashboard", d) }

func AdminForm(d AdminFormData) templ.Component { return page("admin_form", d) }

func AdminImages(d AdminImagesData) templ.Component { return page("admin_images", d) }
