package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/domain"
)

const (
	Register     = "register"
	EmployeeList = "employee-list"
	EmployeeView = "employee-view"
	EmployeeEdit = "employee-edit"
	NotFound     = "not-found"
	Error        = "error"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page 是所有页面共用的模板数据
type Page struct {
	Title          string
	Employee       *domain.Employee
	Employees      []*domain.Employee
	Keyword        string
	FieldErrors    map[string]string
	ErrorMessage   string
	SuccessMessage string
}

type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	pages := []string{Register, EmployeeList, EmployeeView, EmployeeEdit, NotFound, Error}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).ParseFS(templateFS,
			"templates/layout.html",
			"templates/form.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	return &Renderer{templates: templates}, nil
}

// Render 先把页面渲染到缓冲区，模板出错时不会向客户端写出半个页面
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s does not exist", name)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "layout", page); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
