package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/lib/logger/sl"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/utils"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/view"
)

const (
	msgEmployeeRegistered = "Employee registered successfully!"
	msgEmployeeUpdated    = "Employee updated successfully!"
	msgEmployeeDeleted    = "Employee deleted successfully!"
)

// errMalformedForm 表示请求体本身无法解析，属于客户端错误
var errMalformedForm = errors.New("malformed form")

// readEmployeeForm 解析并校验表单，表单中的 id 只作为回显使用
func (h *Handler) readEmployeeForm(r *http.Request) (*domain.Employee, utils.ValidationResult, error) {
	if err := r.ParseForm(); err != nil {
		return nil, utils.ValidationResult{}, fmt.Errorf("%w: %v", errMalformedForm, err)
	}

	form := utils.EmployeeInput{
		FirstName:  strings.TrimSpace(r.PostFormValue("firstName")),
		LastName:   strings.TrimSpace(r.PostFormValue("lastName")),
		Email:      strings.TrimSpace(r.PostFormValue("email")),
		Department: strings.TrimSpace(r.PostFormValue("department")),
		Position:   strings.TrimSpace(r.PostFormValue("position")),
	}
	employee := form.Employee()
	if id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64); err == nil {
		employee.ID = id
	}

	result, err := utils.NewValidationResult(h.validate.Struct(form), h.translator)
	if err != nil {
		return nil, utils.ValidationResult{}, fmt.Errorf("failed to validate employee form: %w", err)
	}

	return employee, result, nil
}

// formError 区分无法解析的请求和校验器自身的错误
func (h *Handler) formError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errMalformedForm) {
		h.badRequest(w, r, err)
		return
	}
	h.internalServerError(w, r, err)
}

func (h *Handler) publish(r *http.Request, eventType domain.EmployeeEventType, employee *domain.Employee) {
	if h.events == nil {
		return
	}

	event := domain.EmployeeEvent{
		Type:       eventType,
		EmployeeID: employee.ID,
	}
	if eventType != domain.EmployeeDeleted {
		event.Employee = employee
	}

	if err := h.events.Publish(r.Context(), event); err != nil {
		slog.Warn("无法发布员工事件", "type", eventType, "employeeId", employee.ID, sl.Err(err))
	}
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/employees/register", http.StatusFound)
}

func (h *Handler) ShowRegistrationForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, view.Register, view.Page{
		Title:    "Register Employee",
		Employee: &domain.Employee{},
	})
}

func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	employee, result, err := h.readEmployeeForm(r)
	if err != nil {
		h.formError(w, r, err)
		return
	}

	page := view.Page{
		Title:    "Register Employee",
		Employee: employee,
	}

	if !result.Valid() {
		page.FieldErrors = result.FieldErrors
		h.render(w, r, http.StatusOK, view.Register, page)
		return
	}

	employee.ID = 0
	if err := h.repository.CreateEmployee(r.Context(), employee); err != nil {
		slog.Warn("无法保存员工", "email", employee.Email, sl.Err(err))
		page.ErrorMessage = "Error saving employee: " + err.Error()
		h.render(w, r, http.StatusOK, view.Register, page)
		return
	}

	h.publish(r, domain.EmployeeCreated, employee)
	h.redirectWithFlash(w, r, "/employees/list", msgEmployeeRegistered)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")

	var (
		employees []*domain.Employee
		err       error
	)
	if trimmed := strings.TrimSpace(keyword); trimmed != "" {
		employees, err = h.repository.SearchEmployees(r.Context(), trimmed)
	} else {
		employees, err = h.repository.GetAllEmployees(r.Context())
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	page := view.Page{
		Title:     "Employees",
		Employees: employees,
		Keyword:   keyword,
	}
	// 删除失败时的提示信息也经由 flash 传递
	if message := h.takeFlash(w, r); strings.HasPrefix(message, "Error ") {
		page.ErrorMessage = message
	} else {
		page.SuccessMessage = message
	}

	h.render(w, r, http.StatusOK, view.EmployeeList, page)
}

func (h *Handler) ViewEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	h.render(w, r, http.StatusOK, view.EmployeeView, view.Page{
		Title:    "Employee Details",
		Employee: employee,
	})
}

func (h *Handler) ShowEditForm(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	h.render(w, r, http.StatusOK, view.EmployeeEdit, view.Page{
		Title:    "Edit Employee",
		Employee: employee,
	})
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	employee, result, err := h.readEmployeeForm(r)
	if err != nil {
		h.formError(w, r, err)
		return
	}
	// 以路径中的 id 为准
	employee.ID = id

	page := view.Page{
		Title:    "Edit Employee",
		Employee: employee,
	}

	if !result.Valid() {
		page.FieldErrors = result.FieldErrors
		h.render(w, r, http.StatusOK, view.EmployeeEdit, page)
		return
	}

	if err := h.repository.UpdateEmployee(r.Context(), id, employee); err != nil {
		slog.Warn("无法更新员工", "id", id, sl.Err(err))
		page.ErrorMessage = "Error updating employee: " + err.Error()
		h.render(w, r, http.StatusOK, view.EmployeeEdit, page)
		return
	}

	h.publish(r, domain.EmployeeUpdated, employee)
	h.redirectWithFlash(w, r, "/employees/list", msgEmployeeUpdated)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	if err := h.repository.DeleteEmployee(r.Context(), id); err != nil {
		slog.Error("无法删除员工", "id", id, sl.Err(err))
		h.redirectWithFlash(w, r, "/employees/list", "Error deleting employee: "+err.Error())
		return
	}

	h.publish(r, domain.EmployeeDeleted, &domain.Employee{ID: id})
	h.redirectWithFlash(w, r, "/employees/list", msgEmployeeDeleted)
}
