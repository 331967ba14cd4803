package domain

type EmployeeEventType string

const (
	EmployeeCreated EmployeeEventType = "employee.created"
	EmployeeUpdated EmployeeEventType = "employee.updated"
	EmployeeDeleted EmployeeEventType = "employee.deleted"
)

// EmployeeEvent 是发布到消息队列中的员工变更事件，删除事件中 Employee 为 nil
type EmployeeEvent struct {
	Type       EmployeeEventType `json:"type"`
	EmployeeID int64             `json:"employeeId"`
	Employee   *Employee         `json:"employee,omitempty"`
}

type WelcomeMailData struct {
	FullName   string `json:"fullName"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

type ProfileUpdatedMailData struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Position   string `json:"position"`
}
