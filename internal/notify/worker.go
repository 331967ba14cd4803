// Package notify 消费员工变更事件并发送通知邮件
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/lib/logger/sl"
	"github.com/wneessen/go-mail"
)

var ErrMalformedEvent = errors.New("malformed employee event")

type Sender interface {
	DialAndSend(messages ...*mail.Msg) error
}

// Outcome 决定一条消息的确认方式
type Outcome int

const (
	Ack Outcome = iota
	Reject
	Requeue
)

type mailTemplate struct {
	subject string
	tmpl    *template.Template
}

type Worker struct {
	sender    Sender
	from      string
	templates map[domain.EmployeeEventType]mailTemplate
	logger    *slog.Logger
}

func NewWorker(sender Sender, from string, templateDir string, logger *slog.Logger) (*Worker, error) {
	files := map[domain.EmployeeEventType]struct {
		file    string
		subject string
	}{
		domain.EmployeeCreated: {file: "welcome_email.html", subject: "Employee Manager - Welcome"},
		domain.EmployeeUpdated: {file: "profile_updated_email.html", subject: "Employee Manager - Profile Updated"},
	}

	templates := make(map[domain.EmployeeEventType]mailTemplate, len(files))
	for eventType, f := range files {
		tmpl, err := template.ParseFiles(filepath.Join(templateDir, f.file))
		if err != nil {
			return nil, fmt.Errorf("failed to parse mail template %s: %w", f.file, err)
		}
		templates[eventType] = mailTemplate{subject: f.subject, tmpl: tmpl}
	}

	return &Worker{
		sender:    sender,
		from:      from,
		templates: templates,
		logger:    logger,
	}, nil
}

// BuildMessage 根据事件构建邮件，不需要发邮件的事件返回 nil
func (w *Worker) BuildMessage(event domain.EmployeeEvent) (*mail.Msg, error) {
	mt, ok := w.templates[event.Type]
	if !ok {
		return nil, nil
	}
	if event.Employee == nil {
		return nil, fmt.Errorf("%w: %s event without employee", ErrMalformedEvent, event.Type)
	}

	employee := event.Employee
	var data any
	switch event.Type {
	case domain.EmployeeCreated:
		data = domain.WelcomeMailData{
			FullName:   employee.FullName(),
			Department: employee.Department,
			Position:   employee.Position,
		}
	default:
		data = domain.ProfileUpdatedMailData{
			FullName:   employee.FullName(),
			Email:      employee.Email,
			Department: employee.Department,
			Position:   employee.Position,
		}
	}

	msg := mail.NewMsg()
	if err := msg.From(w.from); err != nil {
		return nil, fmt.Errorf("failed to set sender: %w", err)
	}
	if err := msg.To(employee.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid recipient: %v", ErrMalformedEvent, err)
	}
	msg.Subject(mt.subject)
	if err := msg.SetBodyHTMLTemplate(mt.tmpl, data); err != nil {
		return nil, fmt.Errorf("failed to render mail body: %w", err)
	}

	return msg, nil
}

func (w *Worker) Handle(body []byte) Outcome {
	var event domain.EmployeeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		w.logger.Error("员工事件反序列化失败", sl.Err(err))
		return Reject
	}

	switch event.Type {
	case domain.EmployeeCreated, domain.EmployeeUpdated, domain.EmployeeDeleted:
	default:
		w.logger.Error("不支持的事件类型", slog.String("type", string(event.Type)))
		return Reject
	}

	msg, err := w.BuildMessage(event)
	if err != nil {
		w.logger.Error("无法构建邮件", slog.Int64("employeeId", event.EmployeeID), sl.Err(err))
		return Reject
	}
	if msg == nil {
		return Ack
	}

	if err := w.sender.DialAndSend(msg); err != nil {
		w.logger.Error("邮件发送失败", slog.Int64("employeeId", event.EmployeeID), sl.Err(err))
		return Requeue
	}

	w.logger.Info("邮件已发送", slog.String("type", string(event.Type)), slog.Int64("employeeId", event.EmployeeID))
	return Ack
}

// Run 持续消费消息直到 ctx 被取消或通道关闭
func (w *Worker) Run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				w.logger.Warn("消息通道已关闭")
				return
			}
			w.logger.Info("收到消息", slog.String("message", string(msg.Body)))

			var err error
			switch w.Handle(msg.Body) {
			case Ack:
				err = msg.Ack(false)
			case Reject:
				err = msg.Nack(false, false)
			case Requeue:
				err = msg.Nack(false, true) // 将消息重新入队
			}
			if err != nil {
				w.logger.Error("无法确认消息", sl.Err(err))
			}
		}
	}
}
