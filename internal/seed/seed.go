package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/lib/logger/sl"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/utils"
)

var ErrMissingColumn = errors.New("missing required column")

// headerAliases 把表头映射到员工字段，表头不区分大小写
var headerAliases = map[string]string{
	"firstname":  "firstName",
	"first_name": "firstName",
	"名":          "firstName",
	"lastname":   "lastName",
	"last_name":  "lastName",
	"姓":          "lastName",
	"email":      "email",
	"邮箱":         "email",
	"department": "department",
	"部门":         "department",
	"position":   "position",
	"职位":         "position",
}

var requiredColumns = []string{"firstName", "lastName", "email"}

type Report struct {
	Imported int
	Skipped  int
}

func ImportCSVFile(ctx context.Context, repo repository.EmployeeRepository, path string) (Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return ImportCSV(ctx, repo, file)
}

// ImportCSV 逐行插入员工，不合法或重复的行会被跳过并记录日志
func ImportCSV(ctx context.Context, repo repository.EmployeeRepository, r io.Reader) (Report, error) {
	validate, trans, err := utils.NewValidator()
	if err != nil {
		return Report{}, fmt.Errorf("failed to create validator: %w", err)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return Report{}, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(headers))
	for i, header := range headers {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
		if field, ok := headerAliases[key]; ok {
			columns[field] = i
		}
	}
	for _, field := range requiredColumns {
		if _, ok := columns[field]; !ok {
			return Report{}, fmt.Errorf("%w: %s", ErrMissingColumn, field)
		}
	}

	value := func(record []string, field string) string {
		i, ok := columns[field]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	report := Report{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				slog.Warn("跳过格式错误的行", slog.Int("line", line), sl.Err(err))
				report.Skipped++
				continue
			}
			return report, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		input := utils.EmployeeInput{
			FirstName:  value(record, "firstName"),
			LastName:   value(record, "lastName"),
			Email:      value(record, "email"),
			Department: value(record, "department"),
			Position:   value(record, "position"),
		}
		result, err := utils.NewValidationResult(validate.Struct(input), trans)
		if err != nil {
			return report, fmt.Errorf("failed to validate line %d: %w", line, err)
		}
		if !result.Valid() {
			slog.Warn("跳过校验失败的行", slog.Int("line", line), slog.Any("errors", result.FieldErrors))
			report.Skipped++
			continue
		}
		employee := input.Employee()

		if err := repo.CreateEmployee(ctx, employee); err != nil {
			if errors.Is(err, domain.ErrEmailAlreadyExists) {
				slog.Warn("跳过重复的邮箱", slog.Int("line", line), slog.String("email", employee.Email))
			} else {
				slog.Error("无法插入员工", slog.Int("line", line), sl.Err(err))
			}
			report.Skipped++
			continue
		}

		report.Imported++
	}

	return report, nil
}
