package sl

import (
	"log/slog"
)

// Err 将 error 包装为 slog.Attr
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
