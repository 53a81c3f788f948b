package resource

import (
	"fmt"

	"github.com/langconv/langconv/pkg/model"
)

// contain runs fn and, if it fails, reports the failure under op and
// resolves to fallback instead of the error.
func contain[R model.Identifiable, T any](c *Client[R], op string, fallback T, fn func() (T, error)) T {
	result, err := fn()
	if err != nil {
		c.logger.Error("operation failed", "source", c.labels.source, "operation", op, "error", err)
		c.log(fmt.Sprintf("%s failed: %v", op, err))
		return fallback
	}
	return result
}
