package services

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// today returns the current calendar date, the granularity membership rows
// are stamped with.
func today(now func() time.Time) datatypes.Date {
	if now == nil {
		now = time.Now
	}
	year, month, day := now().Date()
	return datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}
