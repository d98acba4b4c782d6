// Package window вычисляет окна обслуживания для отложенных deploys.
//
// Окно задаётся cron-выражением; deploy с окном получает NotBefore —
// ближайшее время окна — и подхватывается poll-циклом агента,
// когда оно наступит.
package window

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер cron-выражений (минута..день недели).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Next вычисляет ближайшее время окна после from.
func Next(expr string, from time.Time) (time.Time, error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse window expression %q: %w", expr, err)
	}
	return schedule.Next(from).UTC(), nil
}

// Validate проверяет валидность cron-выражения окна.
func Validate(expr string) error {
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("invalid window expression %q: %w", expr, err)
	}
	return nil
}
