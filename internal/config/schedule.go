// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

// Retrain schedule kinds.
const (
	ScheduleDaily   = "daily"
	ScheduleWeekly  = "weekly"
	ScheduleMonthly = "monthly"
	ScheduleCron    = "cron"
)

var weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// weekday accepts full or three-letter day names, case-insensitively.
func weekday(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, day := range weekdays {
		if name == day || name == day[:3] {
			return i, true
		}
	}
	return 0, false
}

// CronSpec returns the five-field cron expression for the schedule.
func (r RetrainConfig) CronSpec() (string, error) {
	schedule := strings.ToLower(strings.TrimSpace(r.Schedule))
	if schedule == ScheduleCron {
		if _, err := cron.ParseStandard(r.CronExpr); err != nil {
			return "", fmt.Errorf("RETRAIN_CRON %q is invalid: %w", r.CronExpr, err)
		}
		return r.CronExpr, nil
	}

	if r.Hour < 0 || r.Hour > 23 {
		return "", fmt.Errorf("RETRAIN_HOUR must be between 0 and 23, got %d", r.Hour)
	}
	if r.Minute < 0 || r.Minute > 59 {
		return "", fmt.Errorf("RETRAIN_MINUTE must be between 0 and 59, got %d", r.Minute)
	}

	switch schedule {
	case ScheduleDaily:
		return fmt.Sprintf("%d %d * * *", r.Minute, r.Hour), nil
	case ScheduleWeekly:
		dow, ok := weekday(r.Day)
		if !ok {
			return "", fmt.Errorf("RETRAIN_DAY must be a weekday name for weekly schedules, got %q", r.Day)
		}
		return fmt.Sprintf("%d %d * * %d", r.Minute, r.Hour, dow), nil
	case ScheduleMonthly:
		dom, err := strconv.Atoi(strings.TrimSpace(r.Day))
		if err != nil || dom < 1 || dom > 31 {
			return "", fmt.Errorf("RETRAIN_DAY must be a day of month between 1 and 31 for monthly schedules, got %q", r.Day)
		}
		return fmt.Sprintf("%d %d %d * *", r.Minute, r.Hour, dom), nil
	default:
		return "", fmt.Errorf("RETRAIN_SCHEDULE must be one of daily, weekly, monthly, cron, got %q", r.Schedule)
	}
}
