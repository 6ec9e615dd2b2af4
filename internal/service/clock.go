package service

import (
	"strings"
	"time"
)

const stampLayout = "2006-01-02 15:04"

// nowStamp formats the current time the way scan and event stamps are
// stored, minute precision in local time.
func nowStamp() string {
	return time.Now().Format(stampLayout)
}

// normalizeStamp brings caller-supplied timestamps onto the stored
// "YYYY-MM-DD HH:MM" form so string comparison orders chronologically.
// Empty input falls back to now.
func normalizeStamp(s string) (string, error) {
	if s == "" {
		return nowStamp(), nil
	}
	t, err := parseFlexible(s)
	if err != nil {
		return "", err
	}
	return t.Format(stampLayout), nil
}

// parseFlexible accepts the handful of date shapes operators actually
// type: with or without seconds, date only, and ISO "T" separators.
func parseFlexible(s string) (time.Time, error) {
	s = strings.Replace(strings.TrimSpace(s), "T", " ", 1)
	layouts := []string{
		"2006-01-02 15:04",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
