// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package models

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/savekit/arksave/internal/container"
	"github.com/savekit/arksave/internal/props"
)

// TribeLog_t is one parsed tribe log entry.
type TribeLog_t struct {
	Day          int
	Time         string
	RawMessage   string
	CleanMessage string
}

var (
	logLinePattern   = regexp.MustCompile(`^Day (\d+), (\d{2}:\d{2}:\d{2}): (.*)$`)
	richColorPattern = regexp.MustCompile(`<RichColor[^>]*>|</>`)
)

// ExtractTribeLogs parses every TribeLogs entry on o into TribeLog_t,
// stripping `<RichColor ...>...</>` markup from the message body.
func ExtractTribeLogs(o *container.GameObject_t) []TribeLog_t {
	p := o.Prop("TribeLogs")
	if p == nil {
		return nil
	}
	arr, ok := p.Value.(props.ArrayValue)
	if !ok {
		return nil
	}

	logs := make([]TribeLog_t, 0, len(arr.Items))
	for _, item := range arr.Items {
		raw := stringValueOf(item)
		logs = append(logs, parseTribeLogLine(raw))
	}
	return logs
}

func parseTribeLogLine(line string) TribeLog_t {
	m := logLinePattern.FindStringSubmatch(line)
	if m == nil {
		return TribeLog_t{RawMessage: line, CleanMessage: stripRichColor(line)}
	}
	day, _ := strconv.Atoi(m[1])
	body := m[3]
	return TribeLog_t{
		Day:          day,
		Time:         m[2],
		RawMessage:   body,
		CleanMessage: stripRichColor(body),
	}
}

func stripRichColor(s string) string {
	return strings.TrimSpace(richColorPattern.ReplaceAllString(s, ""))
}
