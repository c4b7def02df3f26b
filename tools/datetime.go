package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/aschepis/backscratcher/sparky/llm"
)

const (
	longDateLayout = "January 2, 2006"
	time24Layout   = "15:04:05"
	time12Layout   = "03:04:05 PM"
)

func datetime(now func() time.Time) ToolHandler {
	return func(ctx context.Context, args json.RawMessage) (llm.ToolResult, error) {
		var payload struct {
			Format   string `json:"format"`
			Timezone string `json:"timezone"`
		}
		if err := decodeArgs(args, &payload); err != nil {
			return nil, err
		}
		if payload.Format == "" {
			payload.Format = "datetime"
		}

		loc := time.Local
		if payload.Timezone != "" {
			l, err := time.LoadLocation(payload.Timezone)
			if err != nil {
				return llm.NewToolFailure(fmt.Sprintf("Unknown timezone: %s", payload.Timezone)), nil
			}
			loc = l
		}
		t := now().In(loc)

		result := llm.ToolResult{}
		switch payload.Format {
		case "date":
			result["date"] = t.Format(longDateLayout)
			result["dateWithDay"] = t.Weekday().String() + ", " + t.Format(longDateLayout)
			result["dateShort"] = t.Format(time.DateOnly)
		case "time":
			result["time"] = t.Format(time24Layout)
			result["time12h"] = t.Format(time12Layout)
		case "datetime":
			result["datetime"] = t.Format(longDateLayout + " at " + time12Layout)
			result["date"] = t.Format(longDateLayout)
			result["dateWithDay"] = t.Weekday().String() + ", " + t.Format(longDateLayout)
			result["time"] = t.Format(time12Layout)
		case "iso":
			utc := t.UTC()
			result["iso"] = utc.Format(time.RFC3339)
			result["isoDate"] = utc.Format(time.DateOnly)
			result["isoTime"] = utc.Format(time.TimeOnly)
		case "timestamp":
			result["timestamp"] = t.Unix()
			result["timestampMs"] = t.UnixMilli()
		case "mmddyyyy":
			result["mmddyyyy"] = t.Format("01-02-2006")
			result["formatted"] = t.Format("01-02-2006")
		case "ddmmyyyy":
			result["ddmmyyyy"] = t.Format("02-01-2006")
			result["formatted"] = t.Format("02-01-2006")
		default:
			return llm.NewToolFailure(fmt.Sprintf("Unknown format: %s", payload.Format)), nil
		}

		zoneName, offset := t.Zone()
		result["success"] = true
		result["format"] = payload.Format
		result["dayOfWeek"] = t.Weekday().String()
		result["dayNumber"] = int(t.Weekday())
		result["timezone"] = timezoneName(loc, zoneName)
		result["utcOffsetMinutes"] = offset / 60
		return result, nil
	}
}

// timezoneName prefers the IANA name; time.Local only knows its abbreviation.
func timezoneName(loc *time.Location, abbreviation string) string {
	if loc == time.Local {
		return abbreviation
	}
	return loc.String()
}
