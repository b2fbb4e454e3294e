package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var vnLocation = mustLoadVNLocation()

func mustLoadVNLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		// LoadLocation only fails without tzdata, fall back to fixed offset.
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// VNTimeLocation returns the Vietnam (ICT) time zone.
func VNTimeLocation() *time.Location {
	return vnLocation
}

func TimeNowVN() time.Time {
	return time.Now().In(vnLocation)
}

// ParseSourceDate parses the date formats used by the upstream source:
// "DD/MM/YYYY" and "DD/MM/YYYY HH:mm:ss". Anything without a slash is
// handed to an RFC3339 parse. Returns an error when nothing matches.
func ParseSourceDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	if strings.Contains(value, "/") {
		return parseSlashDate(value)
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date format %q: %w", value, err)
	}
	return t, nil
}

func parseSlashDate(value string) (time.Time, error) {
	datePart := value
	timePart := ""
	if idx := strings.IndexByte(value, ' '); idx >= 0 {
		datePart = value[:idx]
		timePart = strings.TrimSpace(value[idx+1:])
	}

	dateFields := strings.Split(datePart, "/")
	if len(dateFields) != 3 {
		return time.Time{}, fmt.Errorf("invalid date part %q", datePart)
	}

	day, err1 := strconv.Atoi(dateFields[0])
	month, err2 := strconv.Atoi(dateFields[1])
	year, err3 := strconv.Atoi(dateFields[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, fmt.Errorf("non-numeric date part %q", datePart)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date out of range %q", datePart)
	}

	hour, minute, second := 0, 0, 0
	if timePart != "" {
		timeFields := strings.Split(timePart, ":")
		if len(timeFields) != 3 {
			return time.Time{}, fmt.Errorf("invalid time part %q", timePart)
		}
		var err4, err5, err6 error
		hour, err4 = strconv.Atoi(timeFields[0])
		minute, err5 = strconv.Atoi(timeFields[1])
		second, err6 = strconv.Atoi(timeFields[2])
		if err4 != nil || err5 != nil || err6 != nil {
			return time.Time{}, fmt.Errorf("non-numeric time part %q", timePart)
		}
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, vnLocation), nil
}
