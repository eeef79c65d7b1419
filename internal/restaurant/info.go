package restaurant

import (
	"regexp"
	"strings"
	"time"

	"phoneline/internal/menu"
)

const (
	UnknownName            = "Unknown Restaurant"
	NoAddress              = "Address not available"
	NoFAQs                 = "No FAQs available"
	NoOpeningHours         = "Opening hours not available"
	DefaultOpenGreeting    = "Hey there, welcome to [$Restaurant Name], my name is Yobo!"
	DefaultClosedGreeting  = "Sorry, we're currently closed."
	orderStatusPaused      = "paused"
	announcementSpaceToken = "&#x20;"
)

var (
	callingPattern = regexp.MustCompile(`calling ([^!]+)!`)
	weekDays       = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
)

// Info answers the non-menu questions a phone agent is asked about a
// restaurant: who it is, whether it is open, what it says on pickup.
type Info struct {
	r *menu.Restaurant
}

func NewInfo(r *menu.Restaurant) Info {
	if r == nil {
		r = &menu.Restaurant{}
	}
	return Info{r: r}
}

func (i Info) Name() string {
	if name := strings.TrimSpace(i.r.Name.String()); name != "" {
		return name
	}
	return UnknownName
}

// DisplayName prefers the name the open greeting announces
// ("Thank you for calling X!") over the registered name.
func (i Info) DisplayName() string {
	if m := callingPattern.FindStringSubmatch(i.r.Greetings.Open.String()); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}
	return i.Name()
}

func (i Info) Address() string {
	if addr := i.r.Address.String(); addr != "" {
		return addr
	}
	return NoAddress
}

func (i Info) FAQs() any {
	if i.r.FAQs == nil {
		return NoFAQs
	}
	return i.r.FAQs
}

func (i Info) DeliveryConfig() any {
	if i.r.DeliveryConfig == nil {
		return map[string]any{}
	}
	return i.r.DeliveryConfig
}

func (i Info) HasDeliveryService() bool {
	return bool(i.r.HasDeliveryService)
}

// ForwardNumber is nil when the restaurant has no forwarding contact.
func (i Info) ForwardNumber() *string {
	n := i.r.Contacts.ForwardPhone.String()
	if n == "" {
		return nil
	}
	return &n
}

func (i Info) Announcement() string {
	return strings.ReplaceAll(i.r.Announcement.String(), announcementSpaceToken, "")
}

func (i Info) GreetingMessage(now time.Time) string {
	if i.IsOpen(now) {
		if g := i.r.Greetings.Open.String(); g != "" {
			return g
		}
		return DefaultOpenGreeting
	}
	if g := i.r.Greetings.Closed.String(); g != "" {
		return g
	}
	return DefaultClosedGreeting
}

// --------------------------------------------------
// Opening hours
// --------------------------------------------------

type window struct {
	start, end int // seconds since midnight
}

func (w window) overnight() bool { return w.end < w.start }

// periodTimes returns the raw start/end pairs of a period. Periods with a
// slots key never fall back to the legacy startTime/endTime pair.
func periodTimes(p menu.OpeningPeriod) [][2]string {
	if !p.HasSlots() {
		return [][2]string{{p.StartTime.String(), p.EndTime.String()}}
	}
	pairs := make([][2]string, 0, len(p.Slots))
	for _, s := range p.Slots {
		pairs = append(pairs, [2]string{s.StartTime.String(), s.EndTime.String()})
	}
	return pairs
}

func periodWindows(p menu.OpeningPeriod) []window {
	var out []window
	for _, pair := range periodTimes(p) {
		start, okStart := parseClock(pair[0])
		end, okEnd := parseClock(pair[1])
		if !okStart || !okEnd {
			continue
		}
		out = append(out, window{start: start, end: end})
	}
	return out
}

// IsOpen reports whether the restaurant takes orders at now. now should
// already be in the restaurant's time zone. A window listed for today is
// open between start and end; a window listed for yesterday only counts for
// its after-midnight tail.
func (i Info) IsOpen(now time.Time) bool {
	if strings.EqualFold(i.r.RestaurantOrderStatus.String(), orderStatusPaused) {
		return false
	}

	today := now.Format("Mon")
	yesterday := now.AddDate(0, 0, -1).Format("Mon")
	at := now.Hour()*3600 + now.Minute()*60 + now.Second()

	for _, p := range i.r.OpeningHours {
		forToday := hasDay(p.Days, today)
		forYesterday := hasDay(p.Days, yesterday)
		if !forToday && !forYesterday {
			continue
		}

		for _, w := range periodWindows(p) {
			switch {
			case w.overnight():
				if forToday && at >= w.start {
					return true
				}
				if forYesterday && at < w.end {
					return true
				}
			case forToday && w.start <= at && at < w.end:
				return true
			}
		}
	}
	return false
}

// FormattedOpeningHours renders one line per period, e.g.
// "Mon-Fri: 11:00 AM - 10:00 PM".
func (i Info) FormattedOpeningHours() string {
	var lines []string

	for _, p := range i.r.OpeningHours {
		days := make([]string, 0, len(p.Days))
		for _, d := range p.Days {
			days = append(days, d.String())
		}
		if len(days) == 0 {
			continue
		}
		label := formatDays(days)

		var times []string
		for _, pair := range periodTimes(p) {
			if pair[0] == "" || pair[1] == "" {
				continue
			}
			times = append(times, formatRange(pair[0], pair[1]))
		}
		if len(times) == 0 {
			continue
		}
		lines = append(lines, label+": "+strings.Join(times, ", "))
	}

	if len(lines) == 0 {
		return NoOpeningHours
	}
	return strings.Join(lines, "\n")
}

func formatRange(start, end string) string {
	s, errStart := time.Parse("15:04", start)
	e, errEnd := time.Parse("15:04", end)
	if errStart != nil || errEnd != nil {
		return start + " - " + end
	}

	out := s.Format("03:04 PM") + " - " + e.Format("03:04 PM")
	if e.Before(s) {
		out += " (next day)"
	}
	return out
}

// formatDays collapses runs of more than two consecutive days ("Mon-Fri").
// Unknown day names are listed as given.
func formatDays(days []string) string {
	if len(days) <= 2 {
		return strings.Join(days, ", ")
	}

	for k := 1; k < len(days); k++ {
		prev, next := dayIndex(days[k-1]), dayIndex(days[k])
		if prev < 0 || next < 0 || (next-prev+7)%7 != 1 {
			return strings.Join(days, ", ")
		}
	}
	return days[0] + "-" + days[len(days)-1]
}

func dayIndex(day string) int {
	for k, d := range weekDays {
		if d == day {
			return k
		}
	}
	return -1
}

func hasDay(days menu.List[menu.Text], day string) bool {
	for _, d := range days {
		if d.String() == day {
			return true
		}
	}
	return false
}

func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*3600 + t.Minute()*60, true
}
