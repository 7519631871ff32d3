package service

import "time"

const dateLayout = "2006-01-02"

// Clock yields "today" in the business timezone. Date filters left empty by
// the client default to it.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}

	return &Clock{
		loc: loc,
		now: time.Now,
	}
}

// WithNow replaces the time source. Used by tests.
func (c *Clock) WithNow(now func() time.Time) *Clock {
	c.now = now
	return c
}

func (c *Clock) Today() string {
	return c.now().In(c.loc).Format(dateLayout)
}

func (c *Clock) orToday(date string) string {
	if date != "" {
		return date
	}
	return c.Today()
}
