package kline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHmsFromInt(t *testing.T) {
	h := HmsFromInt(210100)
	assert.Equal(t, uint16(2101), h.HHMM)
	assert.Equal(t, uint8(21), h.Hour)
	assert.Equal(t, uint8(1), h.Minute)
	assert.Equal(t, uint8(0), h.Second)

	h = HmsFromInt(93159)
	assert.Equal(t, uint16(931), h.HHMM)
	assert.Equal(t, uint8(59), h.Second)
}

func TestHmsOfAndAt(t *testing.T) {
	h := HmsOf(dt(2022, time.June, 13, 14, 59, 33))
	assert.Equal(t, uint32(145933), h.HHMMSS)
	assert.Equal(t, dt(2022, time.June, 10, 14, 59, 33), h.At(date(2022, time.June, 10)))
}

func TestYmdRoundTrip(t *testing.T) {
	d := YmdFromInt(20220613)
	assert.Equal(t, uint16(2022), d.Year)
	assert.Equal(t, uint8(6), d.Month)
	assert.Equal(t, uint8(13), d.Day)
	assert.Equal(t, date(2022, time.June, 13), d.Date())
	assert.Equal(t, d, YmdOf(d.Date()))
	assert.Equal(t, "20220613", d.String())
}

func TestTimeRangeContains(t *testing.T) {
	day := NewTimeRange(93100, 113000)
	assert.True(t, day.Contains(93100))
	assert.True(t, day.Contains(103000))
	assert.True(t, day.Contains(113000))
	assert.False(t, day.Contains(93059))
	assert.False(t, day.Contains(113001))

	night := NewTimeRange(210100, 23000)
	assert.True(t, night.Contains(210100))
	assert.True(t, night.Contains(233000))
	assert.True(t, night.Contains(0))
	assert.True(t, night.Contains(23000))
	assert.False(t, night.Contains(23001))
	assert.False(t, night.Contains(210059))
}

func TestDateTimeRangeString(t *testing.T) {
	r := DateTimeRange{
		Start: dt(2022, time.June, 17, 21, 1, 0),
		End:   dt(2022, time.June, 20, 15, 0, 0),
	}
	assert.Equal(t, "(2022-06-17 21:01:00~2022-06-20 15:00:00)", r.String())
}
