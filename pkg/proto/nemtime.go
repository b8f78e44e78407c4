package proto

import (
	"time"

	"github.com/ccoveille/go-safecast"
	"github.com/pkg/errors"
)

// MaxDeadlineDelay is the longest time to live a node accepts for a transaction.
const MaxDeadlineDelay = 24 * time.Hour

// NemesisTime is the creation time of the nemesis block. Transaction timestamps count seconds from it.
var NemesisTime = time.Date(2015, time.March, 29, 0, 6, 25, 0, time.UTC)

// NewTimeStamp converts t to seconds since the nemesis block.
func NewTimeStamp(t time.Time) (uint32, error) {
	if t.Before(NemesisTime) {
		return 0, errors.Errorf("time %s is before nemesis block", t.UTC().Format(time.RFC3339))
	}
	ts, err := safecast.ToUint32(int64(t.Sub(NemesisTime) / time.Second))
	if err != nil {
		return 0, errors.Wrap(err, "timestamp overflow")
	}
	return ts, nil
}

// TimeStampToTime is the inverse of NewTimeStamp.
func TimeStampToTime(ts uint32) time.Time {
	return NemesisTime.Add(time.Duration(ts) * time.Second)
}

// SetTime stamps the transaction with now and sets its deadline ttl later.
func (c *Common) SetTime(now time.Time, ttl time.Duration) error {
	if ttl <= 0 || ttl > MaxDeadlineDelay {
		return errors.Errorf("deadline delay %s is out of range (0, %s]", ttl, MaxDeadlineDelay)
	}
	ts, err := NewTimeStamp(now)
	if err != nil {
		return err
	}
	deadline, err := NewTimeStamp(now.Add(ttl))
	if err != nil {
		return err
	}
	c.TimeStamp = ts
	c.Deadline = deadline
	return nil
}
