package editor

import (
	"strconv"
	"sync"
	"time"
)

// RecordID identifies a committed record inside one collection.
type RecordID int64

func (id RecordID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func ParseRecordID(s string) (RecordID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return RecordID(v), nil
}

// Sequence hands out millisecond timestamps as identifiers, bumping by one
// whenever the clock has not moved past the last value handed out.
type Sequence struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewSequence() *Sequence {
	return &Sequence{now: time.Now}
}

func newSequenceWithClock(now func() time.Time) *Sequence {
	return &Sequence{now: now}
}

func (s *Sequence) Next() RecordID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	return RecordID(ms)
}
