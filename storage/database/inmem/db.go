// Package inmemdb provides a mutex-guarded, in-memory implementation of the
// repositories. It is the default backend for local development and tests.
package inmemdb

import (
	"sync"
	"time"

	"github.com/chorale-hq/chorale/core/audition"
	"github.com/chorale-hq/chorale/core/event"
	"github.com/chorale-hq/chorale/core/member"
	"github.com/chorale-hq/chorale/core/org"
	"github.com/chorale-hq/chorale/core/program"
	"github.com/chorale-hq/chorale/core/user"
)

type DB struct {
	mutex sync.RWMutex
	seq   int

	orgs          map[int]*org.Organization
	users         map[int]*user.User
	members       map[int]*member.Member
	years         map[int]*program.ProgramYear
	projects      map[int]*program.Project
	venues        map[int]*event.Venue
	events        map[int]*event.Event
	attendance    map[int]*event.Attendance
	auditionDates map[int]*audition.AuditionDate // stored without Slots
	auditionSlots map[int]*audition.AuditionSlot
}

func Open() (*DB, error) {
	return &DB{
		orgs:          make(map[int]*org.Organization),
		users:         make(map[int]*user.User),
		members:       make(map[int]*member.Member),
		years:         make(map[int]*program.ProgramYear),
		projects:      make(map[int]*program.Project),
		venues:        make(map[int]*event.Venue),
		events:        make(map[int]*event.Event),
		attendance:    make(map[int]*event.Attendance),
		auditionDates: make(map[int]*audition.AuditionDate),
		auditionSlots: make(map[int]*audition.AuditionSlot),
	}, nil
}

// nextID returns a fresh primary key; callers must hold the write lock.
func (db *DB) nextID() int {
	db.seq++
	return db.seq
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
