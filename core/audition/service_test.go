package audition_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorale-hq/chorale/core"
	"github.com/chorale-hq/chorale/core/audition"
	"github.com/chorale-hq/chorale/core/member"
	"github.com/chorale-hq/chorale/core/org"
	emailsvc "github.com/chorale-hq/chorale/services/email"
	inmemdb "github.com/chorale-hq/chorale/storage/database/inmem"
)

type auditionEnv struct {
	svc       audition.Service
	memberSvc member.Service
	org       org.Organization
}

func newAuditionEnv(t *testing.T) auditionEnv {
	t.Helper()

	db, err := inmemdb.Open()
	require.NoError(t, err)

	orgSvc := org.NewService(inmemdb.NewOrganizationRepository(db))
	memberSvc := member.NewService(inmemdb.NewMemberRepository(db))
	mailSvc := emailsvc.NewConsoleServiceMock()
	svc := audition.NewService(inmemdb.NewAuditionRepository(db), memberSvc, orgSvc, mailSvc)

	o, err := orgSvc.Create(org.NewOrganization{Name: "Vox Lumina"})
	require.NoError(t, err)

	return auditionEnv{svc: svc, memberSvc: memberSvc, org: o}
}

func newTestDate(t *testing.T, env auditionEnv) audition.AuditionDate {
	t.Helper()

	d, err := env.svc.Create(env.org.ID, audition.NewAuditionDate{
		ProgramYearID:      1,
		Date:               "2026-09-14",
		StartTime:          "18:00",
		EndTime:            "21:00",
		BlockLengthMinutes: 20,
	})
	require.NoError(t, err)
	return d
}

func TestAuditionServiceCreate(t *testing.T) {
	env := newAuditionEnv(t)

	t.Run("partitions the window into slots", func(t *testing.T) {
		d := newTestDate(t, env)

		assert.NotZero(t, d.ID)
		assert.Equal(t, env.org.ID, d.OrgID)
		assert.Equal(t, 20, d.BlockMinutes)
		require.Len(t, d.Slots, 9)
		for i, s := range d.Slots {
			assert.NotZero(t, s.ID)
			assert.Equal(t, d.ID, s.AuditionDateID)
			assert.Equal(t, audition.StatusPending, s.Status)
			assert.True(t, s.IsAvailable())
			if i > 0 {
				assert.True(t, d.Slots[i-1].StartsAt.Before(s.StartsAt))
			}
		}
	})

	t.Run("rejects a block that does not divide the window", func(t *testing.T) {
		_, err := env.svc.Create(env.org.ID, audition.NewAuditionDate{
			ProgramYearID:      1,
			Date:               "2026-09-14",
			StartTime:          "18:00",
			EndTime:            "21:00",
			BlockLengthMinutes: 25,
		})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "block_length_minutes", vErr.Fields[0].Field)
		assert.Equal(t, "must evenly divide the audition window", vErr.Fields[0].Error)
	})

	t.Run("rejects an inverted window", func(t *testing.T) {
		_, err := env.svc.Create(env.org.ID, audition.NewAuditionDate{
			ProgramYearID:      1,
			Date:               "2026-09-14",
			StartTime:          "21:00",
			EndTime:            "18:00",
			BlockLengthMinutes: 20,
		})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "end_time", vErr.Fields[0].Field)
	})

	t.Run("rejects a non-positive block length", func(t *testing.T) {
		_, err := env.svc.Create(env.org.ID, audition.NewAuditionDate{
			ProgramYearID: 1,
			Date:          "2026-09-14",
			StartTime:     "18:00",
			EndTime:       "21:00",
		})
		assert.Error(t, err)
	})
}

func TestAuditionServiceSignUp(t *testing.T) {
	env := newAuditionEnv(t)
	d := newTestDate(t, env)

	signUp := audition.SignUp{FirstName: "Awa", LastName: "Diallo", Email: "awa@example.com"}

	t.Run("claims an available slot and upserts the member", func(t *testing.T) {
		slot, err := env.svc.SignUp(d.Slots[0].ID, signUp)
		require.NoError(t, err)
		assert.True(t, slot.MemberID.Valid)
		assert.Equal(t, audition.StatusPending, slot.Status)
		assert.False(t, slot.IsAvailable())

		m, err := env.memberSvc.GetByID(int(slot.MemberID.Int), env.org.ID)
		require.NoError(t, err)
		assert.Equal(t, "awa@example.com", m.Email)
		assert.Equal(t, member.RoleMember, m.Role)
		assert.True(t, m.IsActive)
	})

	t.Run("rejects a second claim on the same slot", func(t *testing.T) {
		_, err := env.svc.SignUp(d.Slots[0].ID, audition.SignUp{
			FirstName: "Ben", LastName: "Osei", Email: "ben@example.com",
		})
		var cErr *core.ConflictError
		require.ErrorAs(t, err, &cErr)
		assert.Equal(t, "this slot has already been claimed", cErr.Message)
	})

	t.Run("same email reuses the member record", func(t *testing.T) {
		first, err := env.svc.SignUp(d.Slots[1].ID, signUp)
		// the member already holds slot 0; claiming another slot is fine,
		// the member record must simply not be duplicated
		require.NoError(t, err)

		again, err := env.memberSvc.GetOrCreateByEmail(env.org.ID, "Awa", "Diallo", "AWA@Example.com")
		require.NoError(t, err)
		assert.Equal(t, int(first.MemberID.Int), again.ID)
	})

	t.Run("rejects a non-pending slot", func(t *testing.T) {
		_, err := env.svc.UpdateStatus(d.Slots[2].ID, env.org.ID, audition.UpdateSlotStatus{Status: "rejected"})
		require.NoError(t, err)

		_, err = env.svc.SignUp(d.Slots[2].ID, audition.SignUp{
			FirstName: "Ben", LastName: "Osei", Email: "ben@example.com",
		})
		var cErr *core.ConflictError
		require.ErrorAs(t, err, &cErr)
		assert.Equal(t, "this slot is no longer available", cErr.Message)
	})

	t.Run("availability is checked before the payload", func(t *testing.T) {
		// slot 0 is claimed; the conflict wins over the invalid email
		_, err := env.svc.SignUp(d.Slots[0].ID, audition.SignUp{Email: "not-an-email"})
		var cErr *core.ConflictError
		assert.ErrorAs(t, err, &cErr)
	})

	t.Run("rejects an invalid email on an open slot", func(t *testing.T) {
		_, err := env.svc.SignUp(d.Slots[3].ID, audition.SignUp{FirstName: "Ben", Email: "nope"})
		assert.Error(t, err)

		slot, err := env.svc.GetPublic(d.ID)
		require.NoError(t, err)
		assert.True(t, slot.Slots[3].IsAvailable)
	})

	t.Run("unknown slot", func(t *testing.T) {
		_, err := env.svc.SignUp(999999, signUp)
		assert.Equal(t, audition.ErrSlotNotFound, errors.Cause(err))
	})

	t.Run("sends a confirmation email", func(t *testing.T) {
		emailsvc.ClearSentMessages()
		_, err := env.svc.SignUp(d.Slots[4].ID, audition.SignUp{
			FirstName: "Chiara", LastName: "Rossi", Email: "chiara@example.com",
		})
		require.NoError(t, err)
		require.Len(t, emailsvc.SentMessages, 1)
		msg := emailsvc.SentMessages[0]
		assert.Equal(t, "chiara@example.com", msg.To[0].Address)
		assert.Contains(t, msg.Subject, "Audition Confirmation")
	})
}

func TestAuditionServiceSignUpConcurrent(t *testing.T) {
	env := newAuditionEnv(t)
	d := newTestDate(t, env)
	slotID := d.Slots[0].ID

	const n = 16
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.SignUp(slotID, audition.SignUp{
				FirstName: "Racer",
				LastName:  fmt.Sprintf("No%d", i),
				Email:     fmt.Sprintf("racer%d@example.com", i),
			})
		}(i)
	}
	wg.Wait()

	var won int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		var cErr *core.ConflictError
		assert.ErrorAs(t, err, &cErr)
	}
	assert.Equal(t, 1, won, "exactly one sign-up must win the slot")
}

func TestAuditionServiceUpdateStatus(t *testing.T) {
	env := newAuditionEnv(t)
	d := newTestDate(t, env)
	slotID := d.Slots[0].ID

	t.Run("any transition is allowed", func(t *testing.T) {
		for _, status := range []string{"accepted", "rejected", "waitlisted", "pending", "accepted"} {
			slot, err := env.svc.UpdateStatus(slotID, env.org.ID, audition.UpdateSlotStatus{Status: status})
			require.NoError(t, err)
			assert.Equal(t, status, slot.Status)
		}
	})

	t.Run("status parsing is case-insensitive", func(t *testing.T) {
		slot, err := env.svc.UpdateStatus(slotID, env.org.ID, audition.UpdateSlotStatus{Status: "  Waitlisted "})
		require.NoError(t, err)
		assert.Equal(t, audition.StatusWaitlisted, slot.Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := env.svc.UpdateStatus(slotID, env.org.ID, audition.UpdateSlotStatus{Status: "maybe"})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "status", vErr.Fields[0].Field)
	})

	t.Run("wrong organization", func(t *testing.T) {
		_, err := env.svc.UpdateStatus(slotID, env.org.ID+1, audition.UpdateSlotStatus{Status: "accepted"})
		assert.Equal(t, audition.ErrSlotNotFound, errors.Cause(err))
	})
}

func TestAuditionServiceGetPublic(t *testing.T) {
	env := newAuditionEnv(t)
	d := newTestDate(t, env)

	_, err := env.svc.SignUp(d.Slots[0].ID, audition.SignUp{
		FirstName: "Awa", LastName: "Diallo", Email: "awa@example.com",
	})
	require.NoError(t, err)

	pub, err := env.svc.GetPublic(d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, pub.ID)
	require.Len(t, pub.Slots, len(d.Slots))
	assert.False(t, pub.Slots[0].IsAvailable)
	assert.True(t, pub.Slots[1].IsAvailable)

	_, err = env.svc.GetPublic(999999)
	assert.Equal(t, audition.ErrDateNotFound, errors.Cause(err))
}
