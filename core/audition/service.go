package audition

import (
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/chorale-hq/chorale/core"
	"github.com/chorale-hq/chorale/core/member"
	"github.com/chorale-hq/chorale/core/org"
)

var (
	// errors
	ErrDateNotFound = errors.New("audition date not found")
	ErrSlotNotFound = errors.New("audition slot not found")
	// ErrSlotTaken is returned by Repository.ClaimSlot when the conditional
	// update matches no row: the slot was claimed or reviewed concurrently.
	ErrSlotTaken = errors.New("audition slot already taken")
)

type (
	Repository interface {
		// CreateAuditionDate persists the date and all of d.Slots as one
		// atomic unit: a concurrent reader never sees a partial slot set.
		CreateAuditionDate(d AuditionDate) (AuditionDate, error)
		GetAuditionDateByID(id, orgID int) (AuditionDate, error)
		// GetAuditionDateAny looks the date up without a tenant filter;
		// only the public, unauthenticated read path may use it.
		GetAuditionDateAny(id int) (AuditionDate, error)
		QueryAuditionDatesByYear(programYearID, orgID int) ([]AuditionDate, error)
		// DeleteAuditionDate removes all child slots, then the date.
		DeleteAuditionDate(id, orgID int) error

		GetSlotByID(id, orgID int) (AuditionSlot, error)
		GetSlotAny(id int) (AuditionSlot, error)
		// ClaimSlot sets the claimant iff the slot is still unclaimed and
		// pending, as a single compare-and-set; ErrSlotTaken otherwise.
		ClaimSlot(slotID, memberID int) (AuditionSlot, error)
		UpdateSlotStatus(id, orgID int, status string) (AuditionSlot, error)
		UpdateSlotNotes(id, orgID int, notes null.String) (AuditionSlot, error)
	}

	Service interface {
		Create(orgID int, nd NewAuditionDate) (AuditionDate, error)
		Get(id, orgID int) (AuditionDate, error)
		QueryByYear(programYearID, orgID int) ([]AuditionDate, error)
		Delete(id, orgID int) error

		GetPublic(auditionDateID int) (PublicAuditionDate, error)
		SignUp(slotID int, su SignUp) (AuditionSlot, error)

		UpdateStatus(slotID, orgID int, us UpdateSlotStatus) (AuditionSlot, error)
		UpdateNotes(slotID, orgID int, un UpdateSlotNotes) (AuditionSlot, error)
	}

	service struct {
		repo      Repository
		memberSvc member.Service
		orgSvc    org.Service
		mailSvc   core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, memberSvc member.Service, orgSvc org.Service, mailSvc core.EmailService) Service {
	return &service{
		repo:      repo,
		memberSvc: memberSvc,
		orgSvc:    orgSvc,
		mailSvc:   mailSvc,
	}
}

func (svc *service) Create(orgID int, nd NewAuditionDate) (AuditionDate, error) {
	if err := nd.Validate(); err != nil {
		return AuditionDate{}, err
	}

	now := time.Now().UTC()
	d := AuditionDate{
		OrgID:         orgID,
		ProgramYearID: nd.ProgramYearID,
		StartsAt:      nd.StartsAt,
		EndsAt:        nd.EndsAt,
		BlockMinutes:  nd.BlockLengthMinutes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	block := time.Duration(nd.BlockLengthMinutes) * time.Minute
	for _, start := range Partition(nd.StartsAt, nd.EndsAt, block) {
		d.Slots = append(d.Slots, AuditionSlot{
			OrgID:     orgID,
			StartsAt:  start,
			Status:    StatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return svc.repo.CreateAuditionDate(d)
}

func (svc *service) Get(id, orgID int) (AuditionDate, error) {
	return svc.repo.GetAuditionDateByID(id, orgID)
}

func (svc *service) QueryByYear(programYearID, orgID int) ([]AuditionDate, error) {
	return svc.repo.QueryAuditionDatesByYear(programYearID, orgID)
}

func (svc *service) Delete(id, orgID int) error {
	return svc.repo.DeleteAuditionDate(id, orgID)
}

func (svc *service) GetPublic(auditionDateID int) (PublicAuditionDate, error) {
	d, err := svc.repo.GetAuditionDateAny(auditionDateID)
	if err != nil {
		return PublicAuditionDate{}, err
	}
	return NewPublicAuditionDate(d), nil
}

func (svc *service) SignUp(slotID int, su SignUp) (AuditionSlot, error) {
	slot, err := svc.repo.GetSlotAny(slotID)
	if err != nil {
		return AuditionSlot{}, err
	}
	if slot.Status != StatusPending {
		return AuditionSlot{}, core.NewConflictError("this slot is no longer available")
	}
	if slot.MemberID.Valid {
		return AuditionSlot{}, core.NewConflictError("this slot has already been claimed")
	}

	if err = su.Validate(); err != nil {
		return AuditionSlot{}, err
	}

	m, err := svc.memberSvc.GetOrCreateByEmail(slot.OrgID, su.FirstName, su.LastName, su.Email)
	if err != nil {
		return AuditionSlot{}, errors.Wrap(err, "resolving member")
	}

	slot, err = svc.repo.ClaimSlot(slotID, m.ID)
	if err != nil {
		if errors.Cause(err) == ErrSlotTaken {
			return AuditionSlot{}, core.NewConflictError("this slot has already been claimed")
		}
		return AuditionSlot{}, err
	}

	svc.sendConfirmation(slot, m)
	return slot, nil
}

func (svc *service) sendConfirmation(slot AuditionSlot, m member.Member) {
	o, err := svc.orgSvc.GetByID(slot.OrgID)
	if err != nil {
		return // sign-up already succeeded; skip the email
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: m.FullName(), Address: m.Email}},
		Subject:      "Audition Confirmation",
		TemplateName: "audition-signup",
		TemplateData: struct{ FirstName, OrgName, SlotTime string }{
			FirstName: m.FirstName,
			OrgName:   o.Name,
			SlotTime:  slot.StartsAt.Format("Monday, 2 January 2006 at 15:04 MST"),
		},
	})
}

func (svc *service) UpdateStatus(slotID, orgID int, us UpdateSlotStatus) (AuditionSlot, error) {
	status, err := ParseStatus(us.Status)
	if err != nil {
		return AuditionSlot{}, core.NewValidationError(err, core.FieldError{Field: "status", Error: err.Error()})
	}
	return svc.repo.UpdateSlotStatus(slotID, orgID, status)
}

func (svc *service) UpdateNotes(slotID, orgID int, un UpdateSlotNotes) (AuditionSlot, error) {
	return svc.repo.UpdateSlotNotes(slotID, orgID, un.Notes)
}
