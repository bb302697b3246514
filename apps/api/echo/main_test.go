package echoapi

import (
	"log"
	"os"
	"testing"

	"github.com/chorale-hq/chorale/core"
	"github.com/chorale-hq/chorale/core/audition"
	"github.com/chorale-hq/chorale/core/dashboard"
	"github.com/chorale-hq/chorale/core/event"
	"github.com/chorale-hq/chorale/core/member"
	"github.com/chorale-hq/chorale/core/org"
	"github.com/chorale-hq/chorale/core/program"
	"github.com/chorale-hq/chorale/core/user"
	emailsvc "github.com/chorale-hq/chorale/services/email"
	logsvc "github.com/chorale-hq/chorale/services/logger"
	inmemdb "github.com/chorale-hq/chorale/storage/database/inmem"
)

const testUserPwd = "L0ud&Clear!Pwd"

var (
	testApp Server

	tOrgSvc      org.Service
	tUserSvc     user.Service
	tMemberSvc   member.Service
	tProgramSvc  program.Service
	tEventSvc    event.Service
	tAuditionSvc audition.Service

	testOrg  org.Organization
	otherOrg org.Organization

	adminUsr user.User
	staffUsr user.User
	plainUsr user.User
	otherUsr user.User // belongs to otherOrg
)

func TestMain(m *testing.M) {
	core.Conf.TestMode = true

	db, err := inmemdb.Open()
	if err != nil {
		log.Fatalf("opening inmem db: %v", err)
	}

	mailSvc := emailsvc.NewConsoleServiceMock()
	tOrgSvc = org.NewService(inmemdb.NewOrganizationRepository(db))
	tUserSvc = user.NewService(inmemdb.NewUserRepository(db), mailSvc)
	tMemberSvc = member.NewService(inmemdb.NewMemberRepository(db))
	tProgramSvc = program.NewService(inmemdb.NewProgramRepository(db))
	tEventSvc = event.NewService(inmemdb.NewEventRepository(db))
	tAuditionSvc = audition.NewService(inmemdb.NewAuditionRepository(db), tMemberSvc, tOrgSvc, mailSvc)
	dashboardSvc := dashboard.NewService(inmemdb.NewDashboardRepository(db))

	testApp = NewServer(&Options{
		DisableReqLogs: true,
		Logger:         logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
		UserSvc:        tUserSvc,
		OrgSvc:         tOrgSvc,
		MemberSvc:      tMemberSvc,
		ProgramSvc:     tProgramSvc,
		EventSvc:       tEventSvc,
		AuditionSvc:    tAuditionSvc,
		DashboardSvc:   dashboardSvc,
	})

	if err = seed(); err != nil {
		log.Fatalf("seeding test data: %v", err)
	}
	os.Exit(m.Run())
}

func seed() (err error) {
	if testOrg, err = tOrgSvc.Create(org.NewOrganization{Name: "Vox Lumina"}); err != nil {
		return err
	}
	if otherOrg, err = tOrgSvc.Create(org.NewOrganization{Name: "Cantabile Collective"}); err != nil {
		return err
	}

	if adminUsr, err = tUserSvc.Create(testOrg.ID, user.NewUser{
		Name: "Ada Admin", Username: "ada.admin", Email: "ada@example.com",
		Password: testUserPwd, PasswordConfirm: testUserPwd,
		Roles: []string{user.RoleAdmin},
	}); err != nil {
		return err
	}
	if staffUsr, err = tUserSvc.Create(testOrg.ID, user.NewUser{
		Name: "Sam Staff", Username: "sam.staff", Email: "sam@example.com",
		Password: testUserPwd, PasswordConfirm: testUserPwd,
		Roles: []string{user.RoleStaff},
	}); err != nil {
		return err
	}
	if plainUsr, err = tUserSvc.Create(testOrg.ID, user.NewUser{
		Name: "Pat Plain", Username: "pat.plain", Email: "pat@example.com",
		Password: testUserPwd, PasswordConfirm: testUserPwd,
	}); err != nil {
		return err
	}
	if otherUsr, err = tUserSvc.Create(otherOrg.ID, user.NewUser{
		Name: "Omar Other", Username: "omar.other", Email: "omar@example.com",
		Password: testUserPwd, PasswordConfirm: testUserPwd,
		Roles: []string{user.RoleStaff},
	}); err != nil {
		return err
	}
	return nil
}
