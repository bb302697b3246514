package member_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorale-hq/chorale/core/member"
	"github.com/chorale-hq/chorale/core/org"
	inmemdb "github.com/chorale-hq/chorale/storage/database/inmem"
)

func newMemberEnv(t *testing.T) (member.Service, org.Organization, org.Organization) {
	t.Helper()

	db, err := inmemdb.Open()
	require.NoError(t, err)

	orgSvc := org.NewService(inmemdb.NewOrganizationRepository(db))
	o, err := orgSvc.Create(org.NewOrganization{Name: "Vox Lumina"})
	require.NoError(t, err)
	o2, err := orgSvc.Create(org.NewOrganization{Name: "Cantabile"})
	require.NoError(t, err)

	return member.NewService(inmemdb.NewMemberRepository(db)), o, o2
}

func TestMemberGetOrCreateByEmail(t *testing.T) {
	svc, o, o2 := newMemberEnv(t)

	m, err := svc.GetOrCreateByEmail(o.ID, " Awa ", "Diallo", "  AWA.Diallo@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "awa.diallo@example.com", m.Email)
	assert.Equal(t, "Awa", m.FirstName)
	assert.Equal(t, member.RoleMember, m.Role)
	assert.True(t, m.IsActive)

	t.Run("matching is case-insensitive", func(t *testing.T) {
		again, err := svc.GetOrCreateByEmail(o.ID, "Different", "Name", "awa.diallo@EXAMPLE.com")
		require.NoError(t, err)
		assert.Equal(t, m.ID, again.ID)
		// existing details win over the new submission
		assert.Equal(t, "Awa", again.FirstName)
	})

	t.Run("another org gets its own record", func(t *testing.T) {
		other, err := svc.GetOrCreateByEmail(o2.ID, "Awa", "Diallo", "awa.diallo@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, m.ID, other.ID)
		assert.Equal(t, o2.ID, other.OrgID)
	})
}

func TestMemberFilter(t *testing.T) {
	svc, o, _ := newMemberEnv(t)

	seedData := []member.NewMember{
		{FirstName: "Awa", LastName: "Diallo", Email: "awa@example.com", VoicePart: member.VoiceAlto},
		{FirstName: "Ben", LastName: "Osei", Email: "ben@example.com", VoicePart: member.VoiceTenor},
		{FirstName: "Chiara", LastName: "Rossi", Email: "chiara@example.com", VoicePart: member.VoiceAlto},
	}
	for i := range seedData {
		_, err := svc.Create(o.ID, seedData[i])
		require.NoError(t, err)
	}
	inactive := false
	benID := 0

	t.Run("by voice part", func(t *testing.T) {
		altos, err := svc.Filter(o.ID, member.QueryFilter{VoicePart: member.VoiceAlto})
		require.NoError(t, err)
		assert.Len(t, altos, 2)
	})

	t.Run("by name search", func(t *testing.T) {
		got, err := svc.Filter(o.ID, member.QueryFilter{Search: "osei"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Ben", got[0].FirstName)
		benID = got[0].ID
	})

	t.Run("by active flag", func(t *testing.T) {
		_, err := svc.Update(benID, o.ID, member.UpdateMember{IsActive: &inactive})
		require.NoError(t, err)

		got, err := svc.Filter(o.ID, member.QueryFilter{IsActive: &inactive})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, benID, got[0].ID)
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		got, err := svc.Filter(o.ID, member.QueryFilter{Search: "example.com", VoicePart: member.VoiceTenor})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, benID, got[0].ID)
	})
}
