package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhub-dev/taskhub/internal/domain"
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

func seedProject(t *testing.T, db *gorm.DB) (models.User, models.Project) {
	t.Helper()

	creator := createTestUser(t, db, "Alice", "alice@example.com")

	project, err := NewProjectService(db).Create(creator.ID, "Alpha", "")
	require.NoError(t, err)

	return creator, *project
}

func TestMemberAdd(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	creator, project := seedProject(t, db)
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	membership, err := svc.Add(project.ID, creator.ID, bob.Email, models.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, membership.UserID)
	assert.Equal(t, models.RoleMember, membership.Role)
	assert.Equal(t, "Bob", membership.User.Name)
}

func TestMemberAddDefaultsRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	creator, project := seedProject(t, db)
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	membership, err := svc.Add(project.ID, creator.ID, bob.Email, "owner")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, membership.Role)
}

func TestMemberAddRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	creator, project := seedProject(t, db)
	bob := createTestUser(t, db, "Bob", "bob@example.com")
	carol := createTestUser(t, db, "Carol", "carol@example.com")

	_, err := svc.Add(project.ID, creator.ID, bob.Email, models.RoleMember)
	require.NoError(t, err)

	// Bob holds the member role, not admin.
	_, err = svc.Add(project.ID, bob.ID, carol.Email, models.RoleMember)
	assert.True(t, domain.IsForbidden(err))
}

func TestMemberAddDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	creator, project := seedProject(t, db)
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	_, err := svc.Add(project.ID, creator.ID, bob.Email, models.RoleMember)
	require.NoError(t, err)

	_, err = svc.Add(project.ID, creator.ID, bob.Email, models.RoleMember)
	assert.True(t, domain.IsConflict(err))
}

func TestMemberAddUnknownEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	creator, project := seedProject(t, db)

	_, err := svc.Add(project.ID, creator.ID, "ghost@example.com", models.RoleMember)
	assert.True(t, domain.IsNotFound(err))
}

func TestMemberRemoveCreatorAlwaysConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	creator, project := seedProject(t, db)
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	_, err := svc.Add(project.ID, creator.ID, bob.Email, models.RoleAdmin)
	require.NoError(t, err)

	var creatorRow models.ProjectMember
	require.NoError(t, db.Where("project_id = ? AND user_id = ?", project.ID, creator.ID).First(&creatorRow).Error)

	// Whoever asks, the creator's membership stays.
	for _, actor := range []uint{creator.ID, bob.ID} {
		err := svc.Remove(project.ID, actor, creatorRow.ID)
		assert.True(t, domain.IsConflict(err), "actor %d should get a conflict, got %v", actor, err)
	}
}

func TestMemberSelfRemoval(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	creator, project := seedProject(t, db)
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	membership, err := svc.Add(project.ID, creator.ID, bob.Email, models.RoleMember)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(project.ID, bob.ID, membership.ID))

	var count int64
	require.NoError(t, db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, bob.ID).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestMemberRemoveByNonAdminForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	creator, project := seedProject(t, db)
	bob := createTestUser(t, db, "Bob", "bob@example.com")
	carol := createTestUser(t, db, "Carol", "carol@example.com")

	_, err := svc.Add(project.ID, creator.ID, bob.Email, models.RoleMember)
	require.NoError(t, err)

	carolRow, err := svc.Add(project.ID, creator.ID, carol.Email, models.RoleMember)
	require.NoError(t, err)

	err = svc.Remove(project.ID, bob.ID, carolRow.ID)
	assert.True(t, domain.IsForbidden(err))
}

func TestMemberRemoveByAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	creator, project := seedProject(t, db)
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	membership, err := svc.Add(project.ID, creator.ID, bob.Email, models.RoleMember)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(project.ID, creator.ID, membership.ID))
}

func TestMemberUpdateRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	creator, project := seedProject(t, db)
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	membership, err := svc.Add(project.ID, creator.ID, bob.Email, models.RoleMember)
	require.NoError(t, err)

	updated, err := svc.UpdateRole(project.ID, creator.ID, membership.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
}

func TestMemberUpdateRoleUnknownValue(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	creator, project := seedProject(t, db)
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	membership, err := svc.Add(project.ID, creator.ID, bob.Email, models.RoleMember)
	require.NoError(t, err)

	_, err = svc.UpdateRole(project.ID, creator.ID, membership.ID, "overlord")
	assert.True(t, domain.IsValidation(err))
}

func TestMemberDemoteLastAdminAllowed(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db)
	creator, project := seedProject(t, db)

	var creatorRow models.ProjectMember
	require.NoError(t, db.Where("project_id = ? AND user_id = ?", project.ID, creator.ID).First(&creatorRow).Error)

	// The creator keeps derived admin access even with a member-role row.
	_, err := svc.UpdateRole(project.ID, creator.ID, creatorRow.ID, models.RoleMember)
	require.NoError(t, err)

	projects := NewProjectService(db)
	require.NoError(t, projects.Delete(creator.ID, project.ID))
}
