package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/internal/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newHandlerDB swaps the package-level connection for an in-memory one so
// handlers under test hit an isolated database.
func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.Note{},
	))

	previous := db.DB
	db.DB = conn
	t.Cleanup(func() { db.DB = previous })

	return conn
}

func forceUser(user middleware.AuthenticatedUser) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(types.ContextUserKey, user)
		ctx.Next()
	}
}

func TestUpdateMemberRoleBroadcastsRefresh(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conn := newHandlerDB(t)

	alice := models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x", Role: models.GlobalRoleUser}
	require.NoError(t, conn.Create(&alice).Error)
	bob := models.User{Name: "Bob", Email: "bob@example.com", PasswordHash: "x", Role: models.GlobalRoleUser}
	require.NoError(t, conn.Create(&bob).Error)

	project, err := services.NewProjectService(conn).Create(alice.ID, "Alpha", "")
	require.NoError(t, err)

	membership, err := services.NewMemberService(conn).Add(project.ID, alice.ID, bob.Email, models.RoleMember)
	require.NoError(t, err)

	actor := middleware.AuthenticatedUser{ID: alice.ID, Name: alice.Name, Email: alice.Email, Role: alice.Role}

	router := gin.New()
	router.GET("/ws/:project_id", forceUser(actor), WebSocket)
	router.PATCH("/projects/:project_id/members/:member_id", forceUser(actor), UpdateMemberRole)

	server := httptest.NewServer(router)
	defer server.Close()

	// Subscribe with a zero-padded path parameter. The registry must file
	// the connection under the canonical id so broadcasters can reach it.
	wsURL := fmt.Sprintf("%s/ws/%03d", strings.Replace(server.URL, "http", "ws", 1), project.ID)
	header := http.Header{"Origin": []string{"http://localhost:3000"}}

	ws, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer ws.Close()

	key := projectKey(project.ID)
	require.Eventually(t, func() bool {
		projectClientsMu.RLock()
		defer projectClientsMu.RUnlock()
		return len(projectClients[key]) == 1
	}, time.Second, 10*time.Millisecond, "subscriber never registered under canonical key")

	body := strings.NewReader(`{"role":"admin"}`)
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/projects/%d/members/%d", project.ID, membership.ID), body)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(time.Second)))

	var event map[string]string
	require.NoError(t, ws.ReadJSON(&event), "role change should push a refresh to subscribers")
	assert.Equal(t, "refresh", event["type"])
	assert.Equal(t, key, event["project_id"])
}
