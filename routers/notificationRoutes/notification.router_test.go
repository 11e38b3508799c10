package notificationRoutes

import (
	"academy/config"
	"academy/database"
	"academy/middleware"
	"academy/models"
	"academy/services"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "router-test-secret"}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	SetupNotificationRoutes(app)
	return app
}

func createUser(t *testing.T, email, role string) (*models.User, string) {
	t.Helper()
	user := &models.User{Name: "Notify Tester", Email: email, Role: role, Password: "hashed"}
	require.NoError(t, database.Database.Db.Create(user).Error)
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return user, token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	payload := map[string]interface{}{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &payload))
	return resp, payload
}

func TestMarkNotificationReadEndpoint(t *testing.T) {
	app := setupApp(t)
	user, token := createUser(t, "reader@example.com", "USER")

	svc := services.NewNotificationService(database.Database.Db)
	id, err := svc.Create(user.ID, models.NotificationSystem, "Hello", "Welcome aboard", "", services.NotificationOptions{})
	require.NoError(t, err)

	resp, _ := doJSON(t, app, http.MethodPatch, "/notifications/", "", map[string]interface{}{"notificationId": id})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPatch, "/notifications/", token, map[string]interface{}{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPatch, "/notifications/", token, map[string]interface{}{"notificationId": 9999})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, payload := doJSON(t, app, http.MethodPatch, "/notifications/", token, map[string]interface{}{"notificationId": id})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, payload["status"])

	var stored models.Notification
	require.NoError(t, database.Database.Db.First(&stored, id).Error)
	assert.True(t, stored.Read)
}

func TestMarkAllReadEndpoint(t *testing.T) {
	app := setupApp(t)
	user, token := createUser(t, "bulk@example.com", "USER")

	svc := services.NewNotificationService(database.Database.Db)
	for i := 0; i < 2; i++ {
		_, err := svc.Create(user.ID, models.NotificationSystem, "Batch", "queued", "", services.NotificationOptions{})
		require.NoError(t, err)
	}

	resp, payload := doJSON(t, app, http.MethodPost, "/notifications/read-all", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := payload["data"].(map[string]interface{})
	assert.EqualValues(t, 2, data["marked"])

	list, err := svc.List(user.ID, true, 10)
	require.NoError(t, err)
	assert.Empty(t, list.Notifications)
}

func TestCreateNotificationRequiresAdmin(t *testing.T) {
	app := setupApp(t)
	target, userToken := createUser(t, "plain@example.com", "USER")
	_, adminToken := createUser(t, "admin@example.com", "ADMIN")

	body := map[string]interface{}{
		"user_id": target.ID,
		"type":    models.NotificationInstructorMessage,
		"title":   "Feedback posted",
		"message": "Your submission was reviewed",
	}

	resp, _ := doJSON(t, app, http.MethodPost, "/notifications/", userToken, body)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/notifications/", adminToken, body)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Unknown type surfaces the validation failure, not a 500
	body["type"] = "carrier_pigeon"
	resp, _ = doJSON(t, app, http.MethodPost, "/notifications/", adminToken, body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
