package controllers

import (
	"PinguinGuard/logger"
	"PinguinGuard/models"
	"PinguinGuard/repositories/memory"
	"PinguinGuard/services"
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Init(logger.Config{Level: "error", Output: io.Discard})
}

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	router   *gin.Engine
	policies *services.PolicyStore
	usage    *services.UsageLedger
	requests *services.UnblockRequestService
}

// setupTestRouter wires real services over in-memory storage. Requests
// authenticate with X-Test-UID and X-Test-Type instead of a JWT.
func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clockFn := func() time.Time { return testNow }
	env := &testEnv{
		policies: services.NewPolicyStore(memory.NewPolicyRepository(), services.WithStoreClock(clockFn)),
		usage: services.NewUsageLedger(memory.NewUsageRepository(),
			services.WithStoreClock(clockFn), services.WithLocation(time.UTC)),
	}
	env.requests = services.NewUnblockRequestService(memory.NewUnblockRequestRepository(), env.policies, env.usage,
		services.WithRequestClock(clockFn))

	SetClock(clockFn)
	children := memory.NewChildRepository(
		models.Child{FirebaseUID: "child-1", ParentUID: "parent-1", Name: "Маша"},
		models.Child{FirebaseUID: "child-2", ParentUID: "parent-1", Name: "Петя"},
		models.Child{FirebaseUID: "child-3", ParentUID: "parent-2", Name: "Alex"},
	)
	SetChildDirectory(children)
	SetFamilyService(services.NewFamilyService(memory.NewParentRepository(), children))
	SetPushTester(nil)
	SetPolicyService(env.policies)
	SetUsageService(env.usage)
	SetRestrictionSources(env.policies, env.usage)
	SetUnblockRequestService(env.requests)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("firebase_uid", c.GetHeader("X-Test-UID"))
		c.Set("user_type", c.GetHeader("X-Test-Type"))
	})
	r.GET("/policies/:child_uid", GetPolicy)
	r.PUT("/policies/:child_uid/block", SetBlock)
	r.PUT("/policies/:child_uid/windows", SetWindows)
	r.PUT("/policies/:child_uid/cap", SetDailyCap)
	r.POST("/usage/:child_uid", RecordUsage)
	r.GET("/usage/:child_uid/today", GetTodayUsage)
	r.GET("/usage/:child_uid/history", GetUsageHistory)
	r.GET("/restrictions/:child_uid", GetRestriction)
	r.POST("/unblock-requests", CreateUnblockRequest)
	r.GET("/unblock-requests/pending", ListPendingUnblockRequests)
	r.GET("/unblock-requests/child/:child_uid", ListChildUnblockRequests)
	r.POST("/unblock-requests/:id/respond", RespondUnblockRequest)
	r.GET("/parents/me/children", ListChildren)
	r.POST("/parents/me/children", LinkChild)
	r.PUT("/parents/me/device-token", RegisterDeviceToken)
	r.PUT("/children/me/device-token", RegisterDeviceToken)
	r.GET("/children/:child_uid", ReadChild)
	r.POST("/debug/push", TestPushNotification)
	r.GET("/debug/auth", DebugAuth)
	r.GET("/health", Health)
	env.router = r
	return env
}

func (e *testEnv) do(method, path, uid, userType string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-UID", uid)
	req.Header.Set("X-Test-Type", userType)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) asParent(method, path string, body interface{}) *httptest.ResponseRecorder {
	return e.do(method, path, "parent-1", "parent", body)
}

func (e *testEnv) asChild(method, path string, body interface{}) *httptest.ResponseRecorder {
	return e.do(method, path, "child-1", "child", body)
}

// decodeData unmarshals the "data" field of a response.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}
