package controllers

import (
	"PinguinGuard/models"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildRecordsUsage(t *testing.T) {
	env := setupTestRouter(t)

	w := env.asChild(http.MethodPost, "/usage/child-1", gin.H{"minutes": 25})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.asChild(http.MethodPost, "/usage/child-1", gin.H{"minutes": 5, "at": testNow.Add(-time.Hour)})
	require.Equal(t, http.StatusOK, w.Code)

	var rec models.UsageRecord
	decodeData(t, env.asParent(http.MethodGet, "/usage/child-1/today", nil), &rec)
	assert.Equal(t, 30, rec.MinutesUsedToday)
	assert.Equal(t, 2, rec.SessionCount)
	assert.Equal(t, "2026-03-14", rec.Date)
}

func TestRecordUsageValidation(t *testing.T) {
	env := setupTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, env.asChild(http.MethodPost, "/usage/child-1", gin.H{"minutes": -3}).Code)
	assert.Equal(t, http.StatusBadRequest, env.asChild(http.MethodPost, "/usage/child-1", gin.H{"minutes": 1441}).Code)
	assert.Equal(t, http.StatusBadRequest, env.asChild(http.MethodPost, "/usage/child-1", gin.H{}).Code)
	// Only the child's own device reports usage.
	assert.Equal(t, http.StatusForbidden, env.asParent(http.MethodPost, "/usage/child-1", gin.H{"minutes": 3}).Code)
	assert.Equal(t, http.StatusForbidden, env.asChild(http.MethodPost, "/usage/child-2", gin.H{"minutes": 3}).Code)
}

func TestUsageHistory(t *testing.T) {
	env := setupTestRouter(t)
	require.Equal(t, http.StatusOK, env.asChild(http.MethodPost, "/usage/child-1", gin.H{"minutes": 40, "at": testNow.AddDate(0, 0, -1)}).Code)

	var history []models.UsageRecord
	decodeData(t, env.asParent(http.MethodGet, "/usage/child-1/history?days=3", nil), &history)
	require.Len(t, history, 3)
	assert.Equal(t, "2026-03-12", history[0].Date)
	assert.Equal(t, 40, history[1].MinutesUsedToday)
	assert.Equal(t, 0, history[2].MinutesUsedToday)

	decodeData(t, env.asParent(http.MethodGet, "/usage/child-1/history", nil), &history)
	assert.Len(t, history, defaultHistoryDays)

	assert.Equal(t, http.StatusBadRequest, env.asParent(http.MethodGet, "/usage/child-1/history?days=abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.asParent(http.MethodGet, "/usage/child-1/history?days=0", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.asChild(http.MethodGet, "/usage/child-1/history?days=1099511627776", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.asChild(http.MethodGet, "/usage/child-1/history?days=367", nil).Code)
}
