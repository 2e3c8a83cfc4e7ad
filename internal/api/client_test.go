package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinglabs/companion/internal/action"
)

func TestSendMessage(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody MessageRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"reply": "好的，我们开始吧",
			"stage": "operator",
			"goal_completed": false,
			"pending_client_actions": [
				{"tool": "alarm_manager", "action": "create_alarm", "params": {"time": "07:30"}}
			]
		}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithAuthToken("tok-123"))

	resp, err := client.SendMessage(context.Background(), MessageRequest{UserID: 42, Message: "我想学吉他"})
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/goals/onboarding/message", gotPath)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, 42, gotBody.UserID)
	assert.Equal(t, "我想学吉他", gotBody.Message)

	assert.Equal(t, "好的，我们开始吧", resp.Reply)
	assert.Equal(t, StageOperator, resp.Stage)
	require.Len(t, resp.PendingClientActions, 1)
	assert.Equal(t, action.ToolAlarm, resp.PendingClientActions[0].Tool)
}

func TestSendChatMessage(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"reply": "今天过得怎么样？", "pending_client_actions": []}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	resp, err := client.SendChatMessage(context.Background(), MessageRequest{UserID: 42, Message: "你好"})
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/chat/message", gotPath)
	assert.Equal(t, "今天过得怎么样？", resp.Reply)
	assert.NotNil(t, resp.PendingClientActions)
}

func TestSendMessageNormalizesMissingActions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"reply": "hi", "stage": "operator", "goal_completed": false}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	resp, err := client.SendMessage(context.Background(), MessageRequest{UserID: 1, Message: "hi"})
	require.NoError(t, err)

	assert.NotNil(t, resp.PendingClientActions)
	assert.Empty(t, resp.PendingClientActions)
}

func TestSendMessageServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	_, err := client.SendMessage(context.Background(), MessageRequest{UserID: 1, Message: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSendMessageMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"reply": `))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	_, err := client.SendMessage(context.Background(), MessageRequest{UserID: 1, Message: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestFetchGoalPlan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/goals/7/plan", r.URL.Path)
		w.Write([]byte(`{
			"goal_id": 7,
			"title": "学会吉他",
			"milestones": [
				{"id": 1, "title": "基础和弦", "tasks": [
					{"id": 10, "title": "每天练习30分钟", "frequency": "daily", "status": "pending"}
				]}
			]
		}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	plan, err := client.FetchGoalPlan(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 7, plan.GoalID)
	assert.True(t, plan.HasMilestones())
	assert.True(t, plan.HasTasks())
}

func TestGoalPlanEmptyChecks(t *testing.T) {
	empty := &GoalPlan{GoalID: 1}
	assert.False(t, empty.HasMilestones())
	assert.False(t, empty.HasTasks())

	noTasks := &GoalPlan{GoalID: 1, Milestones: []GoalPlanMilestone{{ID: 1, Title: "m"}}}
	assert.True(t, noTasks.HasMilestones())
	assert.False(t, noTasks.HasTasks())
}

func TestFetchHistoryQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chat/history", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("user_id"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "99", r.URL.Query().Get("before_id"))
		w.Write([]byte(`{"messages": [{"id": 98, "role": "user", "content": "hi", "created_at": "2026-03-14T09:00:00Z"}], "has_more": false}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	resp, err := client.FetchHistory(context.Background(), 42, 50, 99)
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "user", resp.Messages[0].Role)
}

func TestSkipOnboarding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/goals/onboarding/skip", r.URL.Path)
		var body skipRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 42, body.UserID)
		w.Write([]byte(`{"status": "ok", "message": "skipped"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	resp, err := client.SkipOnboarding(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
}

func TestExtractReplyText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "你好", "你好"},
		{"whitespace", "  你好  \n", "你好"},
		{"nested json", `{"reply": "内层回复", "stage": "done"}`, "内层回复"},
		{"json prefix", `json {"reply": "内层回复"}`, "内层回复"},
		{"uppercase prefix", `JSON{"reply": "内层回复"}`, "内层回复"},
		{"braces but not envelope", `{"other": "value"}`, `{"other": "value"}`},
		{"malformed json", `{"reply": `, `{"reply":`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractReplyText(tt.in))
		})
	}
}
