package api

import "context"

// MockClient is a test double for Client. Each operation delegates to the
// corresponding func field when set and records the call either way.
type MockClient struct {
	SendMessageFunc     func(ctx context.Context, req MessageRequest) (*MessageResponse, error)
	SendChatMessageFunc func(ctx context.Context, req MessageRequest) (*MessageResponse, error)
	FetchGoalPlanFunc   func(ctx context.Context, goalID int) (*GoalPlan, error)
	FetchGreetingFunc   func(ctx context.Context, userID int) (*GreetingResponse, error)
	FetchHistoryFunc    func(ctx context.Context, userID, limit, beforeID int) (*HistoryResponse, error)
	SkipOnboardingFunc  func(ctx context.Context, userID int) (*SkipResponse, error)

	SentMessages   []MessageRequest
	ChatMessages   []MessageRequest
	PlanFetches    []int
	HistoryFetches [][3]int
	SkipCalls      []int
}

// SendMessage records the request and delegates to SendMessageFunc.
func (m *MockClient) SendMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	m.SentMessages = append(m.SentMessages, req)
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, req)
	}
	return &MessageResponse{Reply: "", Stage: StageOperator, PendingClientActions: nil}, nil
}

// SendChatMessage records the request and delegates to SendChatMessageFunc.
func (m *MockClient) SendChatMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	m.ChatMessages = append(m.ChatMessages, req)
	if m.SendChatMessageFunc != nil {
		return m.SendChatMessageFunc(ctx, req)
	}
	return &MessageResponse{Reply: "", PendingClientActions: nil}, nil
}

// FetchGoalPlan records the goal ID and delegates to FetchGoalPlanFunc.
func (m *MockClient) FetchGoalPlan(ctx context.Context, goalID int) (*GoalPlan, error) {
	m.PlanFetches = append(m.PlanFetches, goalID)
	if m.FetchGoalPlanFunc != nil {
		return m.FetchGoalPlanFunc(ctx, goalID)
	}
	return &GoalPlan{GoalID: goalID}, nil
}

// FetchGreeting delegates to FetchGreetingFunc.
func (m *MockClient) FetchGreeting(ctx context.Context, userID int) (*GreetingResponse, error) {
	if m.FetchGreetingFunc != nil {
		return m.FetchGreetingFunc(ctx, userID)
	}
	return &GreetingResponse{Greeting: "你好！"}, nil
}

// FetchHistory records the page parameters and delegates to FetchHistoryFunc.
func (m *MockClient) FetchHistory(ctx context.Context, userID, limit, beforeID int) (*HistoryResponse, error) {
	m.HistoryFetches = append(m.HistoryFetches, [3]int{userID, limit, beforeID})
	if m.FetchHistoryFunc != nil {
		return m.FetchHistoryFunc(ctx, userID, limit, beforeID)
	}
	return &HistoryResponse{}, nil
}

// SkipOnboarding records the user ID and delegates to SkipOnboardingFunc.
func (m *MockClient) SkipOnboarding(ctx context.Context, userID int) (*SkipResponse, error) {
	m.SkipCalls = append(m.SkipCalls, userID)
	if m.SkipOnboardingFunc != nil {
		return m.SkipOnboardingFunc(ctx, userID)
	}
	return &SkipResponse{Status: "ok"}, nil
}

var _ Client = (*MockClient)(nil)
