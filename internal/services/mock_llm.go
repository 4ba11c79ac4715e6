package services

import (
	"context"
	"sync"
)

// MockLLMService is a mock implementation of LLMService for testing
type MockLLMService struct {
	NameValue            string
	AvailableValue       bool
	GenerateResponseFunc func(ctx context.Context, req *GenerateRequest) (string, error)

	// Track calls for testing
	GenerateResponseCalls []GenerateRequest

	mu sync.Mutex // protects all fields above
}

var _ LLMService = (*MockLLMService)(nil)

// NewMockLLMService creates a new mock LLM service
func NewMockLLMService(name string) *MockLLMService {
	return &MockLLMService{
		NameValue:             name,
		AvailableValue:        true,
		GenerateResponseCalls: make([]GenerateRequest, 0),
	}
}

func (m *MockLLMService) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.NameValue
}

func (m *MockLLMService) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.AvailableValue
}

// GenerateResponse mocks completion generation
func (m *MockLLMService) GenerateResponse(ctx context.Context, req *GenerateRequest) (string, error) {
	m.mu.Lock()
	m.GenerateResponseCalls = append(m.GenerateResponseCalls, *req)
	fn := m.GenerateResponseFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return "mock response", nil
}

// CallCount returns how many completions were requested
func (m *MockLLMService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateResponseCalls)
}

// LastCall returns the most recent request, or nil if none were made
func (m *MockLLMService) LastCall() *GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.GenerateResponseCalls) == 0 {
		return nil
	}
	req := m.GenerateResponseCalls[len(m.GenerateResponseCalls)-1]
	return &req
}
