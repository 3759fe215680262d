package llm

import "context"

// MockClient permite tests sin llamar al modelo real.
type MockClient struct {
	Response string
	Err      error
	Prompts  []string
}

func (m *MockClient) Generate(_ context.Context, message string) (string, error) {
	m.Prompts = append(m.Prompts, message)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
