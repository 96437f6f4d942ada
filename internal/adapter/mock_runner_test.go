package adapter

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCommandRunner is a testify mock of CommandRunner for adapter tests.
type MockCommandRunner struct {
	mock.Mock
}

func (m *MockCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error) {
	ret := m.Called(ctx, name, args)

	var stdout, stderr []byte
	if ret.Get(0) != nil {
		stdout = ret.Get(0).([]byte)
	}

	if ret.Get(1) != nil {
		stderr = ret.Get(1).([]byte)
	}

	return stdout, stderr, ret.Int(2), ret.Error(3)
}

func (m *MockCommandRunner) LookPath(name string) (string, error) {
	ret := m.Called(name)
	return ret.String(0), ret.Error(1)
}
