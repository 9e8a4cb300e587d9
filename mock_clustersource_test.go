// Source: file.go (interfaces: clusterSource)

package fat12

import (
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"
)

// MockclusterSource is a mock of the clusterSource interface, hand-written in
// the same shape mockgen would produce (as the teacher checks in for its own
// fatFileFs mock). Regenerate with:
//
//	mockgen -source=file.go -destination=mock_clustersource_test.go -package=fat12
type MockclusterSource struct {
	ctrl     *gomock.Controller
	recorder *MockclusterSourceMockRecorder
}

// MockclusterSourceMockRecorder is the mock recorder for MockclusterSource.
type MockclusterSourceMockRecorder struct {
	mock *MockclusterSource
}

// NewMockclusterSource creates a new mock instance.
func NewMockclusterSource(ctrl *gomock.Controller) *MockclusterSource {
	mock := &MockclusterSource{ctrl: ctrl}
	mock.recorder = &MockclusterSourceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockclusterSource) EXPECT() *MockclusterSourceMockRecorder {
	return m.recorder
}

// readClusterRange mocks base method.
func (m *MockclusterSource) readClusterRange(chain clusterChain, bytesPerCluster uint32, offset, want int64) ([]byte, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "readClusterRange", chain, bytesPerCluster, offset, want)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// readClusterRange indicates an expected call of readClusterRange.
func (mr *MockclusterSourceMockRecorder) readClusterRange(chain, bytesPerCluster, offset, want interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "readClusterRange", reflect.TypeOf((*MockclusterSource)(nil).readClusterRange), chain, bytesPerCluster, offset, want)
}
