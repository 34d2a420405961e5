package mockservice

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockMediaUploader is a mock type for the MediaUploader type
type MockMediaUploader struct {
	mock.Mock
}

type MockMediaUploader_Expecter struct {
	mock *mock.Mock
}

func (_m *MockMediaUploader) EXPECT() *MockMediaUploader_Expecter {
	return &MockMediaUploader_Expecter{mock: &_m.Mock}
}

// Upload provides a mock function with given fields: ctx, localPath, folder
func (_m *MockMediaUploader) Upload(ctx context.Context, localPath string, folder string) (*entity.Image, error) {
	ret := _m.Called(ctx, localPath, folder)

	if len(ret) == 0 {
		panic("no return value specified for Upload")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, string) (*entity.Image, error)); ok {
		return rf(ctx, localPath, folder)
	}

	var r0 *entity.Image
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Image)
	}

	return r0, ret.Error(1)
}

type MockMediaUploader_Upload_Call struct {
	*mock.Call
}

// Upload is a helper method to define mock.On call
func (_e *MockMediaUploader_Expecter) Upload(ctx any, localPath any, folder any) *MockMediaUploader_Upload_Call {
	return &MockMediaUploader_Upload_Call{Call: _e.mock.On("Upload", ctx, localPath, folder)}
}

func (_c *MockMediaUploader_Upload_Call) Return(_a0 *entity.Image, _a1 error) *MockMediaUploader_Upload_Call {
	_c.Call.Return(_a0, _a1)

	return _c
}

func (_c *MockMediaUploader_Upload_Call) RunAndReturn(run func(context.Context, string, string) (*entity.Image, error)) *MockMediaUploader_Upload_Call {
	_c.Call.Return(run)

	return _c
}

// Delete provides a mock function with given fields: ctx, id
func (_m *MockMediaUploader) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for Delete")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		return rf(ctx, id)
	}

	return ret.Error(0)
}

type MockMediaUploader_Delete_Call struct {
	*mock.Call
}

// Delete is a helper method to define mock.On call
func (_e *MockMediaUploader_Expecter) Delete(ctx any, id any) *MockMediaUploader_Delete_Call {
	return &MockMediaUploader_Delete_Call{Call: _e.mock.On("Delete", ctx, id)}
}

func (_c *MockMediaUploader_Delete_Call) Return(_a0 error) *MockMediaUploader_Delete_Call {
	_c.Call.Return(_a0)

	return _c
}

// NewMockMediaUploader creates a new instance of MockMediaUploader. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockMediaUploader(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMediaUploader {
	m := &MockMediaUploader{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
