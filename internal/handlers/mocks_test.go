package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/tracklive/internal/db"
	"github.com/ukydev/tracklive/internal/ingest"
	"github.com/ukydev/tracklive/internal/models"
)

// MockDeviceCollection is a mock implementation of db.DeviceCollection.
type MockDeviceCollection struct {
	mock.Mock
}

func (m *MockDeviceCollection) FindOrCreate(ctx context.Context, seed models.Device) (*models.Device, error) {
	args := m.Called(ctx, seed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Device), args.Error(1)
}

func (m *MockDeviceCollection) FindByImei(ctx context.Context, imei string) (*models.Device, error) {
	args := m.Called(ctx, imei)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Device), args.Error(1)
}

func (m *MockDeviceCollection) FindAll(ctx context.Context, limit, offset int64) ([]models.Device, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Device), args.Error(1)
}

func (m *MockDeviceCollection) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockLocationCollection is a mock implementation of db.LocationCollection.
type MockLocationCollection struct {
	mock.Mock
}

func (m *MockLocationCollection) Insert(ctx context.Context, sample models.LocationData) (*models.LocationData, error) {
	args := m.Called(ctx, sample)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		out := sample
		return &out, nil
	}
	return args.Get(0).(*models.LocationData), args.Error(1)
}

func (m *MockLocationCollection) Find(ctx context.Context, filter db.LocationFilter, limit, offset int64) ([]models.LocationData, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LocationData), args.Error(1)
}

func (m *MockLocationCollection) Count(ctx context.Context, filter db.LocationFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLocationCollection) DistinctImeis(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockDeviceConfigCollection is a mock implementation of
// db.DeviceConfigCollection.
type MockDeviceConfigCollection struct {
	mock.Mock
}

func (m *MockDeviceConfigCollection) FindByImei(ctx context.Context, imei string) (*models.DeviceConfig, error) {
	args := m.Called(ctx, imei)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeviceConfig), args.Error(1)
}

func (m *MockDeviceConfigCollection) Insert(ctx context.Context, cfg models.DeviceConfig) (*models.DeviceConfig, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		out := cfg
		return &out, nil
	}
	return args.Get(0).(*models.DeviceConfig), args.Error(1)
}

func (m *MockDeviceConfigCollection) Replace(ctx context.Context, cfg models.DeviceConfig) (*models.DeviceConfig, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		out := cfg
		return &out, nil
	}
	return args.Get(0).(*models.DeviceConfig), args.Error(1)
}

func (m *MockDeviceConfigCollection) FindAll(ctx context.Context, limit, offset int64) ([]models.DeviceConfig, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DeviceConfig), args.Error(1)
}

func (m *MockDeviceConfigCollection) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDeviceConfigCollection) Delete(ctx context.Context, imei string) error {
	args := m.Called(ctx, imei)
	return args.Error(0)
}

// MockDefaultConfigCollection is a mock implementation of
// db.DefaultConfigCollection.
type MockDefaultConfigCollection struct {
	mock.Mock
}

func (m *MockDefaultConfigCollection) FindOrCreate(ctx context.Context) (*models.DefaultConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DefaultConfig), args.Error(1)
}

func (m *MockDefaultConfigCollection) Update(ctx context.Context, cfg models.DefaultConfig) (*models.DefaultConfig, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		out := cfg
		return &out, nil
	}
	return args.Get(0).(*models.DefaultConfig), args.Error(1)
}

// testAPI wires an API over fresh mocks for one test.
type testAPI struct {
	api            *API
	devices        *MockDeviceCollection
	locations      *MockLocationCollection
	deviceConfigs  *MockDeviceConfigCollection
	defaultConfigs *MockDefaultConfigCollection
}

func newTestAPI() *testAPI {
	devices := new(MockDeviceCollection)
	locations := new(MockLocationCollection)
	deviceConfigs := new(MockDeviceConfigCollection)
	defaultConfigs := new(MockDefaultConfigCollection)

	store := &db.Store{
		Devices:        devices,
		Locations:      locations,
		DeviceConfigs:  deviceConfigs,
		DefaultConfigs: defaultConfigs,
	}

	return &testAPI{
		api: &API{
			Store:  store,
			Ingest: ingest.NewService(devices, locations),
		},
		devices:        devices,
		locations:      locations,
		deviceConfigs:  deviceConfigs,
		defaultConfigs: defaultConfigs,
	}
}
