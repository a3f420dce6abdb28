package bfplib_test

import (
	"context"
	"net"

	"github.com/stretchr/testify/mock"

	"github.com/ShivanshGhelani/BFP/bfplib"
)

type GeocodeProviderMock struct {
	mock.Mock
}

func (m *GeocodeProviderMock) Name() string {
	return m.Called().String(0)
}

func (m *GeocodeProviderMock) ReverseGeocode(ctx context.Context, coords bfplib.Coordinates) (bfplib.PartialLocation, error) {
	args := m.Called(ctx, coords)

	return args.Get(0).(bfplib.PartialLocation), args.Error(1)
}

type IPProviderMock struct {
	mock.Mock
}

func (m *IPProviderMock) Name() string {
	return m.Called().String(0)
}

func (m *IPProviderMock) LookupIP(ctx context.Context, ip net.IP) (bfplib.PartialLocation, error) {
	args := m.Called(ctx, ip)

	return args.Get(0).(bfplib.PartialLocation), args.Error(1)
}

type PublicIPProviderMock struct {
	mock.Mock
}

func (m *PublicIPProviderMock) Name() string {
	return m.Called().String(0)
}

func (m *PublicIPProviderMock) PublicIP(ctx context.Context) (net.IP, error) {
	args := m.Called(ctx)

	if ip := args.Get(0); ip != nil {
		return ip.(net.IP), args.Error(1)
	}

	return nil, args.Error(1)
}

type LoggerMock struct {
	mock.Mock
}

func (m *LoggerMock) LookupError(name string, err error) {
	m.Called(name, err)
}

func (m *LoggerMock) ResolveError(err error) {
	m.Called(err)
}

func (m *LoggerMock) StoreError(err error) {
	m.Called(err)
}

type VisitorStoreMock struct {
	mock.Mock
}

func (m *VisitorStoreMock) UpsertVisit(ctx context.Context, visitorID string, visit bfplib.VisitorRecord) (bfplib.VisitorRecord, error) {
	args := m.Called(ctx, visitorID, visit)

	return args.Get(0).(bfplib.VisitorRecord), args.Error(1)
}

func (m *VisitorStoreMock) InsertVisit(ctx context.Context, visit bfplib.VisitorRecord) error {
	return m.Called(ctx, visit).Error(0)
}

func (m *VisitorStoreMock) CountVisits(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Error(1)
}

func (m *VisitorStoreMock) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
