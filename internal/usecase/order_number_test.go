package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNextOrderNumber_Format(t *testing.T) {
	counters := new(OrderCounterRepoMock)
	counters.On("NextSequence", mock.Anything, "20260315").Return(int64(7), nil)

	now := time.Date(2026, 3, 15, 23, 59, 0, 0, time.Local)

	got, err := nextOrderNumber(context.Background(), counters, "FA", now)
	assert.NoError(t, err)
	assert.Equal(t, "FA202603150007", got)
}

// その日最初の注文は0001
func TestNextOrderNumber_FirstOfDay(t *testing.T) {
	counters := new(OrderCounterRepoMock)
	counters.On("NextSequence", mock.Anything, "20260316").Return(int64(1), nil)

	now := time.Date(2026, 3, 16, 0, 0, 1, 0, time.Local)

	got, err := nextOrderNumber(context.Background(), counters, "FA", now)
	assert.NoError(t, err)
	assert.Equal(t, "FA202603160001", got)
}

func TestNextOrderNumber_ZeroPadding(t *testing.T) {
	counters := new(OrderCounterRepoMock)
	counters.On("NextSequence", mock.Anything, "20260315").Return(int64(123), nil)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	got, err := nextOrderNumber(context.Background(), counters, "FA", now)
	assert.NoError(t, err)
	assert.Equal(t, "FA202603150123", got)
}

func TestNextOrderNumber_LastOfDay(t *testing.T) {
	counters := new(OrderCounterRepoMock)
	counters.On("NextSequence", mock.Anything, "20260315").Return(int64(9999), nil)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	got, err := nextOrderNumber(context.Background(), counters, "FA", now)
	assert.NoError(t, err)
	assert.Equal(t, "FA202603159999", got)
}

// 10000件目はエラー（番号の使い回しはしない）
func TestNextOrderNumber_Overflow(t *testing.T) {
	counters := new(OrderCounterRepoMock)
	counters.On("NextSequence", mock.Anything, "20260315").Return(int64(10000), nil)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	_, err := nextOrderNumber(context.Background(), counters, "FA", now)
	assertErrCode(t, err, CodeSequenceOverflow)
}
