package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhyhn5012/tccb/internal/model"
	"github.com/dhyhn5012/tccb/internal/parser"
)

func sampleSession() *Session {
	return &Session{
		ID:         "4f1c2a",
		Filename:   "lich_truc.xlsx",
		Format:     "xlsx",
		UploadedAt: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		Roster: &model.Roster{
			Columns: []model.ShiftColumn{{Key: "T7", Kind: model.ColumnWeekend, Tag: "T7"}},
			Records: []model.ShiftRecord{{Department: "Khoa Nội", EmployeeName: "Nguyễn Văn A", Shifts: map[string]string{"T7": "X"}}},
		},
		Report:   &parser.ImportReport{Filename: "lich_truc.xlsx", TotalSheets: 1, ImportedSheets: 1, Sheets: []parser.ParseResult{}},
		Warnings: []string{},
	}
}

func TestRedisStore_Put(t *testing.T) {
	t.Parallel()

	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, 30*time.Minute)
	sess := sampleSession()

	data, err := json.Marshal(sess)
	require.NoError(t, err)
	mock.ExpectSet(KeyPrefix+sess.ID, string(data), 30*time.Minute).SetVal("OK")

	require.NoError(t, store.Put(context.Background(), sess))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Get(t *testing.T) {
	t.Parallel()

	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, time.Minute)
	sess := sampleSession()

	data, err := json.Marshal(sess)
	require.NoError(t, err)
	mock.ExpectGet(KeyPrefix + sess.ID).SetVal(string(data))

	got, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "lich_truc.xlsx", got.Filename)
	require.Len(t, got.Roster.Records, 1)
	assert.Equal(t, "X", got.Roster.Records[0].Shift("T7"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_GetMissing(t *testing.T) {
	t.Parallel()

	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, time.Minute)
	mock.ExpectGet(KeyPrefix + "missing").RedisNil()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Errors(t *testing.T) {
	t.Parallel()

	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, time.Minute)

	mock.ExpectGet(KeyPrefix + "broken").SetVal("{not json")
	_, err := store.Get(context.Background(), "broken")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	mock.ExpectDel(KeyPrefix + "gone").SetErr(errors.New("connection refused"))
	err = store.Delete(context.Background(), "gone")
	assert.ErrorContains(t, err, "connection refused")
}

// cannedGet answers GET commands from a fixed value and records whether the
// command context was already cancelled.
type cannedGet struct {
	value     string
	cancelled bool
}

func (h *cannedGet) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *cannedGet) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.cancelled = ctx.Err() != nil
		if c, ok := cmd.(*redis.StringCmd); ok {
			c.SetVal(h.value)
		}
		return nil
	}
}

func (h *cannedGet) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedisStore_GetIgnoresCallerCancellation(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(sampleSession())
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer func() { _ = client.Close() }()
	hook := &cannedGet{value: string(data)}
	client.AddHook(hook)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := NewRedisStore(client, time.Minute).Get(ctx, "4f1c2a")
	require.NoError(t, err)
	assert.Equal(t, "Nguyễn Văn A", got.Roster.Records[0].EmployeeName)
	assert.False(t, hook.cancelled, "shared lookup must not inherit the caller's cancellation")
}
