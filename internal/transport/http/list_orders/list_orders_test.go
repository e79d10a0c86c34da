package listorders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webshop-labs/order-intake/internal/service/models/order"
)

type stubService struct {
	err      error
	result   []order.Order
	received order.QueryOrdersModel
}

func (s *stubService) GetOrders(_ context.Context, model order.QueryOrdersModel) ([]order.Order, error) {
	s.received = model
	if s.err != nil {
		return nil, s.err
	}

	return s.result, nil
}

func TestParseIntSlice(t *testing.T) {
	t.Parallel()

	assert.Nil(t, parseIntSlice(""))
	assert.Equal(t, []int64{1, 2, 3}, parseIntSlice("1,2,3"))
	assert.Equal(t, []int64{7}, parseIntSlice(" 7 "))
	assert.Equal(t, []int64{1, 3}, parseIntSlice("1,abc,3"))
}

func TestListOrders_ParsesQueryParams(t *testing.T) {
	t.Parallel()

	svc := &stubService{result: []order.Order{{ID: 1, UserID: 7, Status: order.StatusPending}}}

	req := httptest.NewRequest(http.MethodGet, "/api/orders?ids=1,2&userIds=7&limit=10&offset=20", nil)
	rec := httptest.NewRecorder()

	ListOrders(rec, req, svc)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{1, 2}, svc.received.Ids)
	assert.Equal(t, []int64{7}, svc.received.UserIds)
	assert.Equal(t, 10, svc.received.Limit)
	assert.Equal(t, 20, svc.received.Offset)

	var orders []order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.EqualValues(t, 1, orders[0].ID)
}

func TestListOrders_ServiceFailure(t *testing.T) {
	t.Parallel()

	svc := &stubService{err: errors.New("connection refused")}

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()

	ListOrders(rec, req, svc)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
