package procurement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/memory"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/store"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	st := memory.NewStore()
	require.NoError(t, st.Set(context.Background(), store.Suppliers, "sup-1", models.Supplier{SupplierID: "sup-1", Name: "Acacia Seeds", SupplierCode: "ASC"}))
	return NewService(st, nil), st
}

func orderInput() models.PurchaseOrderInput {
	return models.PurchaseOrderInput{
		SupplierID: "sup-1",
		Items: []models.PurchaseOrderItem{
			{Description: "Eucalyptus seed", Quantity: 4, PricePerUnit: 12.5, ItemDiscount: 2},
			{Description: "Seed trays", Quantity: 10, PricePerUnit: 3},
		},
		OrderDiscount: 5,
	}
}

func TestCreatePurchaseOrderPrices(t *testing.T) {
	svc, _ := newTestService(t)

	po, err := svc.CreatePurchaseOrder(context.Background(), orderInput())
	require.NoError(t, err)
	assert.Equal(t, 48.0, po.Items[0].LineTotal)
	assert.Equal(t, 30.0, po.Items[1].LineTotal)
	assert.Equal(t, 78.0, po.Subtotal)
	assert.Equal(t, 73.0, po.TotalAmount)
	assert.Equal(t, models.POStatusOrdered, po.Status)
}

func TestCreatePurchaseOrderUnknownSupplier(t *testing.T) {
	svc, st := newTestService(t)
	in := orderInput()
	in.SupplierID = "sup-404"

	_, err := svc.CreatePurchaseOrder(context.Background(), in)
	require.ErrorIs(t, err, models.ErrNotFound)

	orders, err := store.List[models.PurchaseOrder](context.Background(), st, store.PurchaseOrders, nil)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestReceiveGoodsPartialThenComplete(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	po, err := svc.CreatePurchaseOrder(ctx, orderInput())
	require.NoError(t, err)

	_, updated, err := svc.ReceiveGoods(ctx, po.PurchaseOrderID, models.IncomingGoodsInput{
		ReceivedBy: "Sam",
		Lines:      []models.ReceivedLine{{LineIndex: 0, QuantityReceived: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.POStatusPartiallyReceived, updated.Status)

	entry, updated, err := svc.ReceiveGoods(ctx, po.PurchaseOrderID, models.IncomingGoodsInput{
		ReceivedBy: "Sam",
		Lines:      []models.ReceivedLine{{LineIndex: 1, QuantityReceived: 10, Condition: "good"}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.POStatusReceived, updated.Status)

	logs, err := store.List[models.IncomingGoodsLog](ctx, st, store.IncomingGoods, store.Filter{"purchaseOrderId": po.PurchaseOrderID})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
	assert.Equal(t, entry.LogID, logs[1].LogID)

	_, err = svc.Cancel(ctx, po.PurchaseOrderID)
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestReceiveGoodsBadLineWritesNothing(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	po, err := svc.CreatePurchaseOrder(ctx, orderInput())
	require.NoError(t, err)

	_, _, err = svc.ReceiveGoods(ctx, po.PurchaseOrderID, models.IncomingGoodsInput{
		ReceivedBy: "Sam",
		Lines:      []models.ReceivedLine{{LineIndex: 0, QuantityReceived: 1}, {LineIndex: 7, QuantityReceived: 1}},
	})
	require.ErrorIs(t, err, models.ErrValidation)

	loaded, err := svc.GetPurchaseOrder(ctx, po.PurchaseOrderID)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Items[0].QuantityReceived)
	logs, err := store.List[models.IncomingGoodsLog](ctx, st, store.IncomingGoods, nil)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCancelledOrderRejectsReceipt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	po, err := svc.CreatePurchaseOrder(ctx, orderInput())
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, po.PurchaseOrderID)
	require.NoError(t, err)
	assert.Equal(t, models.POStatusCancelled, cancelled.Status)

	_, _, err = svc.ReceiveGoods(ctx, po.PurchaseOrderID, models.IncomingGoodsInput{
		ReceivedBy: "Sam",
		Lines:      []models.ReceivedLine{{LineIndex: 0, QuantityReceived: 1}},
	})
	require.ErrorIs(t, err, models.ErrValidation)

	open, err := svc.ListPurchaseOrders(ctx, models.POStatusOrdered)
	require.NoError(t, err)
	assert.Empty(t, open)
}
