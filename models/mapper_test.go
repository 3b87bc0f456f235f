package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientViewRoundTrip(t *testing.T) {
	created := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	eventDate := created.Add(2 * time.Hour)
	client := Client{
		ID:                 "c-1",
		Name:               "Amina",
		PhoneNumber:        "555-0101",
		Address:            "12 Market St",
		Notes:              "regular",
		OutstandingBalance: decimal.NewFromFloat(42.50),
		Active:             true,
		CreatedAt:          created,
		UpdatedAt:          created.Add(time.Hour),
		History: []HistoryEvent{
			{
				ID:         "e-1",
				EntityKind: KindClient,
				EntityID:   "c-1",
				Date:       eventDate,
				Type:       EventPaymentMade,
				Notes:      "Payment of 10.00 via Cash",
				Amount:     decimal.NewFromInt(-10),
				RelatedID:  "p-1",
				RecordedBy: "staff-1",
			},
		},
	}

	got := client.View().Record()
	assert.Equal(t, client.ID, got.ID)
	assert.Equal(t, client.Name, got.Name)
	assert.Equal(t, client.PhoneNumber, got.PhoneNumber)
	assert.Equal(t, client.Address, got.Address)
	assert.Equal(t, client.Notes, got.Notes)
	assert.True(t, got.OutstandingBalance.Equal(client.OutstandingBalance))
	assert.Equal(t, client.Active, got.Active)
	assert.True(t, got.CreatedAt.Equal(client.CreatedAt))
	assert.True(t, got.UpdatedAt.Equal(client.UpdatedAt))

	require.Len(t, got.History, 1)
	assert.Equal(t, client.History[0].ID, got.History[0].ID)
	assert.True(t, got.History[0].Date.Equal(eventDate))
	assert.True(t, got.History[0].Amount.Equal(decimal.NewFromInt(-10)))
	assert.Equal(t, "p-1", got.History[0].RelatedID)

	// A second pass through the mapper is stable.
	assert.Equal(t, client.View(), got.View())
}

func TestSupplierViewRoundTrip(t *testing.T) {
	created := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	supplier := Supplier{
		ID:                     "s-1",
		Name:                   "PartsCo",
		ContactName:            "Leila",
		Email:                  "orders@partsco.example",
		Phone:                  "555-0199",
		PreferredPaymentMethod: MethodBankTransfer,
		OutstandingBalance:     decimal.NewFromInt(300),
		Active:                 true,
		CreatedAt:              created,
		UpdatedAt:              created,
	}

	got := supplier.View().Record()
	assert.Equal(t, supplier.Name, got.Name)
	assert.Equal(t, supplier.ContactName, got.ContactName)
	assert.Equal(t, supplier.PreferredPaymentMethod, got.PreferredPaymentMethod)
	assert.True(t, got.OutstandingBalance.Equal(supplier.OutstandingBalance))
	assert.Equal(t, supplier.View(), got.View())
}

func TestViewDefaultsMissingOptionals(t *testing.T) {
	// A bare record still maps: zero balance, empty (not nil) history.
	view := Client{ID: "c-2", Name: "Bare"}.View()
	assert.NotNil(t, view.History)
	assert.Len(t, view.History, 0)
	assert.True(t, view.OutstandingBalance.IsZero())

	// A view with garbage timestamps still maps back without failing.
	view.CreatedAt = "not-a-date"
	got := view.Record()
	assert.True(t, got.CreatedAt.IsZero())
}

func TestViewSerializesCamelCase(t *testing.T) {
	item := InventoryItem{
		ID:              "i-1",
		ItemName:        "screen",
		QuantityInStock: 4,
	}
	raw, err := json.Marshal(item.View())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "itemName")
	assert.Contains(t, fields, "quantityInStock")
	assert.NotContains(t, fields, "item_name")

	// Storage shape keeps snake_case.
	raw, err = json.Marshal(item)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "item_name")
}

func TestPurchaseOrderViewDecodesSnapshot(t *testing.T) {
	lines := []OrderItem{
		{ItemID: "i-1", ItemName: "screen", Quantity: 3, UnitCost: decimal.NewFromInt(40), LineTotal: decimal.NewFromInt(120)},
		{ItemID: "i-2", ItemName: "battery", Quantity: 2, UnitCost: decimal.NewFromFloat(25.50), LineTotal: decimal.NewFromInt(51)},
	}
	snapshot, err := json.Marshal(lines)
	require.NoError(t, err)

	order := PurchaseOrder{
		ID:          "o-1",
		SupplierID:  "s-1",
		Items:       snapshot,
		TotalAmount: decimal.NewFromInt(171),
		CreatedAt:   time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC),
	}

	v := order.View()
	require.Len(t, v.Items, 2)
	assert.Equal(t, "screen", v.Items[0].ItemName)
	assert.True(t, v.Items[1].LineTotal.Equal(decimal.NewFromInt(51)))
	assert.True(t, v.TotalAmount.Equal(order.TotalAmount))

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "supplierId")
	assert.Contains(t, fields, "totalAmount")

	// A corrupt snapshot maps to an empty line list, not an error.
	order.Items = []byte("{broken")
	assert.Empty(t, order.View().Items)
	assert.NotNil(t, order.View().Items)
}

func TestExpenseViewOmitsUnlinkedSession(t *testing.T) {
	expense := Expense{
		ID:          "x-1",
		Description: "courier run",
		Amount:      decimal.NewFromInt(15),
		Date:        time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC),
	}
	v := expense.View()
	assert.Empty(t, v.SessionID)

	sid := "sess-1"
	expense.SessionID = &sid
	assert.Equal(t, "sess-1", expense.View().SessionID)
}

func TestRepairViewDerivesPaymentFigures(t *testing.T) {
	repair := Repair{
		ID:         "r-1",
		ClientName: "Karim",
		LaborCost:  decimal.NewFromInt(40),
		PartsCost:  decimal.NewFromInt(60),
		TotalCost:  decimal.NewFromInt(100),
	}

	v := repair.View()
	assert.Equal(t, PaymentUnpaid, v.PaymentStatus)
	assert.True(t, v.RemainingBalance.Equal(decimal.NewFromInt(100)))

	repair.Payments = []Payment{{Amount: decimal.NewFromInt(30)}}
	v = repair.View()
	assert.Equal(t, PaymentPartiallyPaid, v.PaymentStatus)
	assert.True(t, v.TotalPaid.Equal(decimal.NewFromInt(30)))
	assert.True(t, v.RemainingBalance.Equal(decimal.NewFromInt(70)))

	repair.Payments = append(repair.Payments, Payment{Amount: decimal.NewFromInt(70)})
	v = repair.View()
	assert.Equal(t, PaymentPaid, v.PaymentStatus)
	assert.True(t, v.RemainingBalance.IsZero())
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []string{MethodCash, MethodCreditCard, MethodBankTransfer, MethodCheck, MethodOther} {
		assert.True(t, ValidPaymentMethod(m), m)
	}
	assert.False(t, ValidPaymentMethod("Barter"))
	assert.False(t, ValidPaymentMethod(""))
	assert.False(t, ValidPaymentMethod("cash"))
}
