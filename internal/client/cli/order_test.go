package cli

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
)

func TestCli_Order_AddAndStatus(t *testing.T) {
	tc := newTestCli(t, false)

	out, err := tc.run(t, "order", "add", "-client", "Awa", "-phone", "+22997000000",
		"-item", "Sandwich poulet:2:1500", "-item", "Jus:1:500", "-paid", "3500", "-method", "cash")
	require.NoError(t, err)
	assert.Contains(t, out, "Status:  pending")
	assert.Contains(t, out, "2 x Sandwich poulet @ 1500")
	assert.Contains(t, out, "Total:   3500")
	assert.Contains(t, out, "Payment: paid (cash)")

	o := tc.onlyOrder(t)
	assert.Equal(t, models.OrderTypeTakeaway, o.Type)

	out, err = tc.run(t, "order", "status", o.ID, "ready")
	require.NoError(t, err)
	assert.Contains(t, out, "Status:  ready")

	_, err = tc.run(t, "order", "status", o.ID, "eaten")
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	_, err = tc.run(t, "order", "status", o.ID)
	assert.ErrorContains(t, err, "usage: order status")

	out, err = tc.run(t, "order", "search", "-field", "status", "-value", "ready")
	require.NoError(t, err)
	assert.Contains(t, out, "[ready] takeaway for Awa, total 3500")
}

func TestCli_Order_AddInvalid(t *testing.T) {
	tc := newTestCli(t, false)

	tests := []struct {
		name string
		args []string
		code apperrors.Code
	}{
		{
			name: "без позиций",
			args: []string{"order", "add", "-client", "Awa"},
			code: apperrors.CodeValidation,
		},
		{
			name: "доставка без адреса",
			args: []string{"order", "add", "-type", "delivery", "-client", "Awa", "-item", "Pain:1:200"},
			code: apperrors.CodeValidation,
		},
		{
			name: "неизвестный тип",
			args: []string{"order", "add", "-type", "drive", "-client", "Awa", "-item", "Pain:1:200"},
			code: apperrors.CodeValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tc.run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
		})
	}

	_, err := tc.run(t, "order", "add", "-client", "Awa", "-item", "Pain:beaucoup:200")
	assert.ErrorContains(t, err, "invalid quantity")
}

func TestCli_Order_Delivery(t *testing.T) {
	tc := newTestCli(t, false)
	_, err := tc.run(t, "address", "add", "-department", "Littoral", "-commune", "Cotonou")
	require.NoError(t, err)
	a := tc.onlyAddress(t)

	out, err := tc.run(t, "order", "add", "-type", "delivery", "-client", "Koffi",
		"-item", "Pain:2:250", "-address", a.ID, "-fee", "500", "-paid", "400")
	require.NoError(t, err)
	assert.Contains(t, out, "Address: "+a.ID)
	assert.Contains(t, out, "Total:   1000")
	assert.Contains(t, out, "Payment: partial")

	out, err = tc.run(t, "order", "search", "-field", "address_id", "-value", a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "delivery for Koffi")
}

func TestCli_Order_UpdateMergesPartialFields(t *testing.T) {
	tc := newTestCli(t, false)
	_, err := tc.run(t, "order", "add", "-client", "Awa", "-phone", "+22990000000", "-item", "Pain:1:1000")
	require.NoError(t, err)
	o := tc.onlyOrder(t)

	_, err = tc.run(t, "order", "update", o.ID, "-phone", "+22991111111", "-notes", "sans piment")
	require.NoError(t, err)

	got := tc.onlyOrder(t)
	assert.Equal(t, "Awa", got.Client.Name)
	assert.Equal(t, "+22991111111", got.Client.Phone)
	assert.Equal(t, "sans piment", got.Notes)

	_, err = tc.run(t, "order", "update", o.ID, "-item", "Pain:2:1000", "-paid", "2000")
	require.NoError(t, err)

	got = tc.onlyOrder(t)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, models.PaymentPaid, got.Payment.Status)
	assert.True(t, got.Payment.AmountPaid.Equal(decimal.NewFromInt(2000)))

	_, err = tc.run(t, "order", "update", o.ID)
	assert.ErrorContains(t, err, "nothing to update")

	_, err = tc.run(t, "order", "update", "missing", "-notes", "x")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestCli_Order_Lifecycle(t *testing.T) {
	tc := newTestCli(t, false)
	_, err := tc.run(t, "order", "add", "-client", "Awa", "-item", "Pain:1:1000")
	require.NoError(t, err)
	o := tc.onlyOrder(t)

	out, err := tc.run(t, "order", "deactivate", o.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Active:  no")

	out, err = tc.run(t, "order", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No orders found.")

	_, err = tc.run(t, "order", "activate", o.ID)
	require.NoError(t, err)

	out, err = tc.run(t, "order", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Amount:   1000")

	out, err = tc.run(t, "order", "delete", o.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+o.ID)
}

func TestItemsFlag(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    models.OrderItem
		wantErr bool
	}{
		{name: "простая позиция", value: "Pain:2:250", want: models.OrderItem{Name: "Pain", Quantity: 2, UnitPrice: decimal.NewFromInt(250)}},
		{name: "двоеточие в имени", value: "Menu: midi:1:2500.50", want: models.OrderItem{Name: "Menu: midi", Quantity: 1, UnitPrice: decimal.RequireFromString("2500.50")}},
		{name: "без цены", value: "Pain:2", wantErr: true},
		{name: "без разделителей", value: "Pain", wantErr: true},
		{name: "цена не число", value: "Pain:2:cher", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f itemsFlag
			err := f.Set(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, f, 1)
			assert.Equal(t, tt.want.Name, f[0].Name)
			assert.Equal(t, tt.want.Quantity, f[0].Quantity)
			assert.True(t, tt.want.UnitPrice.Equal(f[0].UnitPrice))
		})
	}
}

func TestPointFlag(t *testing.T) {
	var f pointFlag
	require.NoError(t, f.Set("6.3654, 2.4183"))
	require.NotNil(t, f.point)
	assert.InDelta(t, 6.3654, f.point.Lat, 1e-9)
	assert.InDelta(t, 2.4183, f.point.Lng, 1e-9)
	assert.Equal(t, "6.3654,2.4183", f.String())

	assert.Error(t, f.Set("6.36"))
	assert.Error(t, f.Set("a,b"))
	assert.Error(t, f.Set("1,b"))
}

func TestPayment(t *testing.T) {
	order := models.Order{Items: []models.OrderItem{{Name: "Pain", Quantity: 2, UnitPrice: decimal.NewFromInt(500)}}}

	tests := []struct {
		name string
		paid decimalFlag
		want models.PaymentStatus
	}{
		{name: "не указано", paid: decimalFlag{}, want: models.PaymentUnpaid},
		{name: "ноль", paid: decimalFlag{set: true}, want: models.PaymentUnpaid},
		{name: "частично", paid: decimalFlag{value: decimal.NewFromInt(400), set: true}, want: models.PaymentPartial},
		{name: "полностью", paid: decimalFlag{value: decimal.NewFromInt(1000), set: true}, want: models.PaymentPaid},
		{name: "с переплатой", paid: decimalFlag{value: decimal.NewFromInt(1500), set: true}, want: models.PaymentPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := payment(tt.paid, "cash", order)
			assert.Equal(t, tt.want, p.Status)
			assert.Equal(t, models.PaymentCash, p.Method)
		})
	}
}
