package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{InvoiceStatusDraft, InvoiceStatusIssued, true},
		{InvoiceStatusDraft, InvoiceStatusCancelled, true},
		{InvoiceStatusDraft, InvoiceStatusPaid, false},
		{InvoiceStatusIssued, InvoiceStatusPaid, true},
		{InvoiceStatusIssued, InvoiceStatusCancelled, true},
		{InvoiceStatusIssued, InvoiceStatusDraft, false},
		{InvoiceStatusPaid, InvoiceStatusCancelled, false},
		{InvoiceStatusPaid, InvoiceStatusIssued, false},
		{InvoiceStatusCancelled, InvoiceStatusDraft, false},
		{InvoiceStatusCancelled, InvoiceStatusIssued, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, ValidCurrency(CurrencyCZK))
	assert.True(t, ValidCurrency(CurrencyEUR))
	assert.False(t, ValidCurrency("USD"))
	assert.False(t, ValidCurrency("czk"), "sensible a mayúsculas: los DTO normalizan antes")
}

func TestValidInvoiceStatus(t *testing.T) {
	for _, s := range []string{InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusCancelled} {
		assert.True(t, ValidInvoiceStatus(s), s)
	}
	assert.False(t, ValidInvoiceStatus("OVERDUE"))
}
