package services

import (
	"testing"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidateHandlerTable(t *testing.T) {
	s := &authorizationService{}
	table := s.handlerTable()
	assert.NoError(t, validateHandlerTable(table))

	delete(table, domain.AuthReversal)
	delete(table, domain.PreAuth)
	err := validateHandlerTable(table)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), string(domain.AuthReversal))
		assert.Contains(t, err.Error(), string(domain.PreAuth))
	}
}

func TestOutcomeKey(t *testing.T) {
	key := outcomeKey(domain.NetworkEvent{CardRef: "ic_1", ExternalRef: "ext_1", Type: domain.AuthRequest})
	assert.Equal(t, "ic_1:ext_1:AUTH_REQUEST", key)
}

func TestIsForeign(t *testing.T) {
	s := &authorizationService{homeCountry: "US"}
	tests := []struct {
		country string
		want    bool
	}{
		{"", false},
		{"US", false},
		{"us", false},
		{"CA", true},
	}
	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			assert.Equal(t, tt.want, s.isForeign(domain.Merchant{Country: tt.country}))
		})
	}
}
