package pay

import (
	"testing"

	"kedai/models"
)

func TestProcess(t *testing.T) {
	tests := []struct {
		name         string
		req          models.PaymentRequest
		wantApproved bool
		wantErr      bool
	}{
		{
			name:         "card payment approved",
			req:          models.PaymentRequest{Method: MethodCard, Amount: 33.90, CardNumber: "4111111111111111"},
			wantApproved: true,
		},
		{
			name:         "ewallet payment approved",
			req:          models.PaymentRequest{Method: MethodEwallet, Amount: 12.50},
			wantApproved: true,
		},
		{
			name:         "counter payment reserved",
			req:          models.PaymentRequest{Method: MethodCounter, Amount: 5.00},
			wantApproved: true,
		},
		{
			name:         "declined test card",
			req:          models.PaymentRequest{Method: MethodCard, Amount: 10.00, CardNumber: DeclinedTestCard},
			wantApproved: false,
		},
		{
			name:         "declined test card with spaces",
			req:          models.PaymentRequest{Method: MethodCard, Amount: 10.00, CardNumber: "4000 0000 0000 0002"},
			wantApproved: false,
		},
		{
			name:         "zero amount approved without charge",
			req:          models.PaymentRequest{Method: MethodCard, Amount: 0},
			wantApproved: true,
		},
		{
			name:         "negative amount declined",
			req:          models.PaymentRequest{Method: MethodEwallet, Amount: -1.00},
			wantApproved: false,
		},
		{
			name:    "unknown method errors",
			req:     models.PaymentRequest{Method: "cheque", Amount: 10.00},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Process(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Process() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if result.Approved != tt.wantApproved {
				t.Errorf("Process() approved = %v, want %v (reason %q)", result.Approved, tt.wantApproved, result.Reason)
			}
			if result.Approved && result.Reference == "" {
				t.Error("approved result missing reference")
			}
		})
	}
}

// The same request yields the same verdict; the simulator has to be
// deterministic for client test suites.
func TestProcessDeterministic(t *testing.T) {
	req := models.PaymentRequest{Method: MethodCard, Amount: 10.00, CardNumber: DeclinedTestCard}
	for i := 0; i < 10; i++ {
		result, err := Process(req)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if result.Approved {
			t.Fatal("declined test card approved")
		}
	}
}
