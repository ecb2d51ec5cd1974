package main

import (
	"testing"

	"github.com/lpmesh-protocol/lpmesh-go/pkg/service"
)

func TestParseBootReason(t *testing.T) {
	tests := []struct {
		input   string
		want    service.BootReason
		wantErr bool
	}{
		{"power_on", service.BootPowerOn, false},
		{"timed_wake", service.BootTimedWake, false},
		{"gpio_wake", service.BootGPIOWake, false},
		{"", service.BootPowerOn, true},
		{"warm", service.BootPowerOn, true},
	}

	for _, tt := range tests {
		got, err := parseBootReason(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseBootReason(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseBootReason(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
