package core

import "testing"

func TestParseDecimalToCentavos(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"350", 35000, false},
		{"12.345", 1234, false}, // rounds down
		{"12.346", 1235, false}, // rounds up
		{".50", 50, false},
		{"0", 0, true},
		{"0.00", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"1.2.3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"  ", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDecimalToCentavos(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDecimalToCentavos(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCentavos(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMoneyPesos(t *testing.T) {
	if got := (Money{Centavos: 123450}).Pesos(); got != 1234.5 {
		t.Errorf("Pesos() = %v, want 1234.5", got)
	}
}
