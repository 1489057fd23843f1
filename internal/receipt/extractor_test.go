package receipt

import (
	"errors"
	"testing"
)

func TestExtract_Amount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "largest currency marked figure wins",
			text: "Super Mart\nItem A Rs. 40.00\nTotal Rs. 1,250.00\nCash Rs 100",
			want: "1250",
		},
		{
			name: "rupee sign",
			text: "Cafe\nTotal ₹450",
			want: "450",
		},
		{
			name: "INR marker with fraction",
			text: "Invoice\nAmount due INR 99.50",
			want: "99.5",
		},
		{
			name: "thousand separators are stripped",
			text: "Total Rs 12,34,567",
			want: "1234567",
		},
		{
			name: "no currency marker falls back to last bare decimal",
			text: "Store\nitem 12.50\nitem 30.25\ntotal 99.99",
			want: "99.99",
		},
		{
			name: "no figures at all leaves amount zero",
			text: "Thank you for shopping",
			want: "0",
		},
		{
			name: "empty text leaves amount zero",
			text: "",
			want: "0",
		},
		{
			name: "currency marker beats a larger bare figure",
			text: "Ref 99999.99\nTotal Rs 500",
			want: "500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if !got.Success {
				t.Fatal("Extract() Success = false, want true")
			}
			if got.Amount.String() != tt.want {
				t.Errorf("Amount = %s, want %s", got.Amount, tt.want)
			}
		})
	}
}

func TestExtract_Merchant(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "first non-empty line",
			text: "Super Mart\n123 Main Road\nTotal Rs 500",
			want: "Super Mart",
		},
		{
			name: "leading blank lines are skipped",
			text: "\n\n   \nCorner Cafe\nTotal 45.00",
			want: "Corner Cafe",
		},
		{
			name: "whitespace is trimmed",
			text: "   Corner Cafe   \nTotal 45.00",
			want: "Corner Cafe",
		},
		{
			name: "empty text falls back to the sentinel",
			text: "",
			want: "Unknown Merchant",
		},
		{
			name: "whitespace-only text falls back to the sentinel",
			text: "  \n \n\t\n",
			want: "Unknown Merchant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if got.Merchant != tt.want {
				t.Errorf("Merchant = %q, want %q", got.Merchant, tt.want)
			}
		})
	}
}

func TestExtract_KeepsRawText(t *testing.T) {
	text := "Super Mart\nTotal Rs 500"
	got := Extract(text)
	if got.RawText != text {
		t.Errorf("RawText = %q, want original text", got.RawText)
	}
}

func TestFailed(t *testing.T) {
	got := Failed(errors.New("upstream timeout"))
	if got.Success {
		t.Error("Failed() Success = true, want false")
	}
	if got.Err != "upstream timeout" {
		t.Errorf("Err = %q, want %q", got.Err, "upstream timeout")
	}
	if !got.Amount.IsZero() {
		t.Errorf("Amount = %s, want 0", got.Amount)
	}
}
