package promotion

import (
	"encoding/json"
	"reflect"
	"testing"

	"ocr-server-go/src/core/ocr"
)

func TestExtractMediumSnippet(t *testing.T) {
	data := Extract(ocr.MediumSnippet)

	if data.Price == nil || *data.Price != 24999 {
		t.Errorf("Price = %v, want 24999", data.Price)
	}
	if data.OriginalPrice == nil || *data.OriginalPrice != 29999 {
		t.Errorf("OriginalPrice = %v, want 29999", data.OriginalPrice)
	}
	if data.Discount == nil || *data.Discount != 17 {
		t.Errorf("Discount = %v, want 17", data.Discount)
	}
	if data.Brand == nil || *data.Brand != "Samsung" {
		t.Errorf("Brand = %v", data.Brand)
	}
	if data.Category != "electronics" {
		t.Errorf("Category = %q", data.Category)
	}
	if data.StoreName == nil || *data.StoreName != "samsung store" {
		t.Errorf("StoreName = %v", data.StoreName)
	}
	if data.ProductName != nil {
		t.Errorf("ProductName = %q, want none", *data.ProductName)
	}
}

func TestExtractLongSnippet(t *testing.T) {
	data := Extract(ocr.LongSnippet)

	if data.ProductName == nil || *data.ProductName != `laptop macbook pro 16" m2 pro` {
		t.Errorf("ProductName = %v", data.ProductName)
	}
	if data.Price == nil || *data.Price != 89999 {
		t.Errorf("Price = %v, want discounted 89999", data.Price)
	}
	if data.OriginalPrice == nil || *data.OriginalPrice != 109999 {
		t.Errorf("OriginalPrice = %v", data.OriginalPrice)
	}
	if data.Discount == nil || *data.Discount != 18 {
		t.Errorf("Discount = %v", data.Discount)
	}
	if data.Brand == nil || *data.Brand != "Apple" {
		t.Errorf("Brand = %v", data.Brand)
	}
	if data.ValidUntil == nil || *data.ValidUntil != "2024-12-31" {
		t.Errorf("ValidUntil = %v", data.ValidUntil)
	}
	want := []string{"original", "envío gratis", "stock limitado"}
	if !reflect.DeepEqual(data.Tags, want) {
		t.Errorf("Tags = %v, want %v", data.Tags, want)
	}
}

func TestExtractShortSnippet(t *testing.T) {
	data := Extract(ocr.ShortSnippet)

	if data.Price != nil || data.Brand != nil {
		t.Errorf("unexpected price/brand: %+v", data)
	}
	if data.Discount == nil || *data.Discount != 20 {
		t.Errorf("Discount = %v", data.Discount)
	}
	if data.Category != CategoryOther {
		t.Errorf("Category = %q", data.Category)
	}
	if data.ValidUntil == nil || *data.ValidUntil != "2024-12-31" {
		t.Errorf("ValidUntil = %v", data.ValidUntil)
	}
	if !reflect.DeepEqual(data.Tags, []string{"oferta especial"}) {
		t.Errorf("Tags = %v", data.Tags)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"24,999", 24999},
		{"109,999", 109999},
		{"1,234.56", 1234.56},
		{"1.234,50", 1234.5},
		{"99.99", 99.99},
		{"24999", 24999},
	}
	for _, tt := range tests {
		got := parseAmount(tt.input)
		if got == nil || *got != tt.want {
			t.Errorf("parseAmount(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestExtractEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		check func(t *testing.T, d Data)
	}{
		{
			name: "无效日期",
			text: "válido hasta 31/02/2024",
			check: func(t *testing.T, d Data) {
				if d.ValidUntil != nil {
					t.Errorf("ValidUntil = %q, want none", *d.ValidUntil)
				}
			},
		},
		{
			name: "两位年份",
			text: "expira: 05-01-25",
			check: func(t *testing.T, d Data) {
				if d.ValidUntil == nil || *d.ValidUntil != "2025-01-05" {
					t.Errorf("ValidUntil = %v", d.ValidUntil)
				}
			},
		},
		{
			name: "品牌需完整单词",
			text: "algo bonito para el hogar",
			check: func(t *testing.T, d Data) {
				if d.Brand != nil {
					t.Errorf("Brand = %q, want none", *d.Brand)
				}
				if d.Category != "home" {
					t.Errorf("Category = %q", d.Category)
				}
			},
		},
		{
			name: "短品牌名大写",
			text: "Televisor LG 55 pulgadas -30%",
			check: func(t *testing.T, d Data) {
				if d.Brand == nil || *d.Brand != "LG" {
					t.Errorf("Brand = %v", d.Brand)
				}
				if d.Discount == nil || *d.Discount != 30 {
					t.Errorf("Discount = %v", d.Discount)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Extract(tt.text))
		})
	}
}

func TestDataJSONOmitsMissingFields(t *testing.T) {
	raw, err := json.Marshal(Extract(""))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"category":"other"}` {
		t.Errorf("json = %s", raw)
	}
}
