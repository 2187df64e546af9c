// Package promotion 从OCR文本中提取促销信息（商品、价格、折扣、品牌等）。
package promotion

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CategoryOther 没有匹配到任何分类关键字时的分类
const CategoryOther = "other"

// Data 提取出的促销字段，未找到的字段不输出
type Data struct {
	ProductName   *string  `json:"product_name,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Discount      *int     `json:"discount,omitempty"`
	Brand         *string  `json:"brand,omitempty"`
	Category      string   `json:"category"`
	StoreName     *string  `json:"store_name,omitempty"`
	ValidUntil    *string  `json:"valid_until,omitempty"` // YYYY-MM-DD
	Tags          []string `json:"tags,omitempty"`
}

// 金额：千分位分隔的整数部分，可选两位小数
const amount = `(\d+(?:[.,]\d{3})*(?:[.,]\d{2})?)`

var (
	productPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:producto|artículo|item|modelo)[:\s]+([^\n\r]+)`),
		regexp.MustCompile(`(?:nombre|descripción)[:\s]+([^\n\r]+)`),
		regexp.MustCompile(`^([a-z0-9\s\-]+)\s*\d+[.,]\d+`),
	}
	pricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`precio(?:\s+con\s+descuento|\s+final|\s+oferta)?[:\s]+\$?\s*` + amount),
		regexp.MustCompile(`\$\s*` + amount),
		regexp.MustCompile(amount + `\s*(?:pesos|mxn|usd|eur)`),
	}
	originalPricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:antes|original|tachado)[:\s]*\$\s*` + amount),
		regexp.MustCompile(`precio\s+original[:\s]+` + amount),
	}
	discountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:descuento|rebaja|oferta)[:\s]*(\d{1,3})%`),
		regexp.MustCompile(`(\d{1,3})%\s*(?:off|descuento|rebaja)`),
		regexp.MustCompile(`-(\d{1,3})%`),
	}
	storePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:tienda|store|local)[:\s]+([^\n\r]+)`),
		regexp.MustCompile(`\ben(?:\s+la|\s+el)?\s+([a-z\s]+)\s+encontramos`),
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:válido|expira|hasta)[:\s]+(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`),
		regexp.MustCompile(`(?:fecha límite|último día)[:\s]+(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`),
	}
	dateSeparator = regexp.MustCompile(`[/\-]`)
)

var brands = []string{
	"samsung", "apple", "sony", "lg", "nike", "adidas",
	"microsoft", "google", "amazon", "walmart", "costco", "target",
}

var brandPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(brands))
	for i, b := range brands {
		patterns[i] = regexp.MustCompile(`\b` + b + `\b`)
	}
	return patterns
}()

var categories = []struct {
	name     string
	keywords []string
}{
	{"electronics", []string{"electrónico", "tecnología", "smartphone", "laptop", "computadora"}},
	{"fashion", []string{"ropa", "zapatos", "accesorios", "moda"}},
	{"home", []string{"hogar", "casa", "muebles", "decoración"}},
	{"beauty", []string{"belleza", "cosméticos", "perfume", "maquillaje"}},
	{"sports", []string{"deportes", "fitness", "ejercicio", "gimnasio"}},
}

var tagKeywords = []string{
	"nuevo", "original", "garantía", "envío gratis", "entrega rápida",
	"stock limitado", "oferta especial", "flash sale", "black friday",
}

// Extract 从文本中提取促销字段，匹配不区分大小写
func Extract(text string) Data {
	text = strings.ToLower(text)
	data := Data{
		ProductName: firstMatch(productPatterns, text),
		Brand:       extractBrand(text),
		Category:    extractCategory(text),
		StoreName:   firstMatch(storePatterns, text),
		ValidUntil:  extractValidUntil(text),
		Tags:        extractTags(text),
	}
	if s := firstMatch(pricePatterns, text); s != nil {
		data.Price = parseAmount(*s)
	}
	if s := firstMatch(originalPricePatterns, text); s != nil {
		data.OriginalPrice = parseAmount(*s)
	}
	if s := firstMatch(discountPatterns, text); s != nil {
		if n, err := strconv.Atoi(*s); err == nil {
			data.Discount = &n
		}
	}
	return data
}

func firstMatch(patterns []*regexp.Regexp, text string) *string {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		if v := strings.TrimSpace(m[1]); v != "" {
			return &v
		}
	}
	return nil
}

// parseAmount 解析 "24,999"、"1.234,50"、"99.99" 等写法。
// 最后一个分隔符后恰好两位数字时视为小数点，其余分隔符视为千分位。
func parseAmount(s string) *float64 {
	decimals := ""
	if i := strings.LastIndexAny(s, ".,"); i >= 0 && len(s)-i-1 == 2 {
		decimals = s[i+1:]
		s = s[:i]
	}
	digits := strings.NewReplacer(".", "", ",", "").Replace(s)
	if decimals != "" {
		digits += "." + decimals
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return nil
	}
	return &v
}

func extractBrand(text string) *string {
	for i, p := range brandPatterns {
		if !p.MatchString(text) {
			continue
		}
		name := brands[i]
		if len(name) <= 2 {
			name = strings.ToUpper(name)
		} else {
			name = strings.ToUpper(name[:1]) + name[1:]
		}
		return &name
	}
	return nil
}

func extractCategory(text string) string {
	for _, c := range categories {
		for _, k := range c.keywords {
			if strings.Contains(text, k) {
				return c.name
			}
		}
	}
	return CategoryOther
}

// extractValidUntil 按 dd/mm/yyyy 解析，两位年份视为 20xx
func extractValidUntil(text string) *string {
	for _, p := range datePatterns {
		m := p.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		parts := dateSeparator.Split(m[1], 3)
		if len(parts) != 3 {
			continue
		}
		day, _ := strconv.Atoi(parts[0])
		month, _ := strconv.Atoi(parts[1])
		year, _ := strconv.Atoi(parts[2])
		if len(parts[2]) == 2 {
			year += 2000
		}
		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// time.Date 会把越界日期滚动到下个月，这里视为无效
		if date.Day() != day || int(date.Month()) != month {
			continue
		}
		v := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		return &v
	}
	return nil
}

func extractTags(text string) []string {
	var tags []string
	for _, tag := range tagKeywords {
		if strings.Contains(text, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}
