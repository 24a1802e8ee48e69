package payroll

import (
	"strings"
	"unicode"
)

// Product 后端产品类型
type Product string

const (
	ProductVSC         Product = "vsc"
	ProductGAP         Product = "gap"
	ProductMaintenance Product = "maintenance"
	ProductCilajet     Product = "cilajet"
	ProductDiamon      Product = "diamon"
	ProductKeyLoJack   Product = "key_lojack"
	ProductCollision   Product = "collision"
	ProductDent        Product = "dent"
	ProductExcess      Product = "excess"
	ProductPPF         Product = "ppf"
	ProductWheelTire   Product = "wheel_tire"
)

// AllProducts 全部产品（按报表展示顺序）
var AllProducts = []Product{
	ProductVSC,
	ProductGAP,
	ProductMaintenance,
	ProductCilajet,
	ProductDiamon,
	ProductKeyLoJack,
	ProductCollision,
	ProductDent,
	ProductExcess,
	ProductPPF,
	ProductWheelTire,
}

var productLabels = map[Product]string{
	ProductVSC:         "VSC",
	ProductGAP:         "GAP",
	ProductMaintenance: "Maintenance",
	ProductCilajet:     "Cilajet",
	ProductDiamon:      "Diamon",
	ProductKeyLoJack:   "Key/LoJack",
	ProductCollision:   "Collision",
	ProductDent:        "Dent",
	ProductExcess:      "Excess",
	ProductPPF:         "PPF",
	ProductWheelTire:   "Wheel & Tire",
}

// compact 形式（去除大小写与符号）到产品的映射，兼容导入数据中的多种写法
var productAliases = map[string]Product{
	"vsc":         ProductVSC,
	"gap":         ProductGAP,
	"maintenance": ProductMaintenance,
	"maint":       ProductMaintenance,
	"cilajet":     ProductCilajet,
	"diamon":      ProductDiamon,
	"keylojack":   ProductKeyLoJack,
	"lojackkey":   ProductKeyLoJack,
	"lojack":      ProductKeyLoJack,
	"key":         ProductKeyLoJack,
	"collision":   ProductCollision,
	"dent":        ProductDent,
	"excess":      ProductExcess,
	"ppf":         ProductPPF,
	"wheeltire":   ProductWheelTire,
	"tirewheel":   ProductWheelTire,
}

// ParseProduct 解析产品名称，未知名称返回 false
func ParseProduct(raw string) (Product, bool) {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	product, ok := productAliases[b.String()]
	return product, ok
}

// Label 产品展示名称
func (p Product) Label() string {
	if label, ok := productLabels[p]; ok {
		return label
	}
	return string(p)
}
