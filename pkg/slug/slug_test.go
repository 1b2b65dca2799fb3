package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kashvi-shop/pkg/slug"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Summer Dresses":          "summer-dresses",
		"  T-Shirts & Tops  ":     "t-shirts-and-tops",
		"Áo sơ mi Đen":            "ao-so-mi-den",
		"Crème Brûlée 2024":       "creme-brulee-2024",
		"already-a-slug":          "already-a-slug",
		"Multiple   ---  spaces":  "multiple-spaces",
		"Straße":                  "strasse",
		"!!!":                     "",
		"Men's Jackets (Winter)!": "men-s-jackets-winter",
	}
	for in, want := range cases {
		assert.Equal(t, want, slug.Make(in), in)
	}
}

func TestMakeIsIdempotent(t *testing.T) {
	for _, in := range []string{"Áo Khoác Nam", "Kids / Shoes", "Linen Shirt XL"} {
		once := slug.Make(in)
		assert.Equal(t, once, slug.Make(once), in)
	}
}

func TestMakeHashesNamesWithoutASCIIForm(t *testing.T) {
	shoes := slug.Make("Обувь")
	clothes := slug.Make("Одежда")
	chinese := slug.Make("鞋子")

	for _, s := range []string{shoes, clothes, chinese} {
		assert.Regexp(t, `^n-[0-9a-f]{10}$`, s)
		assert.Equal(t, s, slug.Make(s))
	}
	assert.NotEqual(t, shoes, clothes)
	assert.Equal(t, shoes, slug.Make("  обувь "), "case and padding do not change the slug")

	assert.Empty(t, slug.Make("!!"))
	assert.Empty(t, slug.Make(""))
}
