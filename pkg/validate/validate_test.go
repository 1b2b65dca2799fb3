package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/kashvi-shop/pkg/validate"
)

type sizeInput struct {
	Size     string `json:"size"     validate:"required,in=S,M,L,XL,XXL"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

type productInput struct {
	Name   string      `json:"name"          validate:"required,min=2,max=120"`
	Price  float64     `json:"price"         validate:"gte=0"`
	Rating float64     `json:"ratingAverage" validate:"nullable,between=1,5"`
	Cat    string      `json:"categoryId"    validate:"required,objectid"`
	Sizes  []sizeInput `json:"sizes"         validate:"dive"`
	Roles  []string    `json:"role"          validate:"nullable,dive,in=admin,user"`
	Email  *string     `json:"email"         validate:"nullable,email"`
	Notes  *string     `json:"notes"         validate:"nullable,max=5"`
}

func validProduct() productInput {
	return productInput{
		Name:   "Linen shirt",
		Price:  29.5,
		Rating: 4.5,
		Cat:    "65a1f0c2e4b0a1b2c3d4e5f6",
		Sizes:  []sizeInput{{Size: "M", Quantity: 3}},
		Roles:  []string{"user"},
	}
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(validProduct())
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(productInput{})
	if _, ok := errs["name"]; !ok {
		t.Error("expected name to be required")
	}
	if _, ok := errs["categoryId"]; !ok {
		t.Error("expected categoryId to be required")
	}
	if _, ok := errs["ratingAverage"]; ok {
		t.Error("nullable rating should be skipped when zero")
	}
}

func TestBetweenRule(t *testing.T) {
	in := validProduct()
	in.Rating = 6
	errs := validate.Struct(in)
	if errs["ratingAverage"] != "The ratingAverage must be between 1 and 5." {
		t.Errorf("unexpected message: %q", errs["ratingAverage"])
	}
}

func TestObjectIDRule(t *testing.T) {
	in := validProduct()
	in.Cat = "not-an-id"
	if _, ok := validate.Struct(in)["categoryId"]; !ok {
		t.Error("expected objectid error")
	}
}

func TestDiveIntoStructs(t *testing.T) {
	in := validProduct()
	in.Sizes = []sizeInput{{Size: "M", Quantity: 1}, {Size: "XXXL", Quantity: -1}}
	errs := validate.Struct(in)

	if _, ok := errs["sizes[1].size"]; !ok {
		t.Errorf("expected sizes[1].size error, got %v", errs)
	}
	if _, ok := errs["sizes[1].quantity"]; !ok {
		t.Errorf("expected sizes[1].quantity error, got %v", errs)
	}
	if _, ok := errs["sizes[0].size"]; ok {
		t.Error("first element is valid")
	}
}

func TestDiveIntoScalars(t *testing.T) {
	in := validProduct()
	in.Roles = []string{"user", "root"}
	errs := validate.Struct(in)
	if _, ok := errs["role[1]"]; !ok {
		t.Errorf("expected role[1] error, got %v", errs)
	}
}

func TestPointerFields(t *testing.T) {
	bad, long := "nope", "far too long"
	in := validProduct()
	in.Email = &bad
	in.Notes = &long
	errs := validate.Struct(in)
	if _, ok := errs["email"]; !ok {
		t.Error("expected email error through pointer")
	}
	if _, ok := errs["notes"]; !ok {
		t.Error("expected max error through pointer")
	}

	good := "buyer@example.com"
	in = validProduct()
	in.Email = &good
	if validate.HasErrors(validate.Struct(&in)) {
		t.Error("pointer email should pass")
	}
}

func TestInRuleKeepsFollowingRules(t *testing.T) {
	type in struct {
		Method string `json:"paymentMethod" validate:"required,in=credit_card,paypal,cash_on_delivery,max=10"`
	}
	errs := validate.Struct(in{Method: "cash_on_delivery"})
	if _, ok := errs["paymentMethod"]; !ok {
		t.Error("max rule after in= should still run")
	}
	if validate.HasErrors(validate.Struct(in{Method: "paypal"})) {
		t.Error("paypal is allowed")
	}
}
