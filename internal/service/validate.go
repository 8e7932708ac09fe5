package service

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

const (
	minPasswordLen = 6
	maxAddressLen  = 255

	maxPrice = 100_000_000
	maxStock = 1_000_000
)

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	postalCodeRe = regexp.MustCompile(`^\d{7}$`)
)

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func ValidPassword(password string) bool {
	return utf8.RuneCountInString(password) >= minPasswordLen
}

func ValidAddress(address string) bool {
	a := strings.TrimSpace(address)
	return a != "" && utf8.RuneCountInString(a) <= maxAddressLen
}

func ValidPostalCode(code string) bool {
	return postalCodeRe.MatchString(code)
}

func validateRegistration(req transport.RegisterRequest) error {
	if req.Email == "" || req.Name == "" || req.Password == "" || req.Address == "" || req.PostalCode == "" {
		return ErrRegisterFieldsRequired
	}
	if !ValidEmail(req.Email) {
		return ErrInvalidEmail
	}
	if !ValidPassword(req.Password) {
		return ErrPasswordTooShort
	}
	if !ValidAddress(req.Address) {
		return ErrInvalidAddress
	}
	if !ValidPostalCode(req.PostalCode) {
		return ErrInvalidPostalCode
	}
	return nil
}

func validateAddress(address, postalCode string) error {
	if address == "" || postalCode == "" {
		return ErrAddressFieldsRequired
	}
	if !ValidAddress(address) {
		return ErrInvalidAddress
	}
	if !ValidPostalCode(postalCode) {
		return ErrInvalidPostalCode
	}
	return nil
}

// newProduct builds a product record from a request, rejecting it when a
// required field is absent or a numeric field is out of range.
func newProduct(req transport.ProductRequest) (*models.Product, error) {
	if req.Name == "" || req.Description == "" || req.Category == "" || req.Price == nil || req.Stock == nil {
		return nil, ErrProductFieldsRequired
	}
	if *req.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if *req.Price > maxPrice {
		return nil, ErrPriceTooHigh
	}
	if *req.Stock < 0 {
		return nil, ErrInvalidStock
	}
	if *req.Stock > maxStock {
		return nil, ErrStockTooHigh
	}

	return &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       *req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}, nil
}

func validateOrderItems(items []transport.OrderItemRequest) error {
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	for _, it := range items {
		if strings.TrimSpace(it.ProductID) == "" || it.Quantity <= 0 {
			return ErrInvalidItem
		}
	}
	return nil
}

// lineAmount returns price*quantity, or false if it does not fit in an int64.
func lineAmount(price, quantity int64) (int64, bool) {
	if price < 0 || quantity < 0 {
		return 0, false
	}
	if price != 0 && quantity > math.MaxInt64/price {
		return 0, false
	}
	return price * quantity, true
}

func addAmount(a, b int64) (int64, bool) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}
