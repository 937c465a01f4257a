package basket

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/floresvictoria/shopbackend/lib/myerrors"
	"github.com/floresvictoria/shopbackend/lib/myhttp"
)

const defaultQuantity = 1

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// count is an integer that may also arrive as a json string, like "5".
type count int

func (q *count) UnmarshalJSON(data []byte) error {
	var n int
	err := json.Unmarshal(data, &n)
	if err == nil {
		*q = count(n)
		return nil
	}

	var str string
	if json.Unmarshal(data, &str) != nil {
		return err
	}
	n, err = strconv.Atoi(strings.TrimSpace(str))
	if err != nil {
		return fmt.Errorf("%q is not an integer", str)
	}
	*q = count(n)
	return nil
}

type cartItemRequest struct {
	ProductID   string   `json:"productId" form:"productId" validate:"required"`
	Name        string   `json:"name" form:"name" validate:"required,min=3,max=200"`
	Price       *float64 `json:"price" form:"price" validate:"required,gte=0"`
	Quantity    *count   `json:"quantity" form:"quantity" validate:"omitempty,min=1,max=99"`
	Image       string   `json:"image" form:"image" validate:"omitempty,url"`
	Extras      []string `json:"extras" form:"extras" validate:"omitempty,max=10"`
	MaxQuantity *count   `json:"maxQuantity" form:"maxQuantity" validate:"omitempty,min=1"`
}

type wishlistItemRequest struct {
	ProductID string     `json:"productId" form:"productId" validate:"required"`
	Name      string     `json:"name" form:"name" validate:"required,min=3,max=200"`
	Price     *float64   `json:"price" form:"price" validate:"required,gt=0"`
	Image     string     `json:"image" form:"image" validate:"omitempty,url"`
	InStock   *bool      `json:"inStock" form:"inStock"`
	AddedAt   *time.Time `json:"addedAt" form:"addedAt"`
}

type updateQuantityRequest struct {
	Quantity *count `json:"quantity" form:"quantity" validate:"required,min=0,max=99"`
}

// itemFromRequest decodes, validates and normalizes the body of an add-item request.
// Fields it does not know are kept as extra item fields. Wishlist items are stamped
// with now unless the body carries addedAt.
func itemFromRequest(kind Kind, r *http.Request, now time.Time) (Item, error) {
	body, err := myhttp.ReadBody(r)
	if err != nil {
		return Item{}, err
	}

	if kind.Merge == MergeQuantity {
		req := cartItemRequest{}
		extra, err := decodeBody(r, body, &req)
		if err != nil {
			return Item{}, err
		}
		req.ProductID = strings.TrimSpace(req.ProductID)
		req.Name = strings.TrimSpace(req.Name)
		err = validateRequest(req)
		if err != nil {
			return Item{}, err
		}

		quantity := defaultQuantity
		if req.Quantity != nil {
			quantity = int(*req.Quantity)
		}
		setExtra(extra, "image", req.Image, req.Image != "")
		setExtra(extra, "extras", req.Extras, len(req.Extras) > 0)
		setExtra(extra, "maxQuantity", req.MaxQuantity, req.MaxQuantity != nil)

		return Item{
			ProductID: req.ProductID,
			Name:      req.Name,
			Price:     *req.Price,
			Quantity:  quantity,
			Extra:     nilIfEmpty(extra),
		}, nil
	}

	req := wishlistItemRequest{}
	extra, err := decodeBody(r, body, &req)
	if err != nil {
		return Item{}, err
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	req.Name = strings.TrimSpace(req.Name)
	err = validateRequest(req)
	if err != nil {
		return Item{}, err
	}
	delete(extra, "quantity")
	setExtra(extra, "image", req.Image, req.Image != "")

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	addedAt := now.UTC()
	if req.AddedAt != nil {
		addedAt = req.AddedAt.UTC()
	}
	setExtra(extra, "inStock", inStock, true)
	setExtra(extra, "addedAt", addedAt, true)

	return Item{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     *req.Price,
		Extra:     nilIfEmpty(extra),
	}, nil
}

func quantityFromRequest(r *http.Request) (int, error) {
	body, err := myhttp.ReadBody(r)
	if err != nil {
		return 0, err
	}

	req := updateQuantityRequest{}
	_, err = decodeBody(r, body, &req)
	if err != nil {
		return 0, err
	}
	err = validateRequest(req)
	if err != nil {
		return 0, err
	}
	return int(*req.Quantity), nil
}

// decodeBody fills target from a json or form body. For json it also returns the
// fields of the body that are not one of the item fields.
func decodeBody(r *http.Request, body []byte, target interface{}) (map[string]json.RawMessage, error) {
	if myhttp.IsForm(r) {
		err := myhttp.DecodeForm(body, target)
		if err != nil {
			return nil, err
		}
		return map[string]json.RawMessage{}, nil
	}

	fields := map[string]json.RawMessage{}
	err := json.Unmarshal(body, &fields)
	if err != nil {
		return nil, myerrors.NewInvalidInputError(fmt.Errorf("error parsing request body: %s", err))
	}

	// encoding/json matches names case-insensitively, so "PRICE" would silently
	// override "price".
	known := fieldNames(target)
	for name := range fields {
		if meant, found := matchIgnoringCase(known, name); found {
			return nil, myerrors.NewInvalidInputError(fmt.Errorf("unknown field %s, did you mean %s", name, meant))
		}
	}

	err = json.Unmarshal(body, target)
	if err != nil {
		return nil, myerrors.NewInvalidInputError(fmt.Errorf("error parsing request body: %s", err))
	}

	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	for _, name := range knownItemFields {
		delete(fields, name)
	}
	return fields, nil
}

// fieldNames lists the json names of the request struct plus those of an item.
func fieldNames(target interface{}) []string {
	names := append([]string{}, knownItemFields...)
	t := reflect.TypeOf(target)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			names = append(names, name)
		}
	}
	return names
}

// matchIgnoringCase returns the known name that equals name in all but case.
func matchIgnoringCase(known []string, name string) (string, bool) {
	for _, k := range known {
		if k != name && strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}

func validateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return myerrors.NewInvalidInputError(err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, describe(fe))
	}
	return myerrors.NewInvalidInputError(fmt.Errorf("%s", strings.Join(messages, ", ")))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid url", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func setExtra(extra map[string]json.RawMessage, name string, value interface{}, present bool) {
	if !present {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	extra[name] = raw
}

func nilIfEmpty(extra map[string]json.RawMessage) map[string]json.RawMessage {
	if len(extra) == 0 {
		return nil
	}
	return extra
}
