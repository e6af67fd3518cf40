package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/orders"
)

// Error is a failed validation: field name (JSON spelling) -> message.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// the payment method domain depends on the order type
	v.RegisterStructValidation(checkoutStructValidation, CheckoutRequest{})

	return v
}

func checkoutStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CheckoutRequest)

	ot := orders.OrderType(req.OrderType)
	if !ot.Valid() || req.PaymentMethod == "" {
		// already reported by field tags
		return
	}
	if !ot.Accepts(orders.PaymentMethod(req.PaymentMethod)) {
		sl.ReportError(req.PaymentMethod, "payment_method", "PaymentMethod", "payment_matches_order_type", req.OrderType)
	}
}

// Struct validates out and converts failures into *Error.
func Struct(v *validatorv10.Validate, out interface{}) error {
	err := v.Struct(out)
	if err == nil {
		return nil
	}
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	return &Error{Fields: validationErrorsToMap(ve)}
}

func validationErrorsToMap(ve validatorv10.ValidationErrors) map[string]string {
	out := map[string]string{}
	for _, fe := range ve {
		out[fieldPath(fe)] = message(fe)
	}
	return out
}

// fieldPath drops the struct name: "CheckoutRequest.lines[0].quantity" -> "lines[0].quantity".
func fieldPath(fe validatorv10.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return fmt.Sprintf("is required when %s", strings.Replace(fe.Param(), "OrderType ", "order_type is ", 1))
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s entries", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "payment_matches_order_type":
		return fmt.Sprintf("is not accepted for %s orders", fe.Param())
	}
	return fe.Error()
}
