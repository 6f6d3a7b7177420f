package domain

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/valyala/fastjson"
)

// ContactSubmission is a single contact form submission. It only lives for the
// duration of one request.
type ContactSubmission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Validate only checks presence. The email address is not format checked.
func (cs *ContactSubmission) Validate() error {
	err := validation.ValidateStruct(cs,
		validation.Field(&cs.Name, validation.Required),
		validation.Field(&cs.Email, validation.Required),
		validation.Field(&cs.Subject, validation.Required),
		validation.Field(&cs.Message, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return nil
}

// NewContactSubmission reads the four submission fields out of a parsed JSON
// body. Falsy JSON values (missing, null, false, "", 0) become empty strings,
// anything else is converted the way a JavaScript template literal would.
func NewContactSubmission(val *fastjson.Value) ContactSubmission {
	return ContactSubmission{
		Name:    truthyString(val.Get("name")),
		Email:   truthyString(val.Get("email")),
		Subject: truthyString(val.Get("subject")),
		Message: truthyString(val.Get("message")),
	}
}

func truthyString(v *fastjson.Value) string {
	if v == nil {
		return ""
	}

	switch v.Type() {
	case fastjson.TypeNull, fastjson.TypeFalse:
		return ""
	case fastjson.TypeNumber:
		if v.GetFloat64() == 0 {
			return ""
		}
	}

	return jsString(v)
}

func jsString(v *fastjson.Value) string {
	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNull:
		return "null"
	case fastjson.TypeTrue:
		return "true"
	case fastjson.TypeFalse:
		return "false"
	case fastjson.TypeNumber:
		return jsNumber(v.GetFloat64())
	case fastjson.TypeArray:
		items := v.GetArray()
		parts := make([]string, len(items))
		for i, item := range items {
			if item.Type() != fastjson.TypeNull {
				parts[i] = jsString(item)
			}
		}
		return strings.Join(parts, ",")
	}

	return "[object Object]"
}

// jsNumber formats f like Number.prototype.toString: shortest round trip
// digits, switching to exponent notation outside [1e-6, 1e21).
func jsNumber(f float64) string {
	if f == 0 {
		return "0"
	}

	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ContactService handles contact form submissions end to end.
type ContactService interface {
	Submit(ctx context.Context, cs ContactSubmission) error
}
