package Controllers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"

	"Mandi/Ledger"
)

// Validator checks request bodies and reports the first failing field by
// its JSON path with an English message.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewValidator registers the English translations and JSON field names
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	return &Validator{validate: v, trans: trans}
}

// Struct validates s and returns the first failure as a ValidationError
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return Ledger.Invalid("", "%s", err.Error())
	}
	fe := fieldErrs[0]
	return &Ledger.ValidationError{Field: fieldPath(fe.Namespace()), Message: fe.Translate(v.trans)}
}

// fieldPath drops the struct name from a namespace such as
// "TransactionRequest.items[0].quantity".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

type badRequest struct {
	message string
}

func (e *badRequest) Error() string { return e.message }

// bind parses the JSON body into out and validates it.
func (v *Validator) bind(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return &badRequest{message: "invalid request body: " + err.Error()}
	}
	return v.Struct(out)
}
