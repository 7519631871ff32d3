package request

import (
	"errors"
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
)

const (
	DateLayout = "2006-01-02"

	KindMissingField = "MissingField"
	KindInvalidEnum  = "InvalidEnum"
	KindOutOfRange   = "OutOfRange"
	KindBadRequest   = "BadRequest"
)

var (
	errBlank       = errors.New("cannot be blank")
	errInvalidUUID = errors.New("must be a valid UUID")
	errInvalidTime = errors.New("must be a time in HH:MM or HH:MM:SS format")
	errInvalidZone = errors.New("must be an IANA timezone name")

	clockTime = regexp2.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9](:[0-5][0-9])?$`, regexp2.None)
)

// ValidationError is a request that failed validation. Kind becomes the error code.
type ValidationError struct {
	Kind string
	Err  error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) ErrCode() string {
	return e.Kind
}

// check runs the validation passes in order and tags the first failure with its kind.
type pass struct {
	kind string
	run  func() error
}

func check(passes ...pass) error {
	for _, p := range passes {
		if p.run == nil {
			continue
		}
		if err := p.run(); err != nil {
			return &ValidationError{Kind: p.kind, Err: err}
		}
	}
	return nil
}

func missing(run func() error) pass { return pass{kind: KindMissingField, run: run} }
func enum(run func() error) pass { return pass{kind: KindInvalidEnum, run: run} }
func outOfRange(run func() error) pass { return pass{kind: KindOutOfRange, run: run} }
func malformed(run func() error) pass { return pass{kind: KindBadRequest, run: run} }

// isUUID accepts empty values; pair it with Required when the field is mandatory.
var isUUID = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if p, ok := value.(*string); ok && p != nil {
		s = *p
	}
	if s == "" {
		return nil
	}
	if _, err := uuid.Parse(s); err != nil {
		return errInvalidUUID
	}
	return nil
})

var isDate = validation.Date(DateLayout)

var isClockTime = validation.By(func(value interface{}) error {
	p, _ := value.(*string)
	if p == nil || *p == "" {
		return nil
	}
	if ok, err := clockTime.MatchString(*p); err != nil || !ok {
		return errInvalidTime
	}
	return nil
})

var isTimezone = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.LoadLocation(s); err != nil {
		return errInvalidZone
	}
	return nil
})

func stringsOf[T ~string](values ...T) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// PathID validates a uuid path parameter.
func PathID(name, value string) error {
	return check(
		malformed(func() error {
			if err := validation.Validate(value, validation.Required, isUUID); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		}),
	)
}
