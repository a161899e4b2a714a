package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"
)

// ErrRequired is reported when a required field holds an empty value.
var ErrRequired = errors.New("field is required")

// ValidationError ties a validation message to a field key.
type ValidationError struct {
	Key string
	Err error
}

func (e *ValidationError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Validate checks value against the required flag, declarative rules and
// the custom Validator of f, in that order, returning the first failure as
// a *ValidationError.
func Validate(f Field, value any) error {
	if IsEmpty(value) {
		if f.Required {
			return &ValidationError{Key: f.Key, Err: ErrRequired}
		}
		if f.Validator == nil {
			return nil
		}
	} else {
		for _, rule := range f.Rules {
			if err := checkRule(rule, value); err != nil {
				return &ValidationError{Key: f.Key, Err: err}
			}
		}
	}
	if f.Validator != nil {
		if err := f.Validator(value); err != nil {
			return &ValidationError{Key: f.Key, Err: err}
		}
	}
	return nil
}

func checkRule(rule Rule, value any) error {
	fail := func(format string, args ...any) error {
		if rule.Message != "" {
			return errors.New(rule.Message)
		}
		return fmt.Errorf(format, args...)
	}

	switch rule.Kind {
	case RuleMin, RuleMax:
		limit, err := strconv.ParseFloat(rule.Value, 64)
		if err != nil {
			return fmt.Errorf("invalid %s rule %q", rule.Kind, rule.Value)
		}
		num, ok := ToFloat(value)
		if !ok {
			return fail("must be a number")
		}
		if rule.Kind == RuleMin && num < limit {
			return fail("must be at least %s", rule.Value)
		}
		if rule.Kind == RuleMax && num > limit {
			return fail("must be at most %s", rule.Value)
		}
	case RuleMinLength, RuleMaxLength:
		limit, err := strconv.Atoi(rule.Value)
		if err != nil {
			return fmt.Errorf("invalid %s rule %q", rule.Kind, rule.Value)
		}
		text, ok := value.(string)
		if !ok {
			return nil
		}
		n := utf8.RuneCountInString(text)
		if rule.Kind == RuleMinLength && n < limit {
			return fail("must be at least %d characters", limit)
		}
		if rule.Kind == RuleMaxLength && n > limit {
			return fail("must be at most %d characters", limit)
		}
	case RulePattern:
		re, err := regexp.Compile(rule.Value)
		if err != nil {
			return fmt.Errorf("invalid pattern %q", rule.Value)
		}
		text, ok := value.(string)
		if ok && !re.MatchString(text) {
			return fail("does not match the expected format")
		}
	}
	return nil
}
