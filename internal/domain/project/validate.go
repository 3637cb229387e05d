package project

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	TitleMin       = 3
	TitleMax       = 100
	DescriptionMin = 10
	DescriptionMax = 500
)

// ValidationError names the first rule a payload broke.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%q %s", e.Field, e.Reason)
}

// Validate checks a create payload. Rules are checked in field order and the
// first violation is returned.
func Validate(in Input) error {
	if err := checkLength("title", in.Title, TitleMin, TitleMax); err != nil {
		return err
	}
	if err := checkLength("description", in.Description, DescriptionMin, DescriptionMax); err != nil {
		return err
	}
	return checkTechnologies(in.Technologies)
}

// ValidatePatch applies the Validate rules to the fields present in p.
func ValidatePatch(p Patch) error {
	if p.Title != nil {
		if err := checkLength("title", *p.Title, TitleMin, TitleMax); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := checkLength("description", *p.Description, DescriptionMin, DescriptionMax); err != nil {
			return err
		}
	}
	if p.Technologies != nil {
		return checkTechnologies(*p.Technologies)
	}
	return nil
}

func checkLength(field, value string, min, max int) error {
	if value == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	n := utf8.RuneCountInString(value)
	if n < min {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("length must be at least %d characters long", min)}
	}
	if n > max {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("length must be less than or equal to %d characters long", max)}
	}
	return nil
}

func checkTechnologies(techs []string) error {
	if techs == nil {
		return &ValidationError{Field: "technologies", Reason: "is required"}
	}
	if len(techs) < 1 {
		return &ValidationError{Field: "technologies", Reason: "must contain at least 1 items"}
	}
	for i, t := range techs {
		if strings.TrimSpace(t) == "" {
			return &ValidationError{Field: fmt.Sprintf("technologies[%d]", i), Reason: "is not allowed to be empty"}
		}
	}
	return nil
}
