package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

type GenericValidator struct {
	Validator *validator.Validate
}

// Validate checks the struct tags of i and flattens field errors into one message.
func (gv *GenericValidator) Validate(i interface{}) error {
	if gv.Validator == nil {
		gv.Validator = validator.New()
	}
	err := gv.Validator.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		if fe.Param() != "" {
			messages = append(messages, fmt.Sprintf("%s failed on '%s=%s' (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			messages = append(messages, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(messages, "; "))
}
