package manifest

import (
	"github.com/go-playground/validator/v10"
)

// -----------------------------------------------------------------------------
// Validator interface
// -----------------------------------------------------------------------------

type Validator interface {
	Validate() error
}

// CompositeValidator allows combining multiple validators
type CompositeValidator struct {
	validators []Validator
}

func NewCompositeValidator(validators ...Validator) *CompositeValidator {
	return &CompositeValidator{
		validators: validators,
	}
}

func (v *CompositeValidator) Validate() error {
	for _, validator := range v.validators {
		if err := validator.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// StructValidator
// -----------------------------------------------------------------------------

type StructValidator struct {
	validate *validator.Validate
	value    any
}

func NewStructValidator(value any) *StructValidator {
	return &StructValidator{
		validate: validator.New(),
		value:    value,
	}
}

func (v *StructValidator) Validate() error {
	return v.validate.Struct(v.value)
}

// -----------------------------------------------------------------------------
// CadenceValidator
// -----------------------------------------------------------------------------

// CadenceValidator enforces that syncs declare a cadence and actions do not.
type CadenceValidator struct {
	flow *FlowConfig
}

func NewCadenceValidator(flow *FlowConfig) *CadenceValidator {
	return &CadenceValidator{flow: flow}
}

func (v *CadenceValidator) Validate() error {
	switch v.flow.Type {
	case FlowTypeSync:
		if v.flow.Runs == "" {
			return NewMissingRunsError(v.flow.Name)
		}
	case FlowTypeAction:
		if v.flow.Runs != "" {
			return NewUnexpectedRunsError(v.flow.Name)
		}
	default:
		return NewInvalidTypeError(v.flow.Name, string(v.flow.Type))
	}
	return nil
}

// Validate checks the descriptor against the schema rules: a valid type, a
// cadence for syncs and none for actions.
func (f *FlowConfig) Validate() error {
	v := NewCompositeValidator(
		NewCadenceValidator(f),
		NewStructValidator(f),
	)
	return v.Validate()
}
