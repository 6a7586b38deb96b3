// Package validator checks user input with composable rules.
//
// Each rule pairs a check with the field-level error it produces. Apply runs
// them all and returns ValidationErrors, so a form can show every problem at
// once:
//
//	err := validator.Apply(
//		validator.ValidEmail("email", in.Email),
//		validator.Required("displayName", in.DisplayName),
//	)
//	if errs := validator.ExtractValidationErrors(err); errs != nil {
//		// 422 with errs.Map()
//	}
package validator
