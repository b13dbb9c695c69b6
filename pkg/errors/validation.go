package errors

import "math"

// ValidateFinite rejects NaN and infinite values.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Configuration("%s must be finite, got %v", name, v)
	}
	return nil
}

// ValidatePositive rejects values that are not finite and strictly greater than zero.
func ValidatePositive(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return Configuration("%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateNonNegative rejects values that are not finite or below zero.
func ValidateNonNegative(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return Configuration("%s must not be negative, got %v", name, v)
	}
	return nil
}

// ValidateRange rejects values outside the closed interval [lo, hi].
func ValidateRange(name string, v, lo, hi float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < lo || v > hi {
		return Configuration("%s must be within [%v, %v], got %v", name, lo, hi, v)
	}
	return nil
}

// ValidateOneOf rejects a string that is not one of the allowed values.
// An empty allowed list accepts nothing.
func ValidateOneOf(name, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return Configuration("%s must be one of %v, got %q", name, allowed, v)
}

// First returns the first non-nil error, so validators can be chained:
//
//	return errors.First(
//	    errors.ValidatePositive("dt", s.DT),
//	    errors.ValidateRange("damping", s.Damping, 0, 1),
//	)
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
